package strategy

import (
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/token"
)

// piFloat and eFloat are the normalized fourteen-digit significands the
// device stores for pi and e.
var (
	piFloat = numeric.Float{Exponent: 0, Digits: [numeric.MaxSignificandDigits]byte{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 8}}
	eFloat  = numeric.Float{Exponent: 0, Digits: [numeric.MaxSignificandDigits]byte{2, 7, 1, 8, 2, 8, 1, 8, 2, 8, 4, 5, 9, 0}}
)

// MathConstant substitutes the pi or e token for a float that exactly
// equals the device's stored constant, rather than writing its digits.
type MathConstant struct {
	tok   token.Token
	found bool
}

func NewMathConstant(item numeric.Float) MathConstant {
	switch {
	case item.Equal(piFloat):
		return MathConstant{tok: token.TokenPi, found: true}
	case item.Equal(eFloat):
		return MathConstant{tok: token.TokenE, found: true}
	default:
		return MathConstant{}
	}
}

func (m MathConstant) Exists() bool { return m.found }

func (m MathConstant) SizeCost() int {
	if m.tok.IsWide() {
		return 2
	}
	return 1
}

func (m MathConstant) SpeedCost() uint32 {
	if m.tok.Equal(token.TokenPi) {
		return 4819
	}
	return 4784
}

func (m MathConstant) Reconstruct(Options) []token.Token {
	return []token.Token{m.tok}
}
