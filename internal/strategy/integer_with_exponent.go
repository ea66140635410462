package strategy

import (
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/token"
)

const (
	exponentDecadeCost   uint32 = 61
	exponentNegationCost uint32 = 1078
	exponentTensCost     uint32 = 1150
	exponentBaseCost     uint32 = 3546
)

// exponentSpeedCost estimates the clock cycles to parse just the |E
// suffix of an exponent-notation literal. ok is false outside the
// device's two-digit exponent range.
func exponentSpeedCost(exponent int) (cost uint32, ok bool) {
	if exponent < -99 || exponent > 99 {
		return 0, false
	}
	cost = exponentBaseCost
	if exponent < 0 {
		cost += exponentNegationCost
		exponent = -exponent
	}
	if decades := uint32(exponent / 10); decades != 0 {
		cost += exponentTensCost + exponentDecadeCost*decades
	}
	return cost, true
}

// exponentDigitCost counts the bytes an |E exponent's digits (and its
// sign, if any) contribute: one digit for 0..9, a sign or a second
// digit for -9..-1 and 10..99, both for -99..-10.
func exponentDigitCost(shift int) int {
	switch {
	case shift >= 0 && shift <= 9:
		return 1
	case shift >= -9 && shift <= -1, shift >= 10 && shift <= 99:
		return 2
	default:
		return 3
	}
}

// IntegerWithExponent renders a float as <mantissa>|E<exponent>, with
// every significant digit placed before the |E.
type IntegerWithExponent struct {
	original numeric.Float
	adjusted numeric.Float
}

func integerAdjust(item numeric.Float) numeric.Float {
	sig := len(item.SignificantFigures())
	return item.Shift(-(int(item.Exponent) - sig + 1))
}

func NewIntegerWithExponent(item numeric.Float) IntegerWithExponent {
	return IntegerWithExponent{original: item, adjusted: integerAdjust(item)}
}

func (ie IntegerWithExponent) shift() int {
	return int(ie.original.Exponent) - int(ie.adjusted.Exponent)
}

func (ie IntegerWithExponent) Exists() bool {
	s := ie.shift()
	return s >= -99 && s <= 99
}

func (ie IntegerWithExponent) SizeCost() int {
	sig := ie.original.SignificantFigures()
	mantissaCost := len(sig)
	if len(sig) == 1 && sig[0] == 1 {
		mantissaCost = 0
	}
	return 1 + mantissaCost + exponentDigitCost(ie.shift())
}

func (ie IntegerWithExponent) SpeedCost() uint32 {
	base := NewWriteDigits(ie.adjusted).SpeedCost()
	expCost, _ := exponentSpeedCost(ie.shift())
	return base + expCost
}

func (ie IntegerWithExponent) Reconstruct(opts Options) []token.Token {
	var out []token.Token
	sig := ie.original.SignificantFigures()
	if !(len(sig) == 1 && sig[0] == 1) {
		out = append(out, NewWriteDigits(ie.adjusted).Reconstruct(opts)...)
	}
	out = append(out, token.One(token.ByteExponentMark))

	exponent := ie.shift()
	if exponent < 0 {
		out = append(out, token.One(token.ByteNegate))
		exponent = -exponent
	}
	if exponent >= 10 {
		out = append(out, token.One(token.ByteDigitZero+byte(exponent/10)))
	}
	out = append(out, token.One(token.ByteDigitZero+byte(exponent%10)))

	return out
}
