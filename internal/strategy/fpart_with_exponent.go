package strategy

import (
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/token"
)

// FPartWithExponent renders a float as .<mantissa>|E<exponent>, with
// every significant digit placed after the decimal point. Parsing the
// leading decimal point is slow, but every digit after it is fast, so
// this sometimes wins under Priority.Speed even though WriteDigits or
// IntegerWithExponent are usually smaller or faster overall.
type FPartWithExponent struct {
	original numeric.Float
	adjusted numeric.Float
}

func fpartAdjust(item numeric.Float) numeric.Float {
	return item.Shift(-int(item.Exponent) - 1)
}

func NewFPartWithExponent(item numeric.Float) FPartWithExponent {
	return FPartWithExponent{original: item, adjusted: fpartAdjust(item)}
}

func (fp FPartWithExponent) shift() int {
	return int(fp.original.Exponent) - int(fp.adjusted.Exponent)
}

func (fp FPartWithExponent) Exists() bool {
	s := fp.shift()
	return s >= -99 && s <= 99
}

func (fp FPartWithExponent) SizeCost() int {
	negationCost := 0
	if fp.original.Negative {
		negationCost = 1
	}
	sig := len(fp.original.SignificantFigures())
	return negationCost + 1 + sig + 1 + exponentDigitCost(fp.shift())
}

func (fp FPartWithExponent) SpeedCost() uint32 {
	mantissaCost := NewWriteDigits(fp.adjusted).SpeedCost()
	expCost, _ := exponentSpeedCost(fp.shift())
	return mantissaCost + expCost
}

func (fp FPartWithExponent) Reconstruct(opts Options) []token.Token {
	out := NewWriteDigits(fp.adjusted).Reconstruct(opts)
	out = append(out, token.One(token.ByteExponentMark))

	exponent := fp.shift()
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
