package strategy

import (
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/token"
)

// Clock-cycle cost constants, calibrated against measured parse times for
// a handful of representative literals (1, .1, 11, 10, .01, .11, 111) and
// solved for the cost of each contributing factor: a significant digit,
// a fractional digit, the decimal-point shift the tokenizer performs
// every other digit, the literal's fixed base cost, a digit that
// happens to be a zero, and a leading zero after the decimal point.
const (
	digitCost           uint32 = 1976
	fracDigitCost       uint32 = 1867
	shiftingCost        uint32 = 79
	baseCost            uint32 = 5020
	zeroSigFigCost      uint32 = 62
	fracLeadingZeroCost uint32 = 1422
	decimalPointCost    uint32 = 1123
)

// WriteDigits renders a float digit by digit, the representation every
// float always has available.
type WriteDigits struct {
	item numeric.Float
}

func NewWriteDigits(item numeric.Float) WriteDigits { return WriteDigits{item: item} }

func (w WriteDigits) Exists() bool { return true }

func (w WriteDigits) SizeCost() int {
	exp := int(w.item.Exponent)
	if exp < 0 {
		exp = -exp
	}
	sig := len(w.item.SignificantFigures())
	cost := exp
	if sig > cost {
		cost = sig
	}
	cost++
	if w.item.Negative {
		cost++
	}
	return cost
}

func (w WriteDigits) SpeedCost() uint32 {
	exponent := int(w.item.Exponent)
	digits := w.item.SignificantFigures()

	clock := baseCost

	switch {
	case exponent < 0:
		clock += fracLeadingZeroCost * uint32(-exponent-1)
	case len(digits) < exponent+1:
		trailingZeroCount := uint32(exponent+1-len(digits))
		clock += (digitCost+zeroSigFigCost)*trailingZeroCount +
			shiftingCost*((uint32(1-len(digits)%2)+trailingZeroCount)/2)
	}

	if len(digits) > exponent+1 {
		clock += decimalPointCost
	}

	for index, digit := range digits {
		if index > exponent {
			clock += fracDigitCost
		} else {
			clock += digitCost
		}
		if index%2 == 0 {
			clock += shiftingCost
		}
		if digit == 0 {
			clock += zeroSigFigCost
		}
	}

	return clock
}

func (w WriteDigits) Reconstruct(Options) []token.Token {
	sig := w.item.SignificantFigures()
	exponent := int(w.item.Exponent)

	var out []token.Token
	if w.item.Negative {
		out = append(out, token.One(token.ByteNegate))
	}

	if exponent < 0 {
		out = append(out, token.One(token.ByteDecimalPoint))
		for i := 0; i < -exponent-1; i++ {
			out = append(out, token.One(token.ByteDigitZero))
		}
	}

	for _, d := range sig {
		out = append(out, token.One(token.ByteDigitZero+d))
	}

	if exponent >= 0 {
		switch {
		case len(sig) > 1+exponent:
			insertAt := len(out) - (len(sig) - (1 + exponent))
			withDot := make([]token.Token, 0, len(out)+1)
			withDot = append(withDot, out[:insertAt]...)
			withDot = append(withDot, token.One(token.ByteDecimalPoint))
			withDot = append(withDot, out[insertAt:]...)
			out = withDot
		case exponent >= len(sig):
			zeros := exponent + 1 - len(sig)
			for i := 0; i < zeros; i++ {
				out = append(out, token.One(token.ByteDigitZero))
			}
		}
	}

	return out
}
