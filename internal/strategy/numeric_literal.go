package strategy

import (
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/token"
)

// ReconstructFloat renders a numeric literal by picking the cheapest of
// its five competing encodings under opts.Priority. WriteDigits always
// exists, so this never fails.
func ReconstructFloat(item numeric.Float, opts Options) []token.Token {
	candidates := []Strategy{
		NewWriteDigits(item),
		NewColorConstant(item, opts.Version),
		NewMathConstant(item),
		NewIntegerWithExponent(item),
		NewFPartWithExponent(item),
	}
	out, ok := Pick(candidates, opts)
	if !ok {
		// WriteDigits.Exists() is unconditionally true, so Pick always
		// has at least one candidate; this is unreachable.
		return NewWriteDigits(item).Reconstruct(opts)
	}
	return out
}
