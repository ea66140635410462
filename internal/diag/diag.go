// Package diag defines the two diagnostic report shapes the core raises
// (TokenReport, LineReport) and the taxonomy of failure kinds from
// spec.md §7. Rendering to a human-facing or JSON form lives in render.go;
// this file only defines the data and the error-wrapping contract parsers
// and the tokenizer construct reports with.
package diag

import "fmt"

// Kind enumerates the fixed taxonomy of failures the core can raise.
type Kind int

const (
	KindUnexpectedEndOfInput Kind = iota
	KindUnexpectedToken
	KindMissingOperand
	KindBadFloat
	KindBadName
	KindUnsupportedConstruct
	KindInternalError
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case KindUnexpectedToken:
		return "UnexpectedToken"
	case KindMissingOperand:
		return "MissingOperand"
	case KindBadFloat:
		return "BadFloat"
	case KindBadName:
		return "BadName"
	case KindUnsupportedConstruct:
		return "UnsupportedConstruct"
	case KindInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Label is a secondary annotation attached to a report: either a single
// token index (Start == End) or a half-open range, with its own message.
type Label struct {
	Start, End int
	Message    string
}

// TokenReport is an error anchored to a token index, spec.md §7's
// primary diagnostic shape for parser and tokenizer failures.
type TokenReport struct {
	Kind       Kind
	Index      int
	Message    string
	Suggestion string
	Code       int
	HasCode    bool
	Labels     []Label
}

func (r *TokenReport) Error() string {
	if r.Suggestion != "" {
		return fmt.Sprintf("%s at token %d: %s (%s)", r.Kind, r.Index, r.Message, r.Suggestion)
	}
	return fmt.Sprintf("%s at token %d: %s", r.Kind, r.Index, r.Message)
}

// WithLabel appends a secondary label and returns the report for chaining.
func (r *TokenReport) WithLabel(start, end int, message string) *TokenReport {
	r.Labels = append(r.Labels, Label{Start: start, End: end, Message: message})
	return r
}

// LineReport is an error tied to a statement line number rather than a
// single token, rendered by labeling the whole enclosing line.
type LineReport struct {
	Kind    Kind
	Line    int
	Message string
}

func (r *LineReport) Error() string {
	return fmt.Sprintf("%s at line %d: %s", r.Kind, r.Line, r.Message)
}

// NewTokenReport builds a TokenReport with no code or suggestion set.
func NewTokenReport(kind Kind, index int, message string) *TokenReport {
	return &TokenReport{Kind: kind, Index: index, Message: message}
}

// NewLineReport builds a LineReport.
func NewLineReport(kind Kind, line int, message string) *LineReport {
	return &LineReport{Kind: kind, Line: line, Message: message}
}

// Internal wraps an invariant violation (a CFG lookup inconsistency,
// typically) as an InternalError token report carrying a "please report
// this" hint. The cause is wrapped with pkg/errors, but the report keeps
// only the wrapped message; the stack trace is not carried to the CLI.
func Internal(index int, cause error) *TokenReport {
	wrapped := wrapInternal(cause)
	return &TokenReport{
		Kind:       KindInternalError,
		Index:      index,
		Message:    wrapped.Error(),
		Suggestion: "please report this as a bug",
	}
}
