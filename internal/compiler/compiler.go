// Package compiler wires the tokenizer, parser, optimizer, and
// reconstructor into the single straight-line pass spec.md §5 describes:
// no goroutines, no shared mutable state between calls, one Config in
// and one Result out.
package compiler

import (
	"fmt"

	"tibasicopt/internal/ast"
	"tibasicopt/internal/controlflow"
	"tibasicopt/internal/optimize"
	"tibasicopt/internal/parser"
	"tibasicopt/internal/reconstruct"
	"tibasicopt/internal/strategy"
	"tibasicopt/internal/token"
	"tibasicopt/internal/tokenizer"
	"tibasicopt/internal/tokensheet"
)

// Config controls one Compile call end to end: which device/OS version
// and language gate opcode legality, which cost axis the optimizer and
// reconstructor favor, and whether the pipeline should check its own
// output by feeding it back through itself.
type Config struct {
	Version   token.Version
	Priority  strategy.Priority
	Lang      string
	RoundTrip bool
}

// Error wraps a tokenizer or parser failure with the token boundaries the
// tokenizer produced, so a caller can resolve a diag.TokenReport's token
// index back to a line and column without re-tokenizing the source itself.
type Error struct {
	Err       error
	Bounds    tokenizer.TokenBoundaries
	HasBounds bool
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Diagnostics surfaces the control-flow facts computed over the parsed
// program, ahead of label renaming: which lines are reachable only via a
// failed conditional, and which block openers (If-Then, Else, While, For,
// Repeat) never close before end of program.
// Nothing downstream in Compile consumes these; they exist for a caller
// that wants to report them (e.g. --json), the same facts the testable
// control-flow properties are stated against.
type Diagnostics struct {
	FailurePaths map[int]int
	EOFAbusers   map[int]bool
}

// Result is one Compile call's output.
type Result struct {
	Text        string
	Tokens      []token.Token
	Program     *ast.Program
	Diagnostics Diagnostics
}

// Compile tokenizes source, parses it, runs every optimization pass, and
// reconstructs the result back to text. When cfg.RoundTrip is set, the
// rewritten text is fed through the same pipeline a second time and the
// two reconstructed token streams must match byte for byte (spec.md §8's
// program round-trip property); reconstruction itself may never fail,
// so a mismatch here means the pipeline produced a non-fixed-point
// rewrite, reported as an error rather than panicking.
func Compile(source string, sheet *tokensheet.Sheet, cfg Config) (*Result, error) {
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}

	result, err := compileOnce(source, sheet, cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.RoundTrip {
		return result, nil
	}

	second, err := compileOnce(result.Text, sheet, cfg)
	if err != nil {
		return nil, fmt.Errorf("compiler: round-trip re-parse failed: %w", err)
	}
	if !tokensEqual(result.Tokens, second.Tokens) {
		return nil, fmt.Errorf("compiler: round-trip is not a fixed point: reconstructing the reconstructed program produced a different token stream")
	}
	return result, nil
}

func compileOnce(source string, sheet *tokensheet.Sheet, cfg Config) (*Result, error) {
	tz := tokenizer.New(sheet, cfg.Version, cfg.Lang)
	toks, bounds, err := tz.Tokenize(source)
	if err != nil {
		return nil, &Error{Err: err}
	}

	p := parser.New(toks, cfg.Version)
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, &Error{Err: err, Bounds: bounds, HasBounds: true}
	}

	_, eofAbusers := controlflow.BlockFailurePaths(prog)
	failurePaths := controlflow.FailurePaths(prog)

	optimize.OptimizeLabelNames(prog)
	optimize.OptimizeProgramParentheses(prog)
	optimize.StripForClosingParens(prog, cfg.Priority)

	rec := reconstruct.New(sheet, reconstruct.Config{
		Version:  cfg.Version,
		Priority: cfg.Priority,
		Lang:     cfg.Lang,
	})
	outTokens := rec.Program(prog)
	text, _ := tz.Stringify(tokenizer.Tokens(outTokens))

	return &Result{
		Text:    text,
		Tokens:  outTokens,
		Program: prog,
		Diagnostics: Diagnostics{
			FailurePaths: failurePaths,
			EOFAbusers:   eofAbusers,
		},
	}, nil
}

func tokensEqual(a, b []token.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
