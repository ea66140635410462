// Package reconstruct inverts internal/parser: it walks an AST back into a
// token stream. Every node renders itself through a Config (the target
// version and cost-model priority), the same shape spec.md §4.8 describes,
// and reconstruction itself may never fail: by the time a program reaches
// this package it is already a valid AST.
package reconstruct

import (
	"tibasicopt/internal/ast"
	"tibasicopt/internal/strategy"
	"tibasicopt/internal/token"
	"tibasicopt/internal/tokensheet"
)

// Config carries the parameters every node's reconstruction depends on: the
// device/OS version that gates which opcodes and numeric strategies are
// legal, the cost-model priority strategy.Pick optimizes for, and the
// token-sheet language used to resolve a command's accessible spelling back
// to an opcode.
type Config struct {
	Version  token.Version
	Priority strategy.Priority
	Lang     string
}

func (c Config) strategyOptions() strategy.Options {
	return strategy.Options{Version: c.Version, Priority: c.Priority}
}

// Reconstructor renders AST nodes to tokens against a fixed Sheet and
// Config. It implements both ast.ExprVisitor and ast.StmtVisitor, each
// method returning []token.Token boxed in the interface{} Accept expects.
type Reconstructor struct {
	sheet *tokensheet.Sheet
	cfg   Config
}

// New builds a Reconstructor. Lang defaults to "en" when unset.
func New(sheet *tokensheet.Sheet, cfg Config) *Reconstructor {
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	return &Reconstructor{sheet: sheet, cfg: cfg}
}

func (r *Reconstructor) expr(e ast.Expr) []token.Token {
	return e.Accept(r).([]token.Token)
}

// Statement renders one statement to its canonical (unstripped) token
// form; Program is responsible for the trailing-closer stripping pass.
func (r *Reconstructor) Statement(s ast.Stmt) []token.Token {
	return s.Accept(r).([]token.Token)
}

// Program renders every non-null statement, joined by a single newline
// token, each line's trailing closing parens/brackets/braces and an
// unclosed final string's closing quote stripped per spec.md §4.6.
func (r *Reconstructor) Program(prog *ast.Program) []token.Token {
	var out []token.Token
	first := true
	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*ast.NoneStmt); ok {
			continue
		}
		line := stripTrailingClosers(r.Statement(stmt))
		if !first {
			out = append(out, token.One(token.ByteNewline))
		}
		out = append(out, line...)
		first = false
	}
	return out
}

// resolve looks up the opcode for an accessible name at this Reconstructor's
// version and language. It panics if the sheet has no such entry: every
// name reconstruct is ever asked to render comes from a closed, sheet-backed
// vocabulary (generic commands, named functions), so a miss here means the
// AST was built with a name the configured version cannot express, which is
// a defect upstream rather than a condition reconstruction can recover from
// (spec.md §7: "Reconstruction may not fail").
func (r *Reconstructor) resolve(name string) token.Token {
	tok, ok := r.sheet.ResolveByAccessibleName(name, r.cfg.Version, r.cfg.Lang)
	if !ok {
		panic("reconstruct: no opcode for accessible name " + name + " at the configured version")
	}
	return tok
}

// stripTrailingClosers removes a rendered line's trailing closing
// parens/brackets/braces, and (if the line ends with an unclosed string) its
// final closing quote, walking from the tail. A closing-looking byte that is
// actually literal string content is never stripped: the pass first marks
// every token position that lies strictly between a string's opening and
// closing quote, then refuses to strip once it reaches one.
func stripTrailingClosers(line []token.Token) []token.Token {
	inString := make([]bool, len(line))
	closingQuote := make([]bool, len(line))
	open := false
	for i, tok := range line {
		if !tok.IsWide() && tok.Byte() == token.ByteQuote {
			if open {
				closingQuote[i] = true
			}
			open = !open
			continue
		}
		inString[i] = open
	}

	end := len(line)
	for end > 0 {
		i := end - 1
		if inString[i] {
			break
		}
		tok := line[i]
		if !tok.IsWide() && isClosingBracket(tok.Byte()) {
			end--
			continue
		}
		if closingQuote[i] {
			end--
			continue
		}
		break
	}
	return line[:end]
}

func isClosingBracket(b byte) bool {
	return b == token.ByteCloseParen || b == token.ByteCloseBracket || b == token.ByteCloseBrace
}
