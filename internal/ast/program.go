package ast

import "tibasicopt/internal/token"

// Program is an ordered sequence of statements, one per source line, at a
// fixed Version. Statement boundaries correspond to newline opcodes in the
// original token stream; the parser is responsible for respecting string
// scope when it partitions lines (spec.md §3).
type Program struct {
	Statements []Stmt
	Version    token.Version
}

// Len reports the number of statement lines.
func (p *Program) Len() int { return len(p.Statements) }
