// Package parser turns a token stream into an AST: a shunting-yard
// expression parser (expr.go) and a statement dispatcher (stmt.go) over
// the opcode families spec.md §4.4 lists.
package parser

import (
	"tibasicopt/internal/ast"
	"tibasicopt/internal/diag"
	"tibasicopt/internal/token"
)

// Parser holds the token cursor and accumulates nothing across calls: a
// single parse error aborts the current operation and is returned to the
// caller, per spec.md §7's no-recovery policy.
type Parser struct {
	cur *ast.Cursor
}

// New builds a Parser over a decoded token stream.
func New(toks []token.Token, version token.Version) *Parser {
	return &Parser{cur: ast.NewCursor(toks, version)}
}

// ParseProgram parses every line up to end of input into a Program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{Version: p.cur.Version}
	for !p.cur.AtEnd() {
		if p.atLineBreak() {
			p.cur.Next()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if !p.cur.AtEnd() {
			if !p.atLineBreak() {
				tok, _ := p.cur.Peek()
				return nil, diag.NewTokenReport(diag.KindUnexpectedToken, p.cur.Pos(),
					"expected end of line after statement").WithLabel(p.cur.Pos(), p.cur.Pos()+1, tok.String())
			}
			p.cur.Next()
		}
	}
	return prog, nil
}

func (p *Parser) atLineBreak() bool {
	tok, ok := p.cur.Peek()
	return ok && (tok.Equal(token.One(token.ByteColon)) || tok.IsNewline())
}

func (p *Parser) errUnexpectedEnd(context string) error {
	return diag.NewTokenReport(diag.KindUnexpectedEndOfInput, p.cur.Pos(), "unexpected end of input "+context)
}

func (p *Parser) errUnexpectedToken(tok token.Token, context string) error {
	return diag.NewTokenReport(diag.KindUnexpectedToken, p.cur.Pos(), "unexpected token "+tok.String()+" "+context)
}
