package reconstruct

import (
	"tibasicopt/internal/ast"
	"tibasicopt/internal/token"
)

// genericCommandTokens is the reverse of parser/stmt.go's genericCommands
// table: accessible name back to the opcode that introduces it. Kept as
// its own small closed-set table rather than a sheet lookup, mirroring how
// the parser recognizes this same set by opcode identity rather than
// through the token sheet.
var genericCommandTokens = map[string]token.Token{
	"ClrHome": token.One(token.ByteClrHome),
	"Disp":    token.One(token.ByteDisp),
	"Prompt":  token.One(token.BytePrompt),
	"Pause":   token.One(token.BytePause),
	"Input":   token.One(token.ByteInput),
	"Output":  token.One(token.ByteOutput),
}

func (r *Reconstructor) VisitGenericCommand(c *ast.GenericCommand) interface{} {
	tok, ok := genericCommandTokens[c.Name]
	if !ok {
		panic("reconstruct: unknown generic command " + c.Name)
	}
	out := []token.Token{tok}
	for i, arg := range c.Args {
		if i > 0 {
			out = append(out, token.One(token.ByteComma))
		}
		out = append(out, r.expr(arg)...)
	}
	if c.HasOpenParen && len(c.Args) > 0 {
		out = append(out, token.One(token.ByteCloseParen))
	}
	return out
}

func (r *Reconstructor) VisitIf(s *ast.IfStmt) interface{} {
	return append([]token.Token{token.One(token.ByteIf)}, r.expr(s.Cond)...)
}

func (r *Reconstructor) VisitThen(*ast.ThenStmt) interface{} {
	return []token.Token{token.One(token.ByteThen)}
}

func (r *Reconstructor) VisitElse(*ast.ElseStmt) interface{} {
	return []token.Token{token.One(token.ByteElse)}
}

func (r *Reconstructor) VisitWhile(s *ast.WhileStmt) interface{} {
	return append([]token.Token{token.One(token.ByteWhile)}, r.expr(s.Cond)...)
}

func (r *Reconstructor) VisitRepeat(s *ast.RepeatStmt) interface{} {
	return append([]token.Token{token.One(token.ByteRepeat)}, r.expr(s.Cond)...)
}

// VisitFor renders For(Iterator,Start,End[,Step]), with the trailing
// closing paren present only when ForStmt.ClosingParen records that the
// optimization pass (or the original source) kept it.
func (r *Reconstructor) VisitFor(s *ast.ForStmt) interface{} {
	out := []token.Token{token.One(token.ByteFor), numericVarToken(s.Iterator.Raw), token.One(token.ByteComma)}
	out = append(out, r.expr(s.Start)...)
	out = append(out, token.One(token.ByteComma))
	out = append(out, r.expr(s.End)...)
	if s.Step != nil {
		out = append(out, token.One(token.ByteComma))
		out = append(out, r.expr(s.Step)...)
	}
	if s.ClosingParen {
		out = append(out, token.One(token.ByteCloseParen))
	}
	return out
}

func (r *Reconstructor) VisitEnd(*ast.EndStmt) interface{} {
	return []token.Token{token.One(token.ByteEnd)}
}

func (r *Reconstructor) VisitReturn(*ast.ReturnStmt) interface{} {
	return []token.Token{token.One(token.ByteReturn)}
}

func (r *Reconstructor) VisitLbl(s *ast.LblStmt) interface{} {
	return append([]token.Token{token.One(token.ByteLbl)}, labelTokens(s.Label)...)
}

func (r *Reconstructor) VisitGoto(s *ast.GotoStmt) interface{} {
	return append([]token.Token{token.One(token.ByteGoto)}, labelTokens(s.Label)...)
}

func labelTokens(l ast.LabelName) []token.Token {
	out := make([]token.Token, 0, 2)
	for _, b := range l.Bytes() {
		out = append(out, token.One(b))
	}
	return out
}

func (r *Reconstructor) VisitStop(*ast.StopStmt) interface{} {
	return []token.Token{token.One(token.ByteStop)}
}

func (r *Reconstructor) VisitIsGt(s *ast.IsGtStmt) interface{} {
	out := []token.Token{token.One(token.ByteIsGt), numericVarToken(s.Var.Raw), token.One(token.ByteComma)}
	return append(out, r.expr(s.Cond)...)
}

func (r *Reconstructor) VisitDsLt(s *ast.DsLtStmt) interface{} {
	out := []token.Token{token.One(token.ByteDsLt), numericVarToken(s.Var.Raw), token.One(token.ByteComma)}
	return append(out, r.expr(s.Cond)...)
}

func (r *Reconstructor) VisitMenu(s *ast.MenuStmt) interface{} {
	out := []token.Token{token.One(token.ByteMenu)}
	out = append(out, r.expr(s.Title)...)
	for _, opt := range s.Options {
		out = append(out, token.One(token.ByteComma))
		out = append(out, r.expr(opt.Title)...)
		out = append(out, token.One(token.ByteComma))
		out = append(out, labelTokens(opt.Label)...)
	}
	return out
}

func (r *Reconstructor) VisitDelVarChain(s *ast.DelVarChain) interface{} {
	delVar := token.Two(token.PrefixDelVarEtAl, token.ByteDelVar)
	var out []token.Token
	for _, d := range s.Deletions {
		out = append(out, delVar)
		out = append(out, r.expr(&ast.NameExpr{Name: d.Target})...)
	}
	if s.Valence != nil {
		out = append(out, r.Statement(s.Valence)...)
	}
	return out
}

func (r *Reconstructor) VisitStore(s *ast.Store) interface{} {
	out := r.expr(s.Value)
	out = append(out, token.One(token.ByteStoreArrow))
	return append(out, r.expr(s.Target)...)
}

func (r *Reconstructor) VisitExprStmt(s *ast.ExprStmt) interface{} {
	return r.expr(s.Value)
}

func (r *Reconstructor) VisitProgramInvocation(s *ast.ProgramInvocation) interface{} {
	out := []token.Token{token.Two(token.PrefixDelVarEtAl, token.ByteProgramMark)}
	for i := 0; i < len(s.Name); i++ {
		out = append(out, alnumCharToken(s.Name[i]))
	}
	return out
}

// alnumCharToken maps a single ASCII letter or digit to its one-byte
// opcode, the general case numericVarToken's letter-or-theta spelling
// doesn't cover: a program name may mix letters and digits after its
// first character.
func alnumCharToken(c byte) token.Token {
	if c >= '0' && c <= '9' {
		return token.One(token.ByteDigitZero + (c - '0'))
	}
	return token.One(token.ByteLetterA + (c - 'A'))
}

// VisitSetUpEditor renders SetUpEditor with no arguments (empty Lists) or a
// comma-separated list-name list.
func (r *Reconstructor) VisitSetUpEditor(s *ast.SetUpEditorStmt) interface{} {
	out := []token.Token{token.Two(token.PrefixDelVarEtAl, token.ByteSetUpEditor)}
	for i, name := range s.Lists {
		if i > 0 {
			out = append(out, token.One(token.ByteComma))
		}
		out = append(out, r.listNameTokens(name.Raw)...)
	}
	return out
}

// VisitNone renders nothing: Program filters NoneStmt out of its line
// loop entirely, but a NoneStmt can still appear nested (e.g. as an
// unreachable DelVarChain valence) where this no-op keeps Accept total.
func (r *Reconstructor) VisitNone(*ast.NoneStmt) interface{} {
	return []token.Token(nil)
}

// VisitFictional unwraps and renders the statement it wraps; the wrapper
// itself only matters to passes that must avoid touching Ans, not to
// reconstruction.
func (r *Reconstructor) VisitFictional(s *ast.Fictional) interface{} {
	return r.Statement(s.Inner)
}
