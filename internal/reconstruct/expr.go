package reconstruct

import (
	"tibasicopt/internal/ast"
	"tibasicopt/internal/strategy"
	"tibasicopt/internal/token"
)

// VisitBinary renders left, the operator, then right, parenthesizing a
// child whose binary precedence is strictly less than this operator's on
// the left, or less-than-or-equal on the right, except when the child
// carries the identical operator and that operator is associative, which
// needs no parentheses to round-trip (spec.md §4.8). The rule applies
// literally even to the right-associative ^/xroot band: a right child
// that repeats the same right-associative operator still gets wrapped,
// since Associative() only covers the commutative bands, giving a
// parenthesized-but-correct rendering of a right-associative chain rather
// than the minimal one. The parser builds exactly that shape, since the
// shunting yard nests right-associative chains to the right, so a^b^c
// re-emits as a^(b^c).
func (r *Reconstructor) VisitBinary(b *ast.Binary) interface{} {
	leftPrec, leftIsBinary := childBinary(b.Left)
	leftParen := leftIsBinary && leftPrec < b.Op.Precedence()

	rightPrec, rightIsBinary := childBinary(b.Right)
	rightParen := rightIsBinary && rightPrec <= b.Op.Precedence()
	if rightIsBinary && b.Right.(*ast.Binary).Op == b.Op && b.Op.Associative() {
		rightParen = false
	}

	out := r.parenthesizeIf(b.Left, leftParen)
	if b.Op != ast.BinMul || implicitMulHazard(b.Left, b.Right) {
		out = append(out, r.binaryOpToken(b.Op))
	}
	out = append(out, r.parenthesizeIf(b.Right, rightParen)...)
	return out
}

// implicitMulHazard reports whether a multiplication needs its explicit *
// token rather than adjacency: when the left factor is Ans, a list, or a
// matrix, or when both factors are numeric literals (spec.md §4.8).
func implicitMulHazard(left, right ast.Expr) bool {
	switch v := left.(type) {
	case *ast.AnsExpr, *ast.ListLiteral:
		return true
	case *ast.NameExpr:
		if v.Name.Kind == ast.NameList || v.Name.Kind == ast.NameMatrix {
			return true
		}
	}
	_, leftNum := left.(*ast.NumberLiteral)
	_, rightNum := right.(*ast.NumberLiteral)
	return leftNum && rightNum
}

func childBinary(e ast.Expr) (int, bool) {
	b, ok := e.(*ast.Binary)
	if !ok {
		return 0, false
	}
	return b.Op.Precedence(), true
}

func (r *Reconstructor) parenthesizeIf(e ast.Expr, wrap bool) []token.Token {
	inner := r.expr(e)
	if !wrap {
		return inner
	}
	out := []token.Token{token.One(token.ByteOpenParen)}
	out = append(out, inner...)
	out = append(out, token.One(token.ByteCloseParen))
	return out
}

func (r *Reconstructor) binaryOpToken(op ast.BinOpKind) token.Token {
	switch op {
	case ast.BinOr:
		return token.One(token.ByteOr)
	case ast.BinXor:
		return token.One(token.ByteXor)
	case ast.BinAnd:
		return token.One(token.ByteAnd)
	case ast.BinEq:
		return token.One(token.ByteEq)
	case ast.BinLt:
		return token.One(token.ByteLt)
	case ast.BinGt:
		return token.One(token.ByteGt)
	case ast.BinNe:
		return token.One(token.ByteNe)
	case ast.BinLe:
		return token.One(token.ByteLe)
	case ast.BinGe:
		return token.One(token.ByteGe)
	case ast.BinAdd:
		return token.One(token.ByteAdd)
	case ast.BinSub:
		return token.One(token.ByteSub)
	case ast.BinMul:
		return token.One(token.ByteMul)
	case ast.BinDiv:
		return token.One(token.ByteDiv)
	case ast.BinNPr:
		return token.One(token.ByteNPr)
	case ast.BinNCr:
		return token.One(token.ByteNCr)
	case ast.BinPow:
		return token.One(token.BytePower)
	case ast.BinXRoot:
		return token.One(token.ByteXRoot)
	default:
		panic("reconstruct: unknown binary operator")
	}
}

// VisitUnary renders a prefix negation or a postfix operator. Negation
// parenthesizes a non-multiplicative binary child (any binary other than
// * or /) and leaves everything else, including a multiplicative binary,
// inline; a postfix operator parenthesizes any binary or negated child
// (spec.md §4.8).
func (r *Reconstructor) VisitUnary(u *ast.Unary) interface{} {
	if u.Op == ast.UnNegate {
		childBin, isBinary := u.Child.(*ast.Binary)
		wrap := isBinary && !isMultiplicative(childBin.Op)
		out := []token.Token{token.One(token.ByteNegate)}
		return append(out, r.parenthesizeIf(u.Child, wrap)...)
	}

	_, isBinary := u.Child.(*ast.Binary)
	isNegation := false
	if un, ok := u.Child.(*ast.Unary); ok {
		isNegation = un.Op == ast.UnNegate
	}
	out := r.parenthesizeIf(u.Child, isBinary || isNegation)
	return append(out, r.postfixOpTokens(u.Op)...)
}

func isMultiplicative(op ast.BinOpKind) bool {
	return op == ast.BinMul || op == ast.BinDiv
}

func (r *Reconstructor) postfixOpTokens(op ast.UnOpKind) []token.Token {
	switch op {
	case ast.UnSquared:
		return []token.Token{token.One(token.ByteSquared)}
	case ast.UnCubed:
		return []token.Token{token.One(token.ByteCubed)}
	case ast.UnReciprocal:
		return []token.Token{token.One(token.ByteReciprocal)}
	case ast.UnFactorial:
		return []token.Token{token.One(token.ByteFactorial)}
	case ast.UnTranspose:
		return []token.Token{token.One(token.ByteTranspose)}
	case ast.UnDegRad:
		return []token.Token{token.One(token.ByteDegRad)}
	case ast.UnPercent:
		return []token.Token{token.Two(token.PrefixDelVarEtAl, token.ByteDA)}
	default:
		panic("reconstruct: unknown postfix operator")
	}
}

// VisitCall renders a named function call: its opcode, comma-separated
// arguments, and a closing paren. parser/names.go's parseFunctionCall builds
// these for the closed set of functions in functionCallOpcodes; everything
// else that looks like Name(...) resolves as indexing instead (ast.IndexExpr's
// doc comment explains why).
func (r *Reconstructor) VisitCall(c *ast.Call) interface{} {
	out := []token.Token{r.resolve(c.Name)}
	for i, arg := range c.Args {
		if i > 0 {
			out = append(out, token.One(token.ByteComma))
		}
		out = append(out, r.expr(arg)...)
	}
	out = append(out, token.One(token.ByteCloseParen))
	return out
}

func (r *Reconstructor) VisitNumberLiteral(n *ast.NumberLiteral) interface{} {
	return strategy.ReconstructFloat(n.Value, r.cfg.strategyOptions())
}

// VisitStringLiteral re-emits the literal's raw stored bytes verbatim
// between quote tokens, byte for byte: the inverse of parseStringLiteral
// storing tok.Bytes() straight into the literal's Value.
func (r *Reconstructor) VisitStringLiteral(s *ast.StringLiteral) interface{} {
	out := []token.Token{token.One(token.ByteQuote)}
	for i := 0; i < len(s.Value); i++ {
		out = append(out, token.One(s.Value[i]))
	}
	out = append(out, token.One(token.ByteQuote))
	return out
}

func (r *Reconstructor) VisitListLiteral(l *ast.ListLiteral) interface{} {
	out := []token.Token{token.One(token.ByteOpenBrace)}
	for i, e := range l.Elements {
		if i > 0 {
			out = append(out, token.One(token.ByteComma))
		}
		out = append(out, r.expr(e)...)
	}
	out = append(out, token.One(token.ByteCloseBrace))
	return out
}

// VisitNameExpr renders a numeric variable directly from its single-letter
// spelling, a list name via listNameTokens (built-ins are one opcode,
// customs are a marker plus letters), and every other kind via a sheet
// lookup by its accessible spelling, since matrices, strings, pictures,
// images, equations, and window variables are each a single opcode.
func (r *Reconstructor) VisitNameExpr(n *ast.NameExpr) interface{} {
	switch n.Name.Kind {
	case ast.NameNumericVar:
		return []token.Token{numericVarToken(n.Name.Raw)}
	case ast.NameList:
		return r.listNameTokens(n.Name.Raw)
	default:
		return []token.Token{r.resolve(n.Name.Raw)}
	}
}

// listNameTokens renders a list name: a sheet lookup for one of the six
// built-ins (L1-L6), or the custom-list marker followed by each letter for
// any other name (components/list_name.rs's Custom variant), since a
// custom list name has no single opcode of its own.
func (r *Reconstructor) listNameTokens(raw string) []token.Token {
	if tok, ok := r.sheet.ResolveByAccessibleName(raw, r.cfg.Version, r.cfg.Lang); ok {
		return []token.Token{tok}
	}
	out := make([]token.Token, 0, len(raw)+1)
	out = append(out, token.One(token.ByteCustomListMark))
	for i := 0; i < len(raw); i++ {
		out = append(out, token.One(raw[i]))
	}
	return out
}

func numericVarToken(raw string) token.Token {
	if raw == "theta" {
		return token.One(token.ByteTheta)
	}
	return token.One(token.ByteLetterA + (raw[0] - 'A'))
}

func (r *Reconstructor) VisitAns(*ast.AnsExpr) interface{} {
	return []token.Token{token.One(token.ByteAns)}
}

func (r *Reconstructor) VisitPi(*ast.PiExpr) interface{} {
	return []token.Token{token.TokenPi}
}

func (r *Reconstructor) VisitE(*ast.EExpr) interface{} {
	return []token.Token{token.TokenE}
}

// VisitGetKey, VisitGetDate, VisitStartTmr, and VisitTblInput round out
// ast.ExprVisitor; parser/names.go's pseudoVariableExpr builds each of these
// by opcode identity, so the sheet lookup here only needs their accessible
// spelling, not the opcode match itself.
func (r *Reconstructor) VisitGetKey(*ast.GetKeyExpr) interface{} {
	return r.resolveOrPanic("getKey")
}

func (r *Reconstructor) VisitGetDate(*ast.GetDateExpr) interface{} {
	return r.resolveOrPanic("getDate")
}

func (r *Reconstructor) VisitStartTmr(*ast.StartTmrExpr) interface{} {
	return r.resolveOrPanic("startTmr")
}

func (r *Reconstructor) VisitTblInput(*ast.TblInputExpr) interface{} {
	return r.resolveOrPanic("TblInput")
}

func (r *Reconstructor) resolveOrPanic(name string) []token.Token {
	return []token.Token{r.resolve(name)}
}

// VisitIndex renders Target(Indices...). Indexing and a function call
// share this exact shape; ast.IndexExpr is simply the name the parser
// gives the ambiguity once it has resolved in indexing's favor.
func (r *Reconstructor) VisitIndex(idx *ast.IndexExpr) interface{} {
	out := r.expr(idx.Target)
	out = append(out, token.One(token.ByteOpenParen))
	for i, e := range idx.Indices {
		if i > 0 {
			out = append(out, token.One(token.ByteComma))
		}
		out = append(out, r.expr(e)...)
	}
	out = append(out, token.One(token.ByteCloseParen))
	return out
}
