package parser

import (
	"strings"

	"tibasicopt/internal/ast"
	"tibasicopt/internal/diag"
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/token"
)

// stackEntryKind tags what an operator-stack slot holds.
type stackEntryKind int

const (
	entryParen stackEntryKind = iota
	entryBinary
	entryUnaryPrefix
)

type stackEntry struct {
	kind stackEntryKind
	bin  ast.BinOpKind
}

// ParseExpression runs the shunting-yard algorithm spec.md §4.3
// describes: two stacks (operands, operators), implicit-multiplication
// injection on adjacent operands, and paren-depth tracking. It stops (without
// consuming) at the first non-expression opcode or a ")" at depth zero.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	var operands []ast.Expr
	var operators []stackEntry
	parenDepth := 0
	pendingImplicitMul := false

	reduceTop := func() error {
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		switch top.kind {
		case entryUnaryPrefix:
			if len(operands) < 1 {
				return diag.NewTokenReport(diag.KindMissingOperand, p.cur.Pos(), "negation missing operand")
			}
			child := operands[len(operands)-1]
			operands[len(operands)-1] = &ast.Unary{Op: ast.UnNegate, Child: child}
		case entryBinary:
			if len(operands) < 2 {
				return diag.NewTokenReport(diag.KindMissingOperand, p.cur.Pos(), "binary operator missing operand")
			}
			right := operands[len(operands)-1]
			left := operands[len(operands)-2]
			operands = operands[:len(operands)-2]
			operands = append(operands, &ast.Binary{Op: top.bin, Left: left, Right: right})
		}
		return nil
	}

	pushBinary := func(op ast.BinOpKind) error {
		prec := op.Precedence()
		for len(operators) > 0 {
			top := operators[len(operators)-1]
			if top.kind == entryParen {
				break
			}
			reduce := top.kind == entryUnaryPrefix
			if top.kind == entryBinary {
				topPrec := top.bin.Precedence()
				if op.RightAssociative() {
					reduce = topPrec > prec
				} else {
					reduce = topPrec >= prec
				}
			}
			if !reduce {
				break
			}
			if err := reduceTop(); err != nil {
				return err
			}
		}
		operators = append(operators, stackEntry{kind: entryBinary, bin: op})
		return nil
	}

	foldPendingUnary := func() {
		for len(operators) > 0 && operators[len(operators)-1].kind == entryUnaryPrefix {
			// reduceTop never errors when an operand was just pushed.
			_ = reduceTop()
		}
	}

	applyPostfix := func() {
		for {
			tok, ok := p.cur.Peek()
			if !ok {
				return
			}
			opk, isPostfix := postfixOpFromToken(tok)
			if !isPostfix {
				return
			}
			p.cur.Next()
			top := operands[len(operands)-1]
			operands[len(operands)-1] = &ast.Unary{Op: opk, Child: top}
		}
	}

	for {
		tok, ok := p.cur.Peek()
		if !ok {
			break
		}

		switch {
		case tok.Equal(token.One(token.ByteNegate)):
			p.cur.Next()
			operators = append(operators, stackEntry{kind: entryUnaryPrefix})
			pendingImplicitMul = false

		case tok.Equal(token.One(token.ByteCloseParen)):
			if parenDepth == 0 {
				return finalize(p, operands, operators)
			}
			p.cur.Next()
			for len(operators) > 0 && operators[len(operators)-1].kind != entryParen {
				if err := reduceTop(); err != nil {
					return nil, err
				}
			}
			if len(operators) == 0 {
				return nil, p.errUnexpectedToken(tok, "unmatched )")
			}
			operators = operators[:len(operators)-1] // pop the paren sentinel
			parenDepth--
			pendingImplicitMul = true

		case tok.Equal(token.One(token.ByteOpenParen)):
			if pendingImplicitMul {
				if err := pushBinary(ast.BinMul); err != nil {
					return nil, err
				}
			}
			p.cur.Next()
			operators = append(operators, stackEntry{kind: entryParen})
			parenDepth++
			pendingImplicitMul = false

		case isBinaryOpToken(tok):
			op, _ := binOpFromToken(tok)
			p.cur.Next()
			if err := pushBinary(op); err != nil {
				return nil, err
			}
			pendingImplicitMul = false

		case isOperandStart(tok):
			if pendingImplicitMul {
				if err := pushBinary(ast.BinMul); err != nil {
					return nil, err
				}
			}
			operand, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			operands = append(operands, operand)
			foldPendingUnary()
			applyPostfix()
			pendingImplicitMul = true

		default:
			return finalize(p, operands, operators)
		}
	}

	return finalize(p, operands, operators)
}

func finalize(p *Parser, operands []ast.Expr, operators []stackEntry) (ast.Expr, error) {
	for len(operators) > 0 {
		top := operators[len(operators)-1]
		if top.kind == entryParen {
			return nil, diag.NewTokenReport(diag.KindUnexpectedEndOfInput, p.cur.Pos(), "unmatched (")
		}
		operators = operators[:len(operators)-1]
		switch top.kind {
		case entryUnaryPrefix:
			if len(operands) < 1 {
				return nil, diag.NewTokenReport(diag.KindMissingOperand, p.cur.Pos(), "negation missing operand")
			}
			child := operands[len(operands)-1]
			operands[len(operands)-1] = &ast.Unary{Op: ast.UnNegate, Child: child}
		case entryBinary:
			if len(operands) < 2 {
				return nil, diag.NewTokenReport(diag.KindMissingOperand, p.cur.Pos(), "binary operator missing operand")
			}
			right := operands[len(operands)-1]
			left := operands[len(operands)-2]
			operands = operands[:len(operands)-2]
			operands = append(operands, &ast.Binary{Op: top.bin, Left: left, Right: right})
		}
	}
	if len(operands) != 1 {
		return nil, diag.NewTokenReport(diag.KindMissingOperand, p.cur.Pos(), "expression did not reduce to a single operand")
	}
	return operands[0], nil
}

// parseOperand parses a single operand at the cursor: number, string, list
// literal, function call, name (of any category), or one of the
// zero-argument pseudo-operands.
func (p *Parser) parseOperand() (ast.Expr, error) {
	tok, ok := p.cur.Peek()
	if !ok {
		return nil, p.errUnexpectedEnd("parsing operand")
	}

	if expr, isPseudo := pseudoVariableExpr(tok); isPseudo {
		p.cur.Next()
		return expr, nil
	}
	if name, isCall := functionCallOpcodes[tok]; isCall {
		return p.parseFunctionCall(tok, name)
	}
	if slot, isName := nonNumericNameSlot(tok); isName {
		p.cur.Next()
		n, err := newName(slot)
		if err != nil {
			return nil, err
		}
		return p.maybeIndex(&ast.NameExpr{Name: n})
	}

	switch {
	case tok.IsNumeric() || tok.Equal(token.One(token.ByteDecimalPoint)):
		return p.parseNumberLiteral()
	case tok.Equal(token.One(token.ByteQuote)):
		return p.parseStringLiteral()
	case tok.Equal(token.One(token.ByteOpenBrace)):
		return p.parseBraceOperand()
	case tok.Equal(token.One(token.ByteOpenBracket)):
		return nil, diag.NewTokenReport(diag.KindUnsupportedConstruct, p.cur.Pos(), "matrix literals are not supported")
	case tok.Equal(token.One(token.ByteAns)):
		p.cur.Next()
		return p.maybeIndex(&ast.AnsExpr{})
	case tok.Equal(token.TokenPi):
		p.cur.Next()
		return &ast.PiExpr{}, nil
	case tok.Equal(token.TokenE):
		p.cur.Next()
		return &ast.EExpr{}, nil
	case tok.IsAlpha():
		p.cur.Next()
		name, err := ast.NewNumericVarName(nameLetterFromToken(tok))
		if err != nil {
			return nil, err
		}
		return &ast.NameExpr{Name: name}, nil
	default:
		return nil, p.errUnexpectedToken(tok, "expected an operand")
	}
}

// parseBraceOperand disambiguates the shared "{" opcode: immediately
// followed by a letter it opens a custom list name
// (components/list_name.rs's Custom variant), otherwise it opens a list
// literal.
func (p *Parser) parseBraceOperand() (ast.Expr, error) {
	if tok, _ := p.cur.Peek(); !isCustomListStart(p, tok) {
		return p.parseListLiteral()
	}
	name, err := p.parseCustomListName()
	if err != nil {
		return nil, err
	}
	return p.maybeIndex(&ast.NameExpr{Name: name})
}

func (p *Parser) maybeIndex(target ast.Expr) (ast.Expr, error) {
	tok, ok := p.cur.Peek()
	if !ok || !tok.Equal(token.One(token.ByteOpenParen)) {
		return target, nil
	}
	p.cur.Next()
	var indices []ast.Expr
	for {
		idx, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
		tok, ok = p.cur.Peek()
		if ok && tok.Equal(token.One(token.ByteComma)) {
			p.cur.Next()
			continue
		}
		break
	}
	if ok && tok.Equal(token.One(token.ByteCloseParen)) {
		p.cur.Next()
	}
	return &ast.IndexExpr{Target: target, Indices: indices}, nil
}

func (p *Parser) parseNumberLiteral() (ast.Expr, error) {
	var sb strings.Builder
	for {
		tok, ok := p.cur.Peek()
		if !ok || !tok.IsNumeric() {
			break
		}
		sb.WriteByte('0' + tok.Digit())
		p.cur.Next()
	}
	if tok, ok := p.cur.Peek(); ok && tok.Equal(token.One(token.ByteDecimalPoint)) {
		sb.WriteByte('.')
		p.cur.Next()
		for {
			tok, ok := p.cur.Peek()
			if !ok || !tok.IsNumeric() {
				break
			}
			sb.WriteByte('0' + tok.Digit())
			p.cur.Next()
		}
	}
	if tok, ok := p.cur.Peek(); ok && tok.Equal(token.One(token.ByteExponentMark)) {
		sb.WriteByte('E')
		p.cur.Next()
		if tok, ok := p.cur.Peek(); ok && tok.Equal(token.One(token.ByteNegate)) {
			sb.WriteByte('-')
			p.cur.Next()
		}
		for {
			tok, ok := p.cur.Peek()
			if !ok || !tok.IsNumeric() {
				break
			}
			sb.WriteByte('0' + tok.Digit())
			p.cur.Next()
		}
	}
	f, err := numeric.Parse(sb.String())
	if err != nil {
		return nil, diag.NewTokenReport(diag.KindBadFloat, p.cur.Pos(), err.Error())
	}
	return &ast.NumberLiteral{Value: f}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expr, error) {
	p.cur.Next() // opening quote
	var sb strings.Builder
	for {
		tok, ok := p.cur.Peek()
		if !ok {
			break
		}
		if tok.Equal(token.One(token.ByteQuote)) {
			p.cur.Next()
			break
		}
		if tok.IsNewline() {
			break
		}
		sb.Write(tok.Bytes())
		p.cur.Next()
	}
	return &ast.StringLiteral{Value: sb.String()}, nil
}

func (p *Parser) parseListLiteral() (ast.Expr, error) {
	p.cur.Next() // opening brace
	var elems []ast.Expr
	for {
		tok, ok := p.cur.Peek()
		if ok && tok.Equal(token.One(token.ByteCloseBrace)) {
			p.cur.Next()
			break
		}
		if !ok {
			break
		}
		e, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if tok, ok := p.cur.Peek(); ok && tok.Equal(token.One(token.ByteComma)) {
			p.cur.Next()
			continue
		}
	}
	return &ast.ListLiteral{Elements: elems}, nil
}

// nameLetterFromToken renders a one-byte alpha token (A-Z, theta) as the
// string NewNumericVarName and friends expect.
func nameLetterFromToken(tok token.Token) string {
	if tok.Byte() == token.ByteTheta {
		return "theta"
	}
	return string(rune('A' + int(tok.Byte()-token.ByteLetterA)))
}

func isOperandStart(tok token.Token) bool {
	if _, ok := pseudoVariableExpr(tok); ok {
		return true
	}
	if _, ok := functionCallOpcodes[tok]; ok {
		return true
	}
	if _, ok := nonNumericNameSlot(tok); ok {
		return true
	}
	return tok.IsNumeric() ||
		tok.IsAlpha() ||
		tok.Equal(token.One(token.ByteDecimalPoint)) ||
		tok.Equal(token.One(token.ByteQuote)) ||
		tok.Equal(token.One(token.ByteOpenBrace)) ||
		tok.Equal(token.One(token.ByteOpenBracket)) ||
		tok.Equal(token.One(token.ByteAns)) ||
		tok.Equal(token.TokenPi) ||
		tok.Equal(token.TokenE)
}

func isBinaryOpToken(tok token.Token) bool {
	_, ok := binOpFromToken(tok)
	return ok
}

func binOpFromToken(tok token.Token) (ast.BinOpKind, bool) {
	if tok.IsWide() {
		return 0, false
	}
	switch tok.Byte() {
	case token.ByteOr:
		return ast.BinOr, true
	case token.ByteXor:
		return ast.BinXor, true
	case token.ByteAnd:
		return ast.BinAnd, true
	case token.ByteEq:
		return ast.BinEq, true
	case token.ByteLt:
		return ast.BinLt, true
	case token.ByteGt:
		return ast.BinGt, true
	case token.ByteNe:
		return ast.BinNe, true
	case token.ByteLe:
		return ast.BinLe, true
	case token.ByteGe:
		return ast.BinGe, true
	case token.ByteAdd:
		return ast.BinAdd, true
	case token.ByteSub:
		return ast.BinSub, true
	case token.ByteMul:
		return ast.BinMul, true
	case token.ByteDiv:
		return ast.BinDiv, true
	case token.ByteNPr:
		return ast.BinNPr, true
	case token.ByteNCr:
		return ast.BinNCr, true
	case token.BytePower:
		return ast.BinPow, true
	case token.ByteXRoot:
		return ast.BinXRoot, true
	default:
		return 0, false
	}
}

func postfixOpFromToken(tok token.Token) (ast.UnOpKind, bool) {
	if tok.IsWide() {
		if tok.Equal(token.Two(token.PrefixDelVarEtAl, token.ByteDA)) {
			return ast.UnPercent, true
		}
		return 0, false
	}
	switch tok.Byte() {
	case token.ByteSquared:
		return ast.UnSquared, true
	case token.ByteCubed:
		return ast.UnCubed, true
	case token.ByteReciprocal:
		return ast.UnReciprocal, true
	case token.ByteFactorial:
		return ast.UnFactorial, true
	case token.ByteTranspose:
		return ast.UnTranspose, true
	case token.ByteDegRad:
		return ast.UnDegRad, true
	default:
		return 0, false
	}
}
