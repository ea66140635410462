package parser

import (
	"tibasicopt/internal/ast"
	"tibasicopt/internal/diag"
	"tibasicopt/internal/token"
)

// parseStatement dispatches on the opcode at the cursor in the same order
// the original dispatcher tries its statement forms: generic commands
// first (a closed set recognized by opcode identity), then control flow,
// then a DelVar chain, then a program invocation, then SetUpEditor, and
// finally an expression, which may turn out to be a store.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	tok, ok := p.cur.Peek()
	if !ok {
		return nil, p.errUnexpectedEnd("parsing statement")
	}

	if stmt, matched, err := p.parseGenericCommand(tok); matched || err != nil {
		return stmt, err
	}
	if stmt, matched, err := p.parseControlFlow(tok); matched || err != nil {
		return stmt, err
	}
	if stmt, matched, err := p.parseDelVarChain(tok); matched || err != nil {
		return stmt, err
	}
	if stmt, matched, err := p.parseProgramInvocation(tok); matched || err != nil {
		return stmt, err
	}
	if stmt, matched, err := p.parseSetUpEditor(tok); matched || err != nil {
		return stmt, err
	}
	return p.parseExprOrStore()
}

// genericCommandInfo describes one of the closed set of non-control-flow
// commands this module recognizes: its accessible name, whether it takes
// comma-separated expression arguments at all, and whether it opens with
// a parenthesis that may be closed at the end of its argument list.
type genericCommandInfo struct {
	name         string
	acceptsArgs  bool
	hasOpenParen bool
}

var genericCommands = map[byte]genericCommandInfo{
	token.ByteClrHome: {"ClrHome", false, false},
	token.ByteDisp:    {"Disp", true, false},
	token.BytePrompt:  {"Prompt", true, false},
	token.BytePause:   {"Pause", true, false},
	token.ByteInput:   {"Input", true, false},
	token.ByteOutput:  {"Output", true, true},
}

func (p *Parser) parseGenericCommand(tok token.Token) (ast.Stmt, bool, error) {
	if tok.IsWide() {
		return nil, false, nil
	}
	info, ok := genericCommands[tok.Byte()]
	if !ok {
		return nil, false, nil
	}
	p.cur.Next()
	cmd := &ast.GenericCommand{Name: info.name, HasOpenParen: info.hasOpenParen}
	if !info.acceptsArgs || p.atLineBreak() || p.cur.AtEnd() {
		return cmd, true, nil
	}

	for {
		arg, err := p.ParseExpression()
		if err != nil {
			return nil, true, err
		}
		cmd.Args = append(cmd.Args, arg)

		next, ok := p.cur.Peek()
		switch {
		case ok && next.Equal(token.One(token.ByteComma)):
			p.cur.Next()
			continue
		case ok && info.hasOpenParen && next.Equal(token.One(token.ByteCloseParen)):
			p.cur.Next()
		}
		break
	}
	return cmd, true, nil
}

func (p *Parser) parseControlFlow(tok token.Token) (ast.Stmt, bool, error) {
	if tok.IsWide() {
		return nil, false, nil
	}
	switch tok.Byte() {
	case token.ByteIf:
		p.cur.Next()
		cond, err := p.ParseExpression()
		if err != nil {
			return nil, true, err
		}
		return &ast.IfStmt{Cond: cond}, true, nil
	case token.ByteThen:
		p.cur.Next()
		return &ast.ThenStmt{}, true, nil
	case token.ByteElse:
		p.cur.Next()
		return &ast.ElseStmt{}, true, nil
	case token.ByteWhile:
		p.cur.Next()
		cond, err := p.ParseExpression()
		if err != nil {
			return nil, true, err
		}
		return &ast.WhileStmt{Cond: cond}, true, nil
	case token.ByteRepeat:
		p.cur.Next()
		cond, err := p.ParseExpression()
		if err != nil {
			return nil, true, err
		}
		return &ast.RepeatStmt{Cond: cond}, true, nil
	case token.ByteFor:
		stmt, err := p.parseForLoop()
		return stmt, true, err
	case token.ByteEnd:
		p.cur.Next()
		return &ast.EndStmt{}, true, nil
	case token.ByteReturn:
		p.cur.Next()
		return &ast.ReturnStmt{}, true, nil
	case token.ByteLbl:
		p.cur.Next()
		label, err := p.parseLabel("Lbl")
		if err != nil {
			return nil, true, err
		}
		return &ast.LblStmt{Label: label}, true, nil
	case token.ByteGoto:
		p.cur.Next()
		label, err := p.parseLabel("Goto")
		if err != nil {
			return nil, true, err
		}
		return &ast.GotoStmt{Label: label}, true, nil
	case token.ByteStop:
		p.cur.Next()
		return &ast.StopStmt{}, true, nil
	case token.ByteIsGt:
		stmt, err := p.parseIsDs(true)
		return stmt, true, err
	case token.ByteDsLt:
		stmt, err := p.parseIsDs(false)
		return stmt, true, err
	case token.ByteMenu:
		stmt, err := p.parseMenu()
		return stmt, true, err
	default:
		return nil, false, nil
	}
}

// parseLabel reads the one or two alphanumeric opcode bytes following Lbl
// or Goto. context names the command for the error message.
func (p *Parser) parseLabel(context string) (ast.LabelName, error) {
	tok, ok := p.cur.Peek()
	if !ok || !tok.IsAlphanumeric() {
		return 0, diag.NewTokenReport(diag.KindBadName, p.cur.Pos(), context+" must be followed by one or two letters or digits")
	}
	p.cur.Next()
	first := tok.Byte()
	var second byte
	if next, ok := p.cur.Peek(); ok && next.IsAlphanumeric() {
		p.cur.Next()
		second = next.Byte()
	}
	return ast.PackLabelName(first, second), nil
}

// parseForLoop parses For(Iterator,Start,End[,Step][)].
func (p *Parser) parseForLoop() (ast.Stmt, error) {
	p.cur.Next() // For(

	iterTok, ok := p.cur.Peek()
	if !ok || !iterTok.IsAlpha() {
		return nil, diag.NewTokenReport(diag.KindUnexpectedToken, p.cur.Pos(), "For( iterator must be a numeric variable")
	}
	p.cur.Next()
	iterator, err := ast.NewNumericVarName(nameLetterFromToken(iterTok))
	if err != nil {
		return nil, err
	}

	if err := p.expectComma("For loops have at least 3 arguments"); err != nil {
		return nil, err
	}
	start, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectComma("For loops have at least 3 arguments"); err != nil {
		return nil, err
	}
	end, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	forStmt := &ast.ForStmt{Iterator: iterator, Start: start, End: end}

	if next, ok := p.cur.Peek(); ok && next.Equal(token.One(token.ByteComma)) {
		p.cur.Next()
		step, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		forStmt.Step = step
	}

	if next, ok := p.cur.Peek(); ok && next.Equal(token.One(token.ByteCloseParen)) {
		p.cur.Next()
		forStmt.ClosingParen = true
	}

	return forStmt, nil
}

func (p *Parser) expectComma(hint string) error {
	tok, ok := p.cur.Peek()
	if !ok || !tok.Equal(token.One(token.ByteComma)) {
		return diag.NewTokenReport(diag.KindUnexpectedToken, p.cur.Pos(), "expected a comma: "+hint)
	}
	p.cur.Next()
	return nil
}

// parseIsDs parses Is>(Var,Cond or Ds<(Var,Cond; isGt selects the node.
func (p *Parser) parseIsDs(isGt bool) (ast.Stmt, error) {
	p.cur.Next() // Is>( or Ds<(

	varTok, ok := p.cur.Peek()
	if !ok || !varTok.IsAlpha() {
		return nil, diag.NewTokenReport(diag.KindUnexpectedToken, p.cur.Pos(), "expected a numeric variable")
	}
	p.cur.Next()
	v, err := ast.NewNumericVarName(nameLetterFromToken(varTok))
	if err != nil {
		return nil, err
	}
	if err := p.expectComma("Is>( and Ds<( take a variable and a condition"); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if isGt {
		return &ast.IsGtStmt{Var: v, Cond: cond}, nil
	}
	return &ast.DsLtStmt{Var: v, Cond: cond}, nil
}

// parseMenu parses Menu(Title,OptTitle1,Label1[,OptTitle2,Label2...][)].
func (p *Parser) parseMenu() (ast.Stmt, error) {
	p.cur.Next() // Menu(

	title, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectComma("Menus must have at least one option"); err != nil {
		return nil, err
	}

	menu := &ast.MenuStmt{Title: title}
	for {
		optTitle, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectComma("each Menu( option needs a label"); err != nil {
			return nil, err
		}
		label, err := p.parseLabel("Menu( option")
		if err != nil {
			return nil, err
		}
		menu.Options = append(menu.Options, ast.MenuOption{Title: optTitle, Label: label})

		next, ok := p.cur.Peek()
		switch {
		case ok && next.Equal(token.One(token.ByteComma)):
			p.cur.Next()
			continue
		case ok && next.Equal(token.One(token.ByteCloseParen)):
			p.cur.Next()
		}
		break
	}
	return menu, nil
}

// parseDelVarChain parses one or more back-to-back DelVar deletions,
// optionally trailed by another statement with no separator.
func (p *Parser) parseDelVarChain(tok token.Token) (ast.Stmt, bool, error) {
	delVar := token.Two(token.PrefixDelVarEtAl, token.ByteDelVar)
	if !tok.Equal(delVar) {
		return nil, false, nil
	}

	chain := &ast.DelVarChain{}
	for {
		p.cur.Next() // DelVar
		target, err := p.parseDelVarTarget()
		if err != nil {
			return nil, true, err
		}
		chain.Deletions = append(chain.Deletions, ast.DelVarTarget{Target: target})

		next, ok := p.cur.Peek()
		if !ok || !next.Equal(delVar) {
			break
		}
	}

	if !p.atLineBreak() && !p.cur.AtEnd() {
		valence, err := p.parseStatement()
		if err != nil {
			return nil, true, err
		}
		chain.Valence = valence
	}
	return chain, true, nil
}

// parseDelVarTarget recognizes a DelVar target: a numeric variable, a
// built-in or custom list, a matrix, a string, a picture, an image, or an
// equation (components/delvar_target.rs's closed union). Unlike store
// targets and other operand positions, a DelVar target is never indexed.
func (p *Parser) parseDelVarTarget() (ast.Name, error) {
	tok, ok := p.cur.Peek()
	if !ok {
		return ast.Name{}, p.errUnexpectedEnd("parsing a DelVar target")
	}
	if tok.IsAlpha() {
		p.cur.Next()
		return ast.NewNumericVarName(nameLetterFromToken(tok))
	}
	if isCustomListStart(p, tok) {
		return p.parseCustomListName()
	}
	if slot, ok := nonNumericNameSlot(tok); ok {
		p.cur.Next()
		return newName(slot)
	}
	return ast.Name{}, diag.NewTokenReport(diag.KindUnsupportedConstruct, p.cur.Pos(), "unsupported DelVar target")
}

// parseProgramInvocation parses prgm<name>, a bare call to another
// program by name (1-8 alphanumeric characters starting with a letter).
func (p *Parser) parseProgramInvocation(tok token.Token) (ast.Stmt, bool, error) {
	mark := token.Two(token.PrefixDelVarEtAl, token.ByteProgramMark)
	if !tok.Equal(mark) {
		return nil, false, nil
	}
	p.cur.Next()

	var name []byte
	for {
		next, ok := p.cur.Peek()
		if !ok || next.IsWide() || !next.IsAlphanumeric() {
			break
		}
		if len(name) == 0 && !next.IsAlpha() {
			break
		}
		if len(name) >= 8 {
			return nil, true, diag.NewTokenReport(diag.KindBadName, p.cur.Pos(), "program name has too many characters (max 8)")
		}
		name = append(name, next.Byte())
		p.cur.Next()
	}
	if len(name) == 0 {
		return nil, true, diag.NewTokenReport(diag.KindBadName, p.cur.Pos(), "expected a program name")
	}
	return &ast.ProgramInvocation{Name: string(name)}, true, nil
}

// parseSetUpEditor parses SetUpEditor with no arguments (the default six
// lists) or a comma-separated list of list names (statements/setupeditor.rs).
func (p *Parser) parseSetUpEditor(tok token.Token) (ast.Stmt, bool, error) {
	mark := token.Two(token.PrefixDelVarEtAl, token.ByteSetUpEditor)
	if !tok.Equal(mark) {
		return nil, false, nil
	}
	p.cur.Next()

	stmt := &ast.SetUpEditorStmt{}
	if p.atLineBreak() || p.cur.AtEnd() {
		return stmt, true, nil
	}

	for {
		name, err := p.parseSetUpEditorListName()
		if err != nil {
			return nil, true, err
		}
		stmt.Lists = append(stmt.Lists, name)

		next, ok := p.cur.Peek()
		if !ok || !next.Equal(token.One(token.ByteComma)) {
			break
		}
		p.cur.Next()
	}
	return stmt, true, nil
}

// parseSetUpEditorListName recognizes a single list name argument to
// SetUpEditor: built-in or custom, the same two spellings parseDelVarTarget
// accepts for ast.NameList.
func (p *Parser) parseSetUpEditorListName() (ast.Name, error) {
	tok, ok := p.cur.Peek()
	if !ok {
		return ast.Name{}, p.errUnexpectedEnd("parsing a SetUpEditor list name")
	}
	if isCustomListStart(p, tok) {
		return p.parseCustomListName()
	}
	if slot, ok := nonNumericNameSlot(tok); ok && slot.kind == ast.NameList {
		p.cur.Next()
		return newName(slot)
	}
	return ast.Name{}, diag.NewTokenReport(diag.KindUnsupportedConstruct, p.cur.Pos(), "expected a list name")
}

// parseExprOrStore parses a bare expression statement, promoting it to a
// Store if it is immediately followed by the store arrow.
func (p *Parser) parseExprOrStore() (ast.Stmt, error) {
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	next, ok := p.cur.Peek()
	if !ok || !next.Equal(token.One(token.ByteStoreArrow)) {
		return &ast.ExprStmt{Value: value}, nil
	}
	p.cur.Next()

	target, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	switch target.(type) {
	case *ast.NameExpr, *ast.IndexExpr:
	default:
		return nil, diag.NewTokenReport(diag.KindUnexpectedToken, p.cur.Pos(), "store target must be a name or indexed name")
	}
	return &ast.Store{Value: value, Target: target}, nil
}
