package reconstruct

import (
	"testing"

	"tibasicopt/internal/ast"
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/strategy"
	"tibasicopt/internal/token"
	"tibasicopt/internal/tokensheet"
)

func newReconstructor(t *testing.T) *Reconstructor {
	t.Helper()
	return New(tokensheet.MustParseCurated(), Config{Version: token.Latest, Priority: strategy.PriorityNeutral})
}

func mustNum(t *testing.T, text string) *ast.NumberLiteral {
	t.Helper()
	f, err := numeric.Parse(text)
	if err != nil {
		t.Fatalf("numeric.Parse(%q): %v", text, err)
	}
	return &ast.NumberLiteral{Value: f}
}

func mustVar(t *testing.T, letter string) ast.Name {
	t.Helper()
	n, err := ast.NewNumericVarName(letter)
	if err != nil {
		t.Fatalf("NewNumericVarName(%q): %v", letter, err)
	}
	return n
}

func nameExpr(t *testing.T, letter string) *ast.NameExpr {
	return &ast.NameExpr{Name: mustVar(t, letter)}
}

func bytesOf(t *testing.T, toks []token.Token) []byte {
	t.Helper()
	var out []byte
	for _, tok := range toks {
		out = append(out, tok.Bytes()...)
	}
	return out
}

func TestVisitBinaryParenthesizesLowerPrecedenceLeftChild(t *testing.T) {
	r := newReconstructor(t)
	// (A+B)*C: the left child's + binds looser than *, so it needs parens;
	// Mul with two plain name factors is otherwise implicit.
	expr := &ast.Binary{
		Op:    ast.BinMul,
		Left:  &ast.Binary{Op: ast.BinAdd, Left: nameExpr(t, "A"), Right: nameExpr(t, "B")},
		Right: nameExpr(t, "C"),
	}
	got := bytesOf(t, r.expr(expr))
	want := []byte{token.ByteOpenParen, token.ByteLetterA, token.ByteAdd, token.ByteLetterA + 1, token.ByteCloseParen, token.ByteLetterA + 2}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitBinaryOmitsMulForPlainNameFactors(t *testing.T) {
	r := newReconstructor(t)
	expr := &ast.Binary{Op: ast.BinMul, Left: nameExpr(t, "A"), Right: nameExpr(t, "B")}
	got := bytesOf(t, r.expr(expr))
	want := []byte{token.ByteLetterA, token.ByteLetterA + 1}
	if string(got) != string(want) {
		t.Errorf("implicit multiplication should drop the * token: got %v, want %v", got, want)
	}
}

func TestVisitBinaryEmitsExplicitMulForTwoNumberLiterals(t *testing.T) {
	r := newReconstructor(t)
	expr := &ast.Binary{Op: ast.BinMul, Left: mustNum(t, "2"), Right: mustNum(t, "3")}
	toks := r.expr(expr)
	found := false
	for _, tok := range toks {
		if tok.Equal(token.One(token.ByteMul)) {
			found = true
		}
	}
	if !found {
		t.Errorf("two adjacent numeric literals must keep an explicit *, got %v", toks)
	}
}

func TestVisitBinaryEmitsExplicitMulForAnsLeftFactor(t *testing.T) {
	r := newReconstructor(t)
	expr := &ast.Binary{Op: ast.BinMul, Left: &ast.AnsExpr{}, Right: nameExpr(t, "X")}
	toks := r.expr(expr)
	if len(toks) != 3 || !toks[1].Equal(token.One(token.ByteMul)) {
		t.Errorf("Ans as left factor must keep an explicit *, got %v", toks)
	}
}

func TestVisitBinaryAssociativeSameOperatorNeedsNoRightParen(t *testing.T) {
	r := newReconstructor(t)
	// A+(B+C): Add is associative and the right child repeats the same
	// operator, so no parens are needed to round-trip.
	expr := &ast.Binary{
		Op:   ast.BinAdd,
		Left: nameExpr(t, "A"),
		Right: &ast.Binary{Op: ast.BinAdd, Left: nameExpr(t, "B"), Right: nameExpr(t, "C")},
	}
	got := bytesOf(t, r.expr(expr))
	for _, b := range got {
		if b == token.ByteOpenParen {
			t.Fatalf("associative same-operator chain should not be parenthesized, got %v", got)
		}
	}
}

func TestVisitBinaryNonAssociativeSameOperatorNeedsRightParen(t *testing.T) {
	r := newReconstructor(t)
	// A-(B-C): subtraction is not associative, so the grouping must survive.
	expr := &ast.Binary{
		Op:   ast.BinSub,
		Left: nameExpr(t, "A"),
		Right: &ast.Binary{Op: ast.BinSub, Left: nameExpr(t, "B"), Right: nameExpr(t, "C")},
	}
	got := bytesOf(t, r.expr(expr))
	want := []byte{token.ByteLetterA, token.ByteSub, token.ByteOpenParen, token.ByteLetterA + 1, token.ByteSub, token.ByteLetterA + 2, token.ByteCloseParen}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitUnaryNegationSkipsParensForMultiplicativeChild(t *testing.T) {
	r := newReconstructor(t)
	expr := &ast.Unary{Op: ast.UnNegate, Child: &ast.Binary{Op: ast.BinMul, Left: nameExpr(t, "A"), Right: nameExpr(t, "B")}}
	got := bytesOf(t, r.expr(expr))
	want := []byte{token.ByteNegate, token.ByteLetterA, token.ByteLetterA + 1}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitUnaryNegationWrapsNonMultiplicativeChild(t *testing.T) {
	r := newReconstructor(t)
	expr := &ast.Unary{Op: ast.UnNegate, Child: &ast.Binary{Op: ast.BinAdd, Left: nameExpr(t, "A"), Right: nameExpr(t, "B")}}
	got := bytesOf(t, r.expr(expr))
	want := []byte{token.ByteNegate, token.ByteOpenParen, token.ByteLetterA, token.ByteAdd, token.ByteLetterA + 1, token.ByteCloseParen}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitUnaryPostfixWrapsBinaryChild(t *testing.T) {
	r := newReconstructor(t)
	expr := &ast.Unary{Op: ast.UnSquared, Child: &ast.Binary{Op: ast.BinAdd, Left: nameExpr(t, "A"), Right: nameExpr(t, "B")}}
	got := bytesOf(t, r.expr(expr))
	want := []byte{token.ByteOpenParen, token.ByteLetterA, token.ByteAdd, token.ByteLetterA + 1, token.ByteCloseParen, token.ByteSquared}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitUnaryPostfixWrapsNegatedChild(t *testing.T) {
	r := newReconstructor(t)
	expr := &ast.Unary{Op: ast.UnFactorial, Child: &ast.Unary{Op: ast.UnNegate, Child: nameExpr(t, "A")}}
	got := bytesOf(t, r.expr(expr))
	want := []byte{token.ByteOpenParen, token.ByteNegate, token.ByteLetterA, token.ByteCloseParen, token.ByteFactorial}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitCallResolvesNameAndClosesParen(t *testing.T) {
	r := newReconstructor(t)
	call := &ast.Call{Name: "randInt(", Args: []ast.Expr{mustNum(t, "1"), mustNum(t, "10")}}
	got := bytesOf(t, r.expr(call))
	wantPrefix, ok := r.sheet.ResolveByAccessibleName("randInt(", r.cfg.Version, r.cfg.Lang)
	if !ok {
		t.Fatal("expected the curated sheet to resolve randInt(")
	}
	if string(got[:len(wantPrefix.Bytes())]) != string(wantPrefix.Bytes()) {
		t.Errorf("expected randInt( opcode prefix %v, got %v", wantPrefix.Bytes(), got)
	}
	if got[len(got)-1] != token.ByteCloseParen {
		t.Errorf("call must close its argument list, got %v", got)
	}
}

func TestStripTrailingClosersStripsNestedCallParens(t *testing.T) {
	line := []token.Token{
		token.One(token.ByteLetterA),
		token.One(token.ByteOpenParen),
		token.One(token.ByteOpenParen),
		token.One(token.ByteLetterA + 1),
		token.One(token.ByteCloseParen),
		token.One(token.ByteCloseParen),
	}
	got := stripTrailingClosers(line)
	want := line[:4]
	if len(got) != len(want) {
		t.Errorf("stripTrailingClosers(%v) = %v, want %v", line, got, want)
	}
}

func TestStripTrailingClosersRespectsStringScope(t *testing.T) {
	// "A)" as a string literal: quote, 'A', a literal ')' byte, closing
	// quote. Only the trailing closing quote should be stripped; the ')'
	// byte inside the string is data, not a paren.
	line := []token.Token{
		token.One(token.ByteQuote),
		token.One(token.ByteLetterA),
		token.One(token.ByteCloseParen),
		token.One(token.ByteQuote),
	}
	got := stripTrailingClosers(line)
	want := line[:3]
	if len(got) != len(want) {
		t.Errorf("stripTrailingClosers(%v) = %v, want %v (only the closing quote stripped)", line, got, want)
	}
}

func TestProgramFiltersNoneAndJoinsWithNewline(t *testing.T) {
	r := newReconstructor(t)
	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.ExprStmt{Value: nameExpr(t, "A")},
		&ast.NoneStmt{},
		&ast.ExprStmt{Value: nameExpr(t, "B")},
	}}
	got := bytesOf(t, r.Program(prog))
	want := []byte{token.ByteLetterA, token.ByteNewline, token.ByteLetterA + 1}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestProgramStripsTrailingParenAtLineEnd(t *testing.T) {
	r := newReconstructor(t)
	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.ExprStmt{Value: &ast.IndexExpr{Target: &ast.AnsExpr{}, Indices: []ast.Expr{mustNum(t, "1")}}},
	}}
	got := bytesOf(t, r.Program(prog))
	for _, b := range got {
		if b == token.ByteCloseParen {
			t.Fatalf("trailing close paren should have been stripped at line end, got %v", got)
		}
	}
}

func TestVisitForOmitsClosingParenWhenNotRecorded(t *testing.T) {
	r := newReconstructor(t)
	stmt := &ast.ForStmt{Iterator: mustVar(t, "I"), Start: mustNum(t, "1"), End: mustNum(t, "10"), ClosingParen: false}
	got := bytesOf(t, r.Statement(stmt))
	if got[len(got)-1] == token.ByteCloseParen {
		t.Errorf("ClosingParen=false should not emit a trailing ), got %v", got)
	}
}

func TestVisitForEmitsClosingParenWhenRecorded(t *testing.T) {
	r := newReconstructor(t)
	stmt := &ast.ForStmt{Iterator: mustVar(t, "I"), Start: mustNum(t, "1"), End: mustNum(t, "10"), ClosingParen: true}
	got := bytesOf(t, r.Statement(stmt))
	if got[len(got)-1] != token.ByteCloseParen {
		t.Errorf("ClosingParen=true should emit a trailing ), got %v", got)
	}
}

func TestVisitGenericCommandRendersClrHomeWithNoArgs(t *testing.T) {
	r := newReconstructor(t)
	got := bytesOf(t, r.Statement(&ast.GenericCommand{Name: "ClrHome"}))
	if string(got) != string([]byte{token.ByteClrHome}) {
		t.Errorf("got %v, want bare ClrHome opcode", got)
	}
}

func TestVisitGenericCommandRendersOutputWithArgsAndCloses(t *testing.T) {
	r := newReconstructor(t)
	cmd := &ast.GenericCommand{Name: "Output", HasOpenParen: true, Args: []ast.Expr{mustNum(t, "1"), mustNum(t, "2"), nameExpr(t, "A")}}
	got := bytesOf(t, r.Statement(cmd))
	if got[0] != token.ByteOutput {
		t.Errorf("expected Output opcode first, got %v", got)
	}
	if got[len(got)-1] != token.ByteCloseParen {
		t.Errorf("Output( with args should close its paren, got %v", got)
	}
}

func TestVisitLblAndGotoRoundTripTwoByteLabel(t *testing.T) {
	r := newReconstructor(t)
	label := ast.PackLabelName('A', 'B')
	lblToks := bytesOf(t, r.Statement(&ast.LblStmt{Label: label}))
	gotoToks := bytesOf(t, r.Statement(&ast.GotoStmt{Label: label}))
	wantSuffix := []byte{token.ByteLetterA, token.ByteLetterA + 1}
	if string(lblToks[1:]) != string(wantSuffix) {
		t.Errorf("Lbl label bytes = %v, want %v", lblToks[1:], wantSuffix)
	}
	if string(gotoToks[1:]) != string(wantSuffix) {
		t.Errorf("Goto label bytes = %v, want %v", gotoToks[1:], wantSuffix)
	}
}

func TestVisitStoreRendersArrowBetweenValueAndTarget(t *testing.T) {
	r := newReconstructor(t)
	stmt := &ast.Store{Value: mustNum(t, "5"), Target: nameExpr(t, "X")}
	got := bytesOf(t, r.Statement(stmt))
	if got[len(got)-2] != token.ByteStoreArrow {
		t.Errorf("expected the store arrow before the target, got %v", got)
	}
}

func TestVisitDelVarChainRendersEachDeletionAndValence(t *testing.T) {
	r := newReconstructor(t)
	chain := &ast.DelVarChain{
		Deletions: []ast.DelVarTarget{{Target: mustVar(t, "A")}, {Target: mustVar(t, "B")}},
		Valence:   &ast.ExprStmt{Value: nameExpr(t, "C")},
	}
	got := bytesOf(t, r.Statement(chain))
	want := []byte{
		token.PrefixDelVarEtAl, token.ByteDelVar, token.ByteLetterA,
		token.PrefixDelVarEtAl, token.ByteDelVar, token.ByteLetterA + 1,
		token.ByteLetterA + 2,
	}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitFictionalUnwrapsInnerStatement(t *testing.T) {
	r := newReconstructor(t)
	inner := &ast.Store{Value: mustNum(t, "1"), Target: nameExpr(t, "I")}
	got := bytesOf(t, r.Statement(&ast.Fictional{Inner: inner}))
	want := bytesOf(t, r.Statement(inner))
	if string(got) != string(want) {
		t.Errorf("Fictional should reconstruct identically to its inner statement: got %v, want %v", got, want)
	}
}

func TestVisitCallRendersOpcodeArgsAndClosingParen(t *testing.T) {
	r := newReconstructor(t)
	call := &ast.Call{Name: "sqrt(", Args: []ast.Expr{mustNum(t, "9")}}
	got := bytesOf(t, r.expr(call))
	if got[0] != token.ByteFuncSqrt {
		t.Errorf("expected sqrt( opcode first, got %v", got)
	}
	if got[len(got)-1] != token.ByteCloseParen {
		t.Errorf("expected a closing paren, got %v", got)
	}
}

func TestVisitGetKeyRoundTrips(t *testing.T) {
	r := newReconstructor(t)
	got := bytesOf(t, r.expr(&ast.GetKeyExpr{}))
	want := []byte{token.ByteGetKey}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitNameExprBuiltinList(t *testing.T) {
	r := newReconstructor(t)
	name, err := ast.NewListName("L1")
	if err != nil {
		t.Fatalf("NewListName: %v", err)
	}
	got := bytesOf(t, r.expr(&ast.NameExpr{Name: name}))
	want := []byte{token.PrefixListBuiltin, 0x00}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitNameExprCustomListFallsBackToMarkerAndLetters(t *testing.T) {
	r := newReconstructor(t)
	name, err := ast.NewListName("ABC")
	if err != nil {
		t.Fatalf("NewListName: %v", err)
	}
	got := bytesOf(t, r.expr(&ast.NameExpr{Name: name}))
	want := []byte{token.ByteCustomListMark, token.ByteLetterA, token.ByteLetterA + 1, token.ByteLetterA + 2}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitNameExprMatrix(t *testing.T) {
	r := newReconstructor(t)
	name, err := ast.NewMatrixName("[A]")
	if err != nil {
		t.Fatalf("NewMatrixName: %v", err)
	}
	got := bytesOf(t, r.expr(&ast.NameExpr{Name: name}))
	want := []byte{token.PrefixMatrix, 0x00}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVisitSetUpEditorWithListNames(t *testing.T) {
	r := newReconstructor(t)
	custom, err := ast.NewListName("ABC")
	if err != nil {
		t.Fatalf("NewListName: %v", err)
	}
	builtin, err := ast.NewListName("L1")
	if err != nil {
		t.Fatalf("NewListName: %v", err)
	}
	stmt := &ast.SetUpEditorStmt{Lists: []ast.Name{builtin, custom}}
	got := bytesOf(t, r.Statement(stmt))
	want := []byte{
		token.PrefixDelVarEtAl, token.ByteSetUpEditor,
		token.PrefixListBuiltin, 0x00,
		token.ByteComma,
		token.ByteCustomListMark, token.ByteLetterA, token.ByteLetterA + 1, token.ByteLetterA + 2,
	}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
