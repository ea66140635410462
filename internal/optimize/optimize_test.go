package optimize

import (
	"testing"

	"tibasicopt/internal/ast"
	"tibasicopt/internal/numeric"
	"tibasicopt/internal/strategy"
)

func mustNumericName(t *testing.T, raw string) ast.Name {
	t.Helper()
	name, err := ast.NewNumericVarName(raw)
	if err != nil {
		t.Fatalf("NewNumericVarName(%q): %v", raw, err)
	}
	return name
}

// lbl packs a single ASCII letter as a one-byte label name; TI-BASIC's
// alphanumeric opcode range happens to coincide with ASCII A-Z.
func lbl(c byte) ast.LabelName { return ast.PackLabelName(c, 0) }

func TestRankedLabelNameIsDistinctAndOrdersLettersBeforeDigits(t *testing.T) {
	if got := rankedLabelName(0); got != lbl('A') {
		t.Errorf("rank 0 = %v, want A", got)
	}
	if got := rankedLabelName(26); got != ast.PackLabelName(0x5B, 0) {
		t.Errorf("rank 26 (theta) = %v", got)
	}
	if got := rankedLabelName(27); got != ast.PackLabelName('0', 0) {
		t.Errorf("rank 27 = %v, want 0", got)
	}
	if got := rankedLabelName(37); got != ast.PackLabelName('A', 'A') {
		t.Errorf("rank 37 (first two-letter name) = %v, want AA", got)
	}

	// 37 one-byte names, plus four flavors of two-byte pairs drawn from
	// the same 37-entry dictionary (letter+letter, digit+letter,
	// letter+digit, digit+digit): the whole addressable space.
	const totalNames = 37 + 27*27 + 10*27 + 27*10 + 10*10

	seen := map[ast.LabelName]bool{}
	for r := 0; r < totalNames; r++ {
		name := rankedLabelName(r)
		if seen[name] {
			t.Fatalf("rank %d produced %v, already used by an earlier rank", r, name)
		}
		seen[name] = true
	}
}

func TestOptimizeLabelNamesElidesUnusedAndRanksByUsage(t *testing.T) {
	hot := lbl('H') // referenced twice
	cold := lbl('C') // declared, never referenced
	warm := lbl('W') // referenced once

	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.LblStmt{Label: hot},   // 0
		&ast.LblStmt{Label: cold},  // 1
		&ast.GotoStmt{Label: hot},  // 2
		&ast.LblStmt{Label: warm},  // 3
		&ast.GotoStmt{Label: hot},  // 4
		&ast.GotoStmt{Label: warm}, // 5
	}}

	OptimizeLabelNames(prog)

	if _, ok := prog.Statements[1].(*ast.NoneStmt); !ok {
		t.Errorf("unused label declaration should be nulled, got %T", prog.Statements[1])
	}

	hotDecl := prog.Statements[0].(*ast.LblStmt).Label
	warmDecl := prog.Statements[3].(*ast.LblStmt).Label
	if hotDecl != lbl('A') {
		t.Errorf("most-used label should be renamed to A, got %v", hotDecl)
	}
	if warmDecl != lbl('B') {
		t.Errorf("second-most-used label should be renamed to B, got %v", warmDecl)
	}

	if got := prog.Statements[2].(*ast.GotoStmt).Label; got != hotDecl {
		t.Errorf("Goto usage not renamed consistently with its declaration: %v != %v", got, hotDecl)
	}
	if got := prog.Statements[4].(*ast.GotoStmt).Label; got != hotDecl {
		t.Errorf("second Goto usage of hot label not renamed: %v", got)
	}
	if got := prog.Statements[5].(*ast.GotoStmt).Label; got != warmDecl {
		t.Errorf("Goto usage of warm label not renamed: %v", got)
	}
}

func TestOptimizeLabelNamesRenamesMenuOptionsSelectively(t *testing.T) {
	x := lbl('X')
	y := lbl('Y')

	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.LblStmt{Label: x}, // 0
		&ast.LblStmt{Label: y}, // 1
		&ast.MenuStmt{ // 2
			Title: &ast.StringLiteral{Value: "pick"},
			Options: []ast.MenuOption{
				{Title: &ast.StringLiteral{Value: "one"}, Label: x},
				{Title: &ast.StringLiteral{Value: "two"}, Label: y},
			},
		},
		&ast.MenuStmt{ // 3, a second reference to x only
			Title: &ast.StringLiteral{Value: "again"},
			Options: []ast.MenuOption{
				{Title: &ast.StringLiteral{Value: "one"}, Label: x},
			},
		},
	}}

	OptimizeLabelNames(prog)

	xNew := prog.Statements[0].(*ast.LblStmt).Label
	yNew := prog.Statements[1].(*ast.LblStmt).Label
	if xNew == yNew {
		t.Fatalf("x and y must not collide: both %v", xNew)
	}

	menu := prog.Statements[2].(*ast.MenuStmt)
	if menu.Options[0].Label != xNew || menu.Options[1].Label != yNew {
		t.Errorf("menu options not renamed correctly: %+v", menu.Options)
	}
	secondMenu := prog.Statements[3].(*ast.MenuStmt)
	if secondMenu.Options[0].Label != xNew {
		t.Errorf("second menu's x reference not renamed: %v", secondMenu.Options[0].Label)
	}
}

func TestOptimizeParenthesesSwapsForGreaterTrailingParens(t *testing.T) {
	// round(round(A < round(A  -- the left side is a call nested inside
	// another call (2 trailing parens), the right side a single call (1
	// trailing paren), so swapping to put the deeper side last exposes
	// one more trailing paren overall.
	innerCall := &ast.Call{Name: "round(", Args: []ast.Expr{&ast.NameExpr{}}}
	leftCall := &ast.Call{Name: "round(", Args: []ast.Expr{innerCall}}
	rightCall := &ast.Call{Name: "round(", Args: []ast.Expr{&ast.NameExpr{}}}
	root := &ast.Binary{Op: ast.BinLt, Left: leftCall, Right: rightCall}

	got := OptimizeParentheses(root)
	if got != 2 {
		t.Fatalf("OptimizeParentheses = %d, want 2", got)
	}
	if root.Op != ast.BinGt {
		t.Errorf("operator should flip to its opposite, got %v", root.Op)
	}
	if root.Left != rightCall || root.Right != leftCall {
		t.Errorf("left/right should have swapped")
	}
}

func TestOptimizeParenthesesCallCountsArgumentTail(t *testing.T) {
	call := &ast.Call{Name: "round(", Args: []ast.Expr{
		&ast.NameExpr{},
		&ast.Binary{Op: ast.BinAdd, Left: &ast.NameExpr{}, Right: &ast.NameExpr{}},
	}}
	if got := OptimizeParentheses(call); got != 1 {
		t.Errorf("OptimizeParentheses(call) = %d, want 1 (its own closing paren only)", got)
	}
}

func TestOptimizeParenthesesNegatedBinaryCountsChildParen(t *testing.T) {
	child := &ast.Binary{Op: ast.BinAdd, Left: &ast.NameExpr{}, Right: &ast.NameExpr{}}
	neg := &ast.Unary{Op: ast.UnNegate, Child: child}
	if got := OptimizeParentheses(neg); got != 1 {
		t.Errorf("OptimizeParentheses(-(a+b)) = %d, want 1", got)
	}
}

func TestOptimizeParenthesesNegatedMultiplicativeChildCountsNone(t *testing.T) {
	// -(A*B) is reconstructed without parens around the product, so it
	// contributes no elidable trailing paren of its own.
	child := &ast.Binary{Op: ast.BinMul, Left: &ast.NameExpr{}, Right: &ast.NameExpr{}}
	neg := &ast.Unary{Op: ast.UnNegate, Child: child}
	if got := OptimizeParentheses(neg); got != 0 {
		t.Errorf("OptimizeParentheses(-(a*b)) = %d, want 0", got)
	}
}

func TestStripForClosingParensAlwaysStripsUnderSize(t *testing.T) {
	iter := mustNumericName(t, "I")
	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.ForStmt{Iterator: iter, Start: &ast.NumberLiteral{Value: numeric.Float{}}, End: &ast.NumberLiteral{Value: numeric.Float{}}, ClosingParen: true},
		&ast.IsGtStmt{Var: iter, Cond: &ast.NumberLiteral{Value: numeric.Float{}}},
	}}
	StripForClosingParens(prog, strategy.PrioritySize)
	if prog.Statements[0].(*ast.ForStmt).ClosingParen {
		t.Errorf("Size priority should always strip the closing paren")
	}
}

func TestStripForClosingParensKeepsParenBeforeIsGtUnderSpeed(t *testing.T) {
	iter := mustNumericName(t, "I")
	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.ForStmt{Iterator: iter, Start: &ast.NumberLiteral{Value: numeric.Float{}}, End: &ast.NumberLiteral{Value: numeric.Float{}}, ClosingParen: true},
		&ast.IsGtStmt{Var: iter, Cond: &ast.NumberLiteral{Value: numeric.Float{}}},
	}}
	StripForClosingParens(prog, strategy.PriorityNeutral)
	if !prog.Statements[0].(*ast.ForStmt).ClosingParen {
		t.Errorf("Speed/Neutral priority should keep the paren ahead of Is>(")
	}
}

func TestStripForClosingParensStripsWhenNextIsIfThen(t *testing.T) {
	a := mustNumericName(t, "A")
	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.ForStmt{Iterator: a, Start: &ast.NumberLiteral{Value: numeric.Float{}}, End: &ast.NumberLiteral{Value: numeric.Float{}}, ClosingParen: true},
		&ast.IfStmt{Cond: &ast.NameExpr{Name: a}},
		&ast.ThenStmt{},
	}}
	StripForClosingParens(prog, strategy.PriorityNeutral)
	if prog.Statements[0].(*ast.ForStmt).ClosingParen {
		t.Errorf("a following If-Then is not load-bearing, paren should be stripped")
	}
}

func TestStripForClosingParensKeepsParenBeforeBareIf(t *testing.T) {
	a := mustNumericName(t, "A")
	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.ForStmt{Iterator: a, Start: &ast.NumberLiteral{Value: numeric.Float{}}, End: &ast.NumberLiteral{Value: numeric.Float{}}, ClosingParen: true},
		&ast.IfStmt{Cond: &ast.NameExpr{Name: a}},
	}}
	StripForClosingParens(prog, strategy.PrioritySpeed)
	if !prog.Statements[0].(*ast.ForStmt).ClosingParen {
		t.Errorf("a bare If with no Then is a simple failure path and is load-bearing")
	}
}

func TestOptimizeProgramParenthesesReachesIfCondition(t *testing.T) {
	a := mustNumericName(t, "A")
	b := mustNumericName(t, "B")
	// (A-B)+C vs its mirror C+(A-B): Add has an opposite (itself), so if
	// the left child's trailing-paren count beats the right's, the walker
	// must swap operands in place, same as a direct OptimizeParentheses
	// call on the same shape would.
	left := &ast.Binary{Op: ast.BinSub, Left: &ast.NameExpr{Name: a}, Right: &ast.NameExpr{Name: b}}
	cond := &ast.Binary{Op: ast.BinAdd, Left: left, Right: &ast.NameExpr{Name: a}}
	prog := &ast.Program{Statements: []ast.Stmt{&ast.IfStmt{Cond: cond}}}

	OptimizeProgramParentheses(prog)

	got := prog.Statements[0].(*ast.IfStmt).Cond.(*ast.Binary)
	if got.Right != left {
		t.Errorf("expected the walker to reach IfStmt.Cond and swap operands in place, left child still on the left")
	}
}

func TestOptimizeProgramParenthesesReachesFictionalWrappedStatements(t *testing.T) {
	a := mustNumericName(t, "A")
	inner := &ast.Store{Value: &ast.Binary{Op: ast.BinSub, Left: &ast.NameExpr{Name: a}, Right: &ast.Binary{Op: ast.BinSub, Left: &ast.NameExpr{Name: a}, Right: &ast.NameExpr{Name: a}}}, Target: &ast.NameExpr{Name: a}}
	prog := &ast.Program{Statements: []ast.Stmt{&ast.Fictional{Inner: inner}}}

	// Subtraction has no opposite operator, so OptimizeParentheses never
	// swaps operands here; this only confirms the walker descends into
	// Fictional without panicking and leaves the nested Binary reachable.
	OptimizeProgramParentheses(prog)
	if _, ok := inner.Value.(*ast.Binary); !ok {
		t.Fatalf("expected inner.Value to remain a *ast.Binary after the walk")
	}
}
