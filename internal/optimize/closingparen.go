package optimize

import (
	"tibasicopt/internal/ast"
	"tibasicopt/internal/strategy"
)

// StripForClosingParens decides, for every For( loop that carried its
// optional trailing ")", whether that paren is safe to drop.
//
// Under Priority.Size the paren is always dropped: a dropped byte is a
// dropped byte regardless of what follows.
//
// Under Priority.Speed or Priority.Neutral the paren is kept when the
// very next statement is one whose own leading token would otherwise
// fuse with the loop's trailing variable name under TI-BASIC's
// implicit-multiplication rule: a bare If (not followed by Then), or
// Is>(/Ds<(. Those three statements start with a name or a numeric
// comparison that the tokenizer can misparse as multiplying into the
// loop's end/step expression when no closing paren separates them,
// forcing a slower re-parse on real hardware. Every other successor
// leaves the paren safe to drop even under Speed.
func StripForClosingParens(prog *ast.Program, priority strategy.Priority) {
	for i, stmt := range prog.Statements {
		forStmt, ok := stmt.(*ast.ForStmt)
		if !ok || !forStmt.ClosingParen {
			continue
		}

		if priority == strategy.PrioritySize {
			forStmt.ClosingParen = false
			continue
		}

		if forClosingParenIsLoadBearing(prog, i) {
			continue
		}
		forStmt.ClosingParen = false
	}
}

func forClosingParenIsLoadBearing(prog *ast.Program, forIdx int) bool {
	next := forIdx + 1
	if next >= len(prog.Statements) {
		return false
	}

	switch prog.Statements[next].(type) {
	case *ast.IsGtStmt, *ast.DsLtStmt:
		return true
	case *ast.IfStmt:
		if next+1 < len(prog.Statements) {
			if _, hasThen := prog.Statements[next+1].(*ast.ThenStmt); hasThen {
				return false
			}
		}
		return true
	default:
		return false
	}
}
