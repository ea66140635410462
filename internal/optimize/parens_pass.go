package optimize

import "tibasicopt/internal/ast"

// OptimizeProgramParentheses runs OptimizeParentheses over every expression
// reachable from prog's statements, the same double-dispatch walk
// reconstruct uses to cover every statement shape rather than a type
// switch duplicated per caller.
func OptimizeProgramParentheses(prog *ast.Program) {
	w := parenWalker{}
	for _, stmt := range prog.Statements {
		stmt.Accept(w)
	}
}

type parenWalker struct{}

func (w parenWalker) expr(e ast.Expr) {
	if e != nil {
		OptimizeParentheses(e)
	}
}

func (w parenWalker) VisitIf(s *ast.IfStmt) interface{}       { w.expr(s.Cond); return nil }
func (w parenWalker) VisitThen(*ast.ThenStmt) interface{}     { return nil }
func (w parenWalker) VisitElse(*ast.ElseStmt) interface{}     { return nil }
func (w parenWalker) VisitWhile(s *ast.WhileStmt) interface{} { w.expr(s.Cond); return nil }
func (w parenWalker) VisitRepeat(s *ast.RepeatStmt) interface{} {
	w.expr(s.Cond)
	return nil
}

func (w parenWalker) VisitFor(s *ast.ForStmt) interface{} {
	w.expr(s.Start)
	w.expr(s.End)
	w.expr(s.Step)
	return nil
}

func (w parenWalker) VisitEnd(*ast.EndStmt) interface{}       { return nil }
func (w parenWalker) VisitReturn(*ast.ReturnStmt) interface{} { return nil }
func (w parenWalker) VisitLbl(*ast.LblStmt) interface{}       { return nil }
func (w parenWalker) VisitGoto(*ast.GotoStmt) interface{}     { return nil }
func (w parenWalker) VisitStop(*ast.StopStmt) interface{}     { return nil }

func (w parenWalker) VisitIsGt(s *ast.IsGtStmt) interface{} { w.expr(s.Cond); return nil }
func (w parenWalker) VisitDsLt(s *ast.DsLtStmt) interface{} { w.expr(s.Cond); return nil }

func (w parenWalker) VisitMenu(s *ast.MenuStmt) interface{} {
	w.expr(s.Title)
	for _, opt := range s.Options {
		w.expr(opt.Title)
	}
	return nil
}

func (w parenWalker) VisitGenericCommand(s *ast.GenericCommand) interface{} {
	for _, arg := range s.Args {
		w.expr(arg)
	}
	return nil
}

func (w parenWalker) VisitDelVarChain(s *ast.DelVarChain) interface{} {
	if s.Valence != nil {
		s.Valence.Accept(w)
	}
	return nil
}

func (w parenWalker) VisitStore(s *ast.Store) interface{} {
	w.expr(s.Value)
	w.expr(s.Target)
	return nil
}

func (w parenWalker) VisitExprStmt(s *ast.ExprStmt) interface{} { w.expr(s.Value); return nil }

func (w parenWalker) VisitProgramInvocation(*ast.ProgramInvocation) interface{} { return nil }
func (w parenWalker) VisitSetUpEditor(*ast.SetUpEditorStmt) interface{}        { return nil }
func (w parenWalker) VisitNone(*ast.NoneStmt) interface{}                     { return nil }

func (w parenWalker) VisitFictional(s *ast.Fictional) interface{} {
	s.Inner.Accept(w)
	return nil
}
