package controlflow

import "tibasicopt/internal/ast"

// FlowKind answers "how does control leave this block?"
type FlowKind int

const (
	// FlowUnknown marks a block still being filled in.
	FlowUnknown FlowKind = iota
	// FlowFallthrough means control always proceeds to the single
	// recorded successor.
	FlowFallthrough
	// FlowBranch means control proceeds to Edges[0] if the guarding
	// conditional is true and Edges[1] if it is false.
	FlowBranch
	// FlowGoto means control jumps unconditionally to a label.
	FlowGoto
	// FlowMenu means control jumps to one of several labels chosen at
	// runtime.
	FlowMenu
	// FlowEnd means the block runs off the end of the program or hits a
	// Return/Stop.
	FlowEnd
)

// BasicBlock is a maximal run of statements with no incoming jump
// except at its first line and no outgoing jump except at its last.
type BasicBlock struct {
	StartLine int
	Lines     []ast.Stmt
	Flow      FlowKind
	// Edges holds the starting line of each successor block, in order.
	// A FlowBranch block's Edges[0] is the true-branch target and
	// Edges[1] the false-branch target.
	Edges []int
	// Goto is set when Flow is FlowGoto or an entry of FlowMenu; it
	// names the label a Goto/Menu( option targets, since that label may
	// not exist yet and can't always be resolved to a line up front.
	Goto []ast.LabelName
}

// BuildBlocks splits prog into basic blocks joined by control-flow
// edges, using lookup's failure paths to resolve each conditional's
// false-branch target. Conditionals lookup marks literal are appended
// to the current block verbatim instead of starting a new edge, since
// restructuring them is unsafe (see Lookup.Literals).
//
// This is a line-level block graph: Edges name starting line numbers,
// and Goto targets are left as label names for a later pass to resolve
// once label-rank renaming has run.
func BuildBlocks(prog *ast.Program, lookup *Lookup) []*BasicBlock {
	var blocks []*BasicBlock
	cur := &BasicBlock{StartLine: 0}

	finish := func(flow FlowKind, edges []int, gotoLabels []ast.LabelName, nextStart int) {
		cur.Flow = flow
		cur.Edges = edges
		cur.Goto = gotoLabels
		blocks = append(blocks, cur)
		cur = &BasicBlock{StartLine: nextStart}
	}

	stmts := prog.Statements
	for idx := 0; idx < len(stmts); idx++ {
		stmt := stmts[idx]

		if lookup.IsLiteral(idx) {
			cur.Lines = append(cur.Lines, stmt)
			continue
		}

		switch s := stmt.(type) {
		case *ast.GotoStmt:
			cur.Lines = append(cur.Lines, stmt)
			finish(FlowGoto, nil, []ast.LabelName{s.Label}, idx+1)

		case *ast.MenuStmt:
			cur.Lines = append(cur.Lines, stmt)
			var targets []ast.LabelName
			for _, opt := range s.Options {
				targets = append(targets, opt.Label)
			}
			finish(FlowMenu, nil, targets, idx+1)

		case *ast.IfStmt:
			if failure, ok := lookup.BlockFailurePaths[idx]; ok {
				cur.Lines = append(cur.Lines, stmt)
				finish(FlowBranch, []int{idx + 1, failure}, nil, idx+1)
			} else if failure, ok := lookup.SimpleFailures[idx]; ok {
				cur.Lines = append(cur.Lines, stmt)
				finish(FlowBranch, []int{idx + 1, failure}, nil, idx+1)
			} else {
				cur.Lines = append(cur.Lines, stmt)
			}

		case *ast.IsGtStmt, *ast.DsLtStmt:
			cur.Lines = append(cur.Lines, stmt)
			failure := lookup.SimpleFailures[idx]
			finish(FlowBranch, []int{idx + 1, failure}, nil, idx+1)

		case *ast.WhileStmt, *ast.RepeatStmt, *ast.ForStmt:
			cur.Lines = append(cur.Lines, stmt)
			failure := lookup.BlockFailurePaths[idx]
			finish(FlowBranch, []int{idx + 1, failure}, nil, idx+1)

		case *ast.ElseStmt:
			cur.Lines = append(cur.Lines, stmt)
			failure := lookup.BlockFailurePaths[idx]
			finish(FlowFallthrough, []int{failure}, nil, idx+1)

		case *ast.EndStmt:
			cur.Lines = append(cur.Lines, stmt)

		case *ast.ReturnStmt, *ast.StopStmt:
			cur.Lines = append(cur.Lines, stmt)
			finish(FlowEnd, nil, nil, idx+1)

		default:
			cur.Lines = append(cur.Lines, stmt)
		}
	}

	if len(cur.Lines) > 0 {
		cur.Flow = FlowEnd
		blocks = append(blocks, cur)
	}

	return blocks
}
