package controlflow

import "tibasicopt/internal/ast"

// Lookup bundles the precomputed facts other passes need about a
// program's jump structure, computed once and reused.
type Lookup struct {
	LabelDeclarations map[ast.LabelName]int
	LabelUsages       map[ast.LabelName][]int
	Labels            *PartitionMap[ast.LabelName]

	BlockFailurePaths map[int]int
	EOFAbusers        map[int]bool
	SimpleFailures    map[int]int

	LexicalBlocks *IntervalTree

	// Literals holds the line indices of conditionals that must be left
	// exactly as written rather than folded into a structured basic
	// block: a conditional whose lexical block contains a Goto, Lbl, or
	// Menu( target jump is not safe to restructure, since changing its
	// shape (e.g. a While rewritten as a For() could change which lines
	// a label spans.
	Literals map[int]bool
}

// NewLookup computes every control-flow fact this package exposes for
// prog in one pass.
func NewLookup(prog *ast.Program) *Lookup {
	blockPaths, eofAbusers := BlockFailurePaths(prog)
	decls := LabelDeclarations(prog)
	usages := LabelUsages(prog)

	var ranges []Interval
	for conditional, destination := range blockPaths {
		ranges = append(ranges, Interval{Start: conditional, End: destination})
	}
	lexicalBlocks := NewIntervalTree(ranges)

	literals := make(map[int]bool)
	for _, lines := range usages {
		for _, line := range lines {
			for _, r := range lexicalBlocks.Stab(line) {
				literals[r.Start] = true
				literals[r.End-1] = true
			}
		}
	}
	markLine := func(line int) {
		for _, r := range lexicalBlocks.Stab(line) {
			literals[r.Start] = true
			literals[r.End] = true
		}
	}
	for _, line := range decls {
		markLine(line)
	}
	for _, lines := range usages {
		for _, line := range lines {
			markLine(line)
		}
	}

	// An If-Then whose Else literal landed inside a literal region must
	// itself become literal: its failure path already points at that
	// Else, so reshaping one without the other would desynchronize them.
	for conditional, failureLine := range blockPaths {
		if _, isIfThen := prog.Statements[conditional].(*ast.IfStmt); !isIfThen {
			continue
		}
		if failureLine-1 < 0 || failureLine-1 >= len(prog.Statements) {
			continue
		}
		if _, isElse := prog.Statements[failureLine-1].(*ast.ElseStmt); !isElse {
			continue
		}
		if literals[failureLine-1] {
			literals[conditional] = true
		}
	}

	return &Lookup{
		LabelDeclarations: decls,
		LabelUsages:       usages,
		Labels:            LineToLabelMap(prog),
		BlockFailurePaths: blockPaths,
		EOFAbusers:        eofAbusers,
		SimpleFailures:    SimpleFailurePaths(prog),
		LexicalBlocks:     lexicalBlocks,
		Literals:          literals,
	}
}

// IsLiteral reports whether the conditional at line must be preserved
// verbatim rather than restructured.
func (l *Lookup) IsLiteral(line int) bool { return l.Literals[line] }
