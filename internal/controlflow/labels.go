// Package controlflow analyzes a parsed program's jump structure: where
// labels are declared and used, where a falsy conditional lands, which
// unclosed blocks run off the end of the program, and how the program
// splits into basic blocks joined by control-flow edges.
package controlflow

import (
	"sort"

	"tibasicopt/internal/ast"
)

// LabelDeclarations maps each declared label to the index of the Lbl
// statement that declares it. A label redeclared later in the program
// keeps only its last declaration, matching how the device resolves a
// Goto to the last matching Lbl it finds.
func LabelDeclarations(prog *ast.Program) map[ast.LabelName]int {
	decls := make(map[ast.LabelName]int)
	for idx, stmt := range prog.Statements {
		if lbl, ok := stmt.(*ast.LblStmt); ok {
			decls[lbl.Label] = idx
		}
	}
	return decls
}

// LabelUsages maps each label referenced by a Goto or a Menu( option to
// every line index that references it. A Menu( with the same label in
// more than one option contributes one entry per option.
func LabelUsages(prog *ast.Program) map[ast.LabelName][]int {
	usages := make(map[ast.LabelName][]int)
	for idx, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.GotoStmt:
			usages[s.Label] = append(usages[s.Label], idx)
		case *ast.MenuStmt:
			for _, opt := range s.Options {
				usages[opt.Label] = append(usages[opt.Label], idx)
			}
		}
	}
	return usages
}

// LineToLabelMap partitions the program's line indices into the
// contiguous ranges owned by each label: every line from a label's
// declaration up to (but not including) the next declaration belongs to
// that label. Lines before the first Lbl belong to ast.StartLabel.
func LineToLabelMap(prog *ast.Program) *PartitionMap[ast.LabelName] {
	decls := LabelDeclarations(prog)
	type decl struct {
		line  int
		label ast.LabelName
	}
	var sorted []decl
	for label, line := range decls {
		sorted = append(sorted, decl{line, label})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].line < sorted[j].line })

	breaks := []int{0}
	values := []ast.LabelName{ast.StartLabel}
	for _, d := range sorted {
		if d.line == 0 {
			values[0] = d.label
			continue
		}
		breaks = append(breaks, d.line)
		values = append(values, d.label)
	}
	return NewPartitionMap(breaks, values)
}
