// Package optimize implements peephole passes that run over a parsed
// program after control-flow analysis: renaming labels to their
// shortest legal form, reshaping expressions so more closing
// parentheses land at end-of-line (where they can be dropped), and
// deciding when a For( loop's own closing paren is safe to drop.
package optimize

import (
	"sort"

	"tibasicopt/internal/ast"
	"tibasicopt/internal/controlflow"
)

// labelDictionary ranks the one-byte alphanumeric names from fastest to
// slowest to tokenize: letters before digits, since the calculator's
// own character-recognition table appears to check letters first.
var labelDictionary = [...]byte{
	0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D,
	0x4E, 0x4F, 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59, 0x5A,
	0x5B, // theta
	0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
}

const (
	letterCount = 27
	digitCount  = 10
)

// rankedLabelName produces the label name for the rank'th most-used
// label (rank 0 is most used): single letters and digits first, then
// two-character names in the order letter+letter, digit+letter,
// letter+digit, digit+digit.
func rankedLabelName(rank int) ast.LabelName {
	if rank < len(labelDictionary) {
		return ast.PackLabelName(labelDictionary[rank], 0)
	}
	rank -= len(labelDictionary)

	if rank < letterCount*letterCount {
		return ast.PackLabelName(labelDictionary[rank/letterCount], labelDictionary[rank%letterCount])
	}
	rank -= letterCount * letterCount

	if rank < digitCount*letterCount {
		return ast.PackLabelName(labelDictionary[letterCount+rank/letterCount], labelDictionary[rank%letterCount])
	}
	rank -= digitCount * letterCount

	if rank < letterCount*digitCount {
		return ast.PackLabelName(labelDictionary[rank%letterCount], labelDictionary[letterCount+rank/letterCount])
	}
	rank -= letterCount * digitCount

	return ast.PackLabelName(labelDictionary[letterCount+rank/digitCount], labelDictionary[letterCount+rank%digitCount])
}

// OptimizeLabelNames clears declarations for labels nothing jumps to,
// then renames every remaining label so the most-referenced labels get
// the shortest names. Run this before building a control-flow Lookup
// for a final pass, since it changes label identities.
func OptimizeLabelNames(prog *ast.Program) {
	decls := controlflow.LabelDeclarations(prog)
	usages := controlflow.LabelUsages(prog)

	for idx, stmt := range prog.Statements {
		lbl, ok := stmt.(*ast.LblStmt)
		if !ok {
			continue
		}
		if _, used := usages[lbl.Label]; !used || decls[lbl.Label] != idx {
			prog.Statements[idx] = &ast.NoneStmt{}
		}
	}

	type usageEntry struct {
		label ast.LabelName
		lines []int
	}
	var ranked []usageEntry
	for label, lines := range usages {
		ranked = append(ranked, usageEntry{label: label, lines: lines})
	}
	sort.Slice(ranked, func(i, j int) bool { return len(ranked[i].lines) > len(ranked[j].lines) })

	for rank, entry := range ranked {
		newName := rankedLabelName(rank)

		declLine, ok := decls[entry.label]
		if !ok {
			continue // used without a declaration: a likely runtime error, left untouched
		}
		if lbl, ok := prog.Statements[declLine].(*ast.LblStmt); ok {
			lbl.Label = newName
		}

		for i, line := range entry.lines {
			if i != 0 && entry.lines[i-1] == line {
				continue
			}
			switch s := prog.Statements[line].(type) {
			case *ast.GotoStmt:
				s.Label = newName
			case *ast.MenuStmt:
				for oi := range s.Options {
					if s.Options[oi].Label == entry.label {
						s.Options[oi].Label = newName
					}
				}
			}
		}
	}
}
