// Package ast defines TI-BASIC's abstract syntax: expressions, statements,
// labels, names, and the whole-program container. Node types follow the
// double-dispatch visitor idiom (Accept(Visitor) interface{}) rather than
// a type switch, the same shape the teacher uses for its own expression
// and statement sum types.
package ast

import "tibasicopt/internal/numeric"

// Expr is any node in an expression tree.
type Expr interface {
	Accept(v ExprVisitor) interface{}
}

// ExprVisitor double-dispatches over every concrete Expr variant.
type ExprVisitor interface {
	VisitBinary(*Binary) interface{}
	VisitUnary(*Unary) interface{}
	VisitCall(*Call) interface{}
	VisitNumberLiteral(*NumberLiteral) interface{}
	VisitStringLiteral(*StringLiteral) interface{}
	VisitListLiteral(*ListLiteral) interface{}
	VisitNameExpr(*NameExpr) interface{}
	VisitAns(*AnsExpr) interface{}
	VisitPi(*PiExpr) interface{}
	VisitE(*EExpr) interface{}
	VisitGetKey(*GetKeyExpr) interface{}
	VisitGetDate(*GetDateExpr) interface{}
	VisitStartTmr(*StartTmrExpr) interface{}
	VisitTblInput(*TblInputExpr) interface{}
	VisitIndex(*IndexExpr) interface{}
}

// BinOpKind enumerates binary operators, ordered by the precedence bands
// spec.md §3 assigns.
type BinOpKind int

const (
	BinOr BinOpKind = iota
	BinXor
	BinAnd
	BinEq
	BinLt
	BinGt
	BinNe
	BinLe
	BinGe
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinNPr
	BinNCr
	BinPow
	BinXRoot
)

// Precedence returns the binding power of a binary operator: 10 for
// or/xor, 20 for and, 30 for relational, 40 for +/-, 50 for * //, 60 for
// nPr/nCr, 70 for ^/xroot.
func (k BinOpKind) Precedence() int {
	switch k {
	case BinOr, BinXor:
		return 10
	case BinAnd:
		return 20
	case BinEq, BinLt, BinGt, BinNe, BinLe, BinGe:
		return 30
	case BinAdd, BinSub:
		return 40
	case BinMul, BinDiv:
		return 50
	case BinNPr, BinNCr:
		return 60
	case BinPow, BinXRoot:
		return 70
	default:
		return 0
	}
}

// RightAssociative reports whether this operator reduces right-to-left.
// Only exponentiation does; every other band is left-associative.
func (k BinOpKind) RightAssociative() bool { return k == BinPow }

// Opposite returns the operator that yields the same result with its
// operands swapped (e.g. < and >), and whether one exists. Commutative
// operators are their own opposite.
func (k BinOpKind) Opposite() (BinOpKind, bool) {
	switch k {
	case BinLt:
		return BinGt, true
	case BinGt:
		return BinLt, true
	case BinLe:
		return BinGe, true
	case BinGe:
		return BinLe, true
	case BinEq, BinNe, BinAdd, BinMul, BinAnd, BinOr, BinXor:
		return k, true
	default:
		return k, false
	}
}

// Associative reports whether repeated application of this operator can be
// freely reassociated, the precondition parenthesis maximization's
// associative-chain reshaping relies on.
func (k BinOpKind) Associative() bool {
	switch k {
	case BinAdd, BinMul, BinAnd, BinOr, BinXor:
		return true
	default:
		return false
	}
}

// Binary is a two-operand operator application.
type Binary struct {
	Op    BinOpKind
	Left  Expr
	Right Expr
}

func (b *Binary) Accept(v ExprVisitor) interface{} { return v.VisitBinary(b) }

// UnOpKind enumerates unary operators: one prefix (negation), the rest
// postfix.
type UnOpKind int

const (
	UnNegate UnOpKind = iota
	UnSquared
	UnCubed
	UnReciprocal
	UnFactorial
	UnTranspose
	UnDegRad
	UnPercent
)

// Prefix reports whether this operator is written before its operand.
// Only negation is.
func (k UnOpKind) Prefix() bool { return k == UnNegate }

// Unary is a single-operand operator application.
type Unary struct {
	Op    UnOpKind
	Child Expr
}

func (u *Unary) Accept(v ExprVisitor) interface{} { return v.VisitUnary(u) }

// Call is a function-style invocation: a name opcode applied to
// comma-separated arguments inside parentheses.
type Call struct {
	Name string
	Args []Expr
}

func (c *Call) Accept(v ExprVisitor) interface{} { return v.VisitCall(c) }

// NumberLiteral is a parsed numeric literal.
type NumberLiteral struct {
	Value numeric.Float
}

func (n *NumberLiteral) Accept(v ExprVisitor) interface{} { return v.VisitNumberLiteral(n) }

// StringLiteral is a quoted string literal's contents: the raw opcode
// bytes between the quotes, stored verbatim as a Go string rather than
// decoded to a display spelling.
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) Accept(v ExprVisitor) interface{} { return v.VisitStringLiteral(s) }

// ListLiteral is a brace-delimited list of expressions, {e1, e2, ...}.
type ListLiteral struct {
	Elements []Expr
}

func (l *ListLiteral) Accept(v ExprVisitor) interface{} { return v.VisitListLiteral(l) }

// NameExpr references a variable, list, matrix, string, picture, image,
// equation, or window-variable name as an operand.
type NameExpr struct {
	Name Name
}

func (n *NameExpr) Accept(v ExprVisitor) interface{} { return v.VisitNameExpr(n) }

// AnsExpr is the implicit last-result operand.
type AnsExpr struct{}

func (a *AnsExpr) Accept(v ExprVisitor) interface{} { return v.VisitAns(a) }

// PiExpr is the pi constant, written by the MathConstant strategy in
// place of its decimal expansion when doing so is shorter.
type PiExpr struct{}

func (p *PiExpr) Accept(v ExprVisitor) interface{} { return v.VisitPi(p) }

// EExpr is Euler's number, e.
type EExpr struct{}

func (e *EExpr) Accept(v ExprVisitor) interface{} { return v.VisitE(e) }

// GetKeyExpr is the getKey operand.
type GetKeyExpr struct{}

func (g *GetKeyExpr) Accept(v ExprVisitor) interface{} { return v.VisitGetKey(g) }

// GetDateExpr is the getDate operand.
type GetDateExpr struct{}

func (g *GetDateExpr) Accept(v ExprVisitor) interface{} { return v.VisitGetDate(g) }

// StartTmrExpr is the startTmr operand.
type StartTmrExpr struct{}

func (s *StartTmrExpr) Accept(v ExprVisitor) interface{} { return v.VisitStartTmr(s) }

// TblInputExpr is the TblInput operand.
type TblInputExpr struct{}

func (t *TblInputExpr) Accept(v ExprVisitor) interface{} { return v.VisitTblInput(t) }

// IndexExpr is an indexed access, Target(Indices...). Target is lexically
// ambiguous with a function call or implicit multiplication when it is
// Ans, a list, or a matrix (spec.md §4.3); the parser resolves this in
// favor of indexing and the reconstructor compensates.
type IndexExpr struct {
	Target  Expr
	Indices []Expr
}

func (i *IndexExpr) Accept(v ExprVisitor) interface{} { return v.VisitIndex(i) }
