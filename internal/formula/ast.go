package formula

// The AST is a closed set: every node the parser can produce is on the
// allow-list, so there is no denylist walk to keep in sync with a host
// grammar. Anything else never gets past the parser.

// #region ops

// BinaryOp is an arithmetic operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

// Symbol returns the display form of the operator.
func (op BinaryOp) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	}
	return "?"
}

// UnaryOp is a prefix sign operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
)

// CompareOp is a comparison operator. Comparisons evaluate to 1.0/0.0 so a
// bare comparison can double as a direct pass/fail condition.
type CompareOp int

const (
	OpLess CompareOp = iota
	OpGreater
	OpLessEq
	OpGreaterEq
	OpEq
	OpNotEq
)

// Symbol returns the display form, e.g. for "lhs op rhs, PASS" rendering.
func (op CompareOp) Symbol() string {
	switch op {
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEq:
		return "<="
	case OpGreaterEq:
		return ">="
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	}
	return "?"
}

// Apply evaluates the comparison on two floats.
func (op CompareOp) Apply(a, b float64) bool {
	switch op {
	case OpLess:
		return a < b
	case OpGreater:
		return a > b
	case OpLessEq:
		return a <= b
	case OpGreaterEq:
		return a >= b
	case OpEq:
		return a == b
	case OpNotEq:
		return a != b
	}
	return false
}

// #endregion ops

// #region nodes

// Expr is a node in the restricted formula AST.
type Expr interface {
	exprNode()
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

// BoolLit is a true/false literal (evaluates to 1.0/0.0).
type BoolLit struct {
	Value bool
}

// Ident is a variable reference (nominal, reading, ref1..ref12, val1..val12).
type Ident struct {
	Name string
}

// UnaryExpr is +x or -x.
type UnaryExpr struct {
	Op UnaryOp
	X  Expr
}

// BinaryExpr is a binary arithmetic expression.
type BinaryExpr struct {
	Op   BinaryOp
	X, Y Expr
}

// CompareExpr is a (possibly chained) comparison: X Ops[0] Ys[0] Ops[1] Ys[1]...
// A chain like a < b < c short-circuits pairwise, matching spreadsheet-style
// reading of the original formulas.
type CompareExpr struct {
	X   Expr
	Ops []CompareOp
	Ys  []Expr
}

// CallExpr is a call whose callee is a bare identifier in the function
// registry. Name keeps the author's spelling; lookup is case-insensitive.
type CallExpr struct {
	Name string
	Args []Expr
}

// ListLit is a bracketed list literal. Only the statistics functions accept
// lists; the evaluator rejects a list anywhere else.
type ListLit struct {
	Elems []Expr
}

func (*NumberLit) exprNode()   {}
func (*BoolLit) exprNode()     {}
func (*Ident) exprNode()       {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*CompareExpr) exprNode() {}
func (*CallExpr) exprNode()    {}
func (*ListLit) exprNode()     {}

// #endregion nodes

// #region walk

// Walk calls fn on e and every sub-expression, depth first.
func Walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *UnaryExpr:
		Walk(n.X, fn)
	case *BinaryExpr:
		Walk(n.X, fn)
		Walk(n.Y, fn)
	case *CompareExpr:
		Walk(n.X, fn)
		for _, y := range n.Ys {
			Walk(y, fn)
		}
	case *CallExpr:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *ListLit:
		for _, el := range n.Elems {
			Walk(el, fn)
		}
	}
}

// ContainsComparison reports whether any node in the tree is a comparison.
// Equation-type tolerances use this to pick condition mode over band mode.
func ContainsComparison(e Expr) bool {
	found := false
	Walk(e, func(n Expr) {
		if _, ok := n.(*CompareExpr); ok {
			found = true
		}
	})
	return found
}

// #endregion walk
