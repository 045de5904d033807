package tolerance

import (
	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
)

// #region decompose

// Decompose splits a comparison-shaped equation into its two operands,
// evaluated independently, so display code can render "6.75 <= 6.86, PASS"
// instead of a bare 1.0/0.0. Only a single top-level comparison qualifies:
// chained comparisons, non-comparisons, and anything that fails to parse or
// evaluate return nil, and callers fall back to the opaque form.
func Decompose(equation string, v formula.Vars) *Comparison {
	expr, err := formula.Parse(equation)
	if err != nil {
		return nil
	}
	cmp, ok := expr.(*formula.CompareExpr)
	if !ok || len(cmp.Ops) != 1 {
		return nil
	}
	bound := v.WithAliases()
	lhs, err := formula.Evaluate(cmp.X, bound)
	if err != nil {
		return nil
	}
	rhs, err := formula.Evaluate(cmp.Ys[0], bound)
	if err != nil {
		return nil
	}
	return &Comparison{
		LHS:  lhs,
		Op:   cmp.Ops[0].Symbol(),
		RHS:  rhs,
		Pass: cmp.Ops[0].Apply(lhs, rhs),
	}
}

// #endregion decompose
