package computed

import (
	"fmt"
	"math"
	"strings"

	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
	"github.com/calibtrack/calibtrack/go-engine/internal/template"
	"github.com/calibtrack/calibtrack/go-engine/internal/tolerance"
	"github.com/calibtrack/calibtrack/go-engine/internal/vars"
)

// #region resolver

// Resolver derives computed-field values from a field's calc_type, its named
// refs, and the sibling values in scope. Outputs are display strings ready
// for storage; blank means "not yet computable", which callers must keep
// distinct from "computed to zero".
type Resolver struct {
	vars *vars.Resolver
}

// NewResolver wraps a variable resolver scoped to the fields the computed
// field may reference.
func NewResolver(vr *vars.Resolver) *Resolver {
	return &Resolver{vars: vr}
}

// #endregion resolver

// #region resolve

// Resolve produces the stored value text for a computed field. Two-ref kinds
// go blank when either side is missing or non-numeric; the multi-ref kinds
// need at least two resolvable refs. CUSTOM_EQUATION renders a decomposed
// comparison when the equation is comparison-shaped, otherwise Pass/Fail by
// the >= 0.5 convention.
func (c *Resolver) Resolve(f template.Field, values map[string]string) string {
	switch Type(f.CalcType) {
	case TypeAbsDiff:
		a, b, ok := c.pair(f, values)
		if !ok {
			return ""
		}
		return fixed3(math.Abs(a - b))

	case TypePctError:
		// ref1 = measured, ref2 = reference
		a, b, ok := c.pair(f, values)
		if !ok || b == 0 {
			return ""
		}
		return fixed3(math.Abs(a-b) / math.Abs(b) * 100.0)

	case TypePctDiff:
		// order-independent: |a-b| over the mean of a and b
		a, b, ok := c.pair(f, values)
		if !ok || a+b == 0 {
			return ""
		}
		return fixed3(200.0 * math.Abs(a-b) / (a + b))

	case TypeMinOf, TypeMaxOf, TypeRangeOf:
		nums := c.refNumbers(f, values)
		if len(nums) < 2 {
			return ""
		}
		lo, hi := nums[0], nums[0]
		for _, n := range nums[1:] {
			lo = math.Min(lo, n)
			hi = math.Max(hi, n)
		}
		switch Type(f.CalcType) {
		case TypeMinOf:
			return fixed3(lo)
		case TypeMaxOf:
			return fixed3(hi)
		default:
			return fixed3(hi - lo)
		}

	case TypeCustomEquation:
		return c.customEquation(f, values)
	}
	return ""
}

func (c *Resolver) pair(f template.Field, values map[string]string) (float64, float64, bool) {
	a, okA := c.vars.Numeric(f.Ref(1), values)
	b, okB := c.vars.Numeric(f.Ref(2), values)
	return a, b, okA && okB
}

func (c *Resolver) refNumbers(f template.Field, values map[string]string) []float64 {
	var nums []float64
	for i := 1; i <= template.MaxCalcRefs; i++ {
		ref := f.Ref(i)
		if ref == "" {
			continue
		}
		if n, ok := c.vars.Numeric(ref, values); ok {
			nums = append(nums, n)
		}
	}
	return nums
}

func fixed3(v float64) string {
	return formula.FormatCalculation(v, 0, 3)
}

// #endregion resolve

// #region custom-equation

// customEquation evaluates a CUSTOM_EQUATION field. Incomplete bindings
// store blank; an evaluation failure on complete bindings stores "Fail".
func (c *Resolver) customEquation(f template.Field, values map[string]string) string {
	eq := strings.TrimSpace(f.ToleranceEquation)
	if eq == "" {
		return ""
	}
	v := c.vars.Build(f, eq, values)
	if len(vars.MissingVariables(eq, v)) > 0 {
		return ""
	}
	if cmp := tolerance.Decompose(eq, v); cmp != nil {
		dec := formula.DecimalsForField(f.SigFigs)
		return fmt.Sprintf("%s %s %s, %s",
			formula.FormatCalculation(cmp.LHS, 0, dec),
			cmp.Op,
			formula.FormatCalculation(cmp.RHS, 0, dec),
			passFailWord(cmp.Pass))
	}
	val, err := formula.EvaluateEquation(eq, v)
	if err != nil {
		return "Fail"
	}
	if val >= 0.5 {
		return "Pass"
	}
	return "Fail"
}

func passFailWord(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}

// #endregion custom-equation

// #region derived-fields

// ResolveConvert evaluates a convert-type field's equation against its refs,
// formatted per the field's sig_figs. Any parse/eval failure yields blank.
func (c *Resolver) ResolveConvert(f template.Field, values map[string]string) string {
	eq := strings.TrimSpace(f.ToleranceEquation)
	if eq == "" {
		return ""
	}
	v := c.vars.Build(f, eq, values)
	val, err := formula.EvaluateEquation(eq, v)
	if err != nil {
		return ""
	}
	return formula.FormatCalculation(val, 0, formula.DecimalsForField(f.SigFigs))
}

// ResolveStat is ResolveConvert for stat-type fields; the difference is
// caller-side scope (stat fields see sibling values from every group), not
// evaluation.
func (c *Resolver) ResolveStat(f template.Field, values map[string]string) string {
	return c.ResolveConvert(f, values)
}

// #endregion derived-fields
