package formula

import (
	"fmt"
	"math"
	"strings"
)

// #region vars

// Vars is the name→value binding set available to a formula at evaluation
// time. It is ephemeral: rebuilt per evaluation, never shared or mutated
// across calls.
type Vars map[string]float64

// WithAliases returns a copy where ref1..ref12 and val1..val12 mirror each
// other; populating one key populates its alias.
func (v Vars) WithAliases() Vars {
	out := make(Vars, len(v)+4)
	for k, val := range v {
		out[k] = val
	}
	for i := 1; i <= 12; i++ {
		rk := fmt.Sprintf("ref%d", i)
		vk := fmt.Sprintf("val%d", i)
		rv, hasR := out[rk]
		vv, hasV := out[vk]
		switch {
		case hasR && !hasV:
			out[vk] = rv
		case hasV && !hasR:
			out[rk] = vv
		}
	}
	return out
}

// #endregion vars

// #region evaluate

// Evaluate walks the AST with the given bindings and produces a float.
// Comparisons evaluate to 1.0/0.0. Errors wrap ErrUnknownVariable,
// ErrDivisionByZero, or describe a function arity/argument problem.
func Evaluate(e Expr, vars Vars) (float64, error) {
	switch n := e.(type) {
	case *NumberLit:
		return n.Value, nil

	case *BoolLit:
		if n.Value {
			return 1.0, nil
		}
		return 0.0, nil

	case *Ident:
		v, ok := vars[n.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, n.Name)
		}
		return v, nil

	case *UnaryExpr:
		x, err := Evaluate(n.X, vars)
		if err != nil {
			return 0, err
		}
		if n.Op == OpNeg {
			return -x, nil
		}
		return x, nil

	case *BinaryExpr:
		return evalBinary(n, vars)

	case *CompareExpr:
		return evalCompare(n, vars)

	case *CallExpr:
		return evalCall(n, vars)

	case *ListLit:
		return 0, fmt.Errorf("list literals are only allowed inside LINEST, INTERCEPT, RSQ, CORREL, STDEV, STDEVP, MEDIAN")
	}
	return 0, fmt.Errorf("unsupported expression %T", e)
}

func evalBinary(n *BinaryExpr, vars Vars) (float64, error) {
	x, err := Evaluate(n.X, vars)
	if err != nil {
		return 0, err
	}
	y, err := Evaluate(n.Y, vars)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x / y, nil
	case OpFloorDiv:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return math.Floor(x / y), nil
	case OpMod:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		// floored modulo: result takes the divisor's sign
		return x - math.Floor(x/y)*y, nil
	case OpPow:
		if x == 0 && y < 0 {
			return 0, fmt.Errorf("%w: 0 raised to a negative power", ErrDivisionByZero)
		}
		r := math.Pow(x, y)
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return 0, fmt.Errorf("power result out of range: %g^%g", x, y)
		}
		return r, nil
	}
	return 0, fmt.Errorf("disallowed operator %q", n.Op.Symbol())
}

// evalCompare short-circuits a chain pairwise: a < b < c is (a<b) and (b<c).
func evalCompare(n *CompareExpr, vars Vars) (float64, error) {
	left, err := Evaluate(n.X, vars)
	if err != nil {
		return 0, err
	}
	for i, op := range n.Ops {
		right, err := Evaluate(n.Ys[i], vars)
		if err != nil {
			return 0, err
		}
		if !op.Apply(left, right) {
			return 0.0, nil
		}
		left = right
	}
	return 1.0, nil
}

func evalCall(n *CallExpr, vars Vars) (float64, error) {
	name := strings.ToLower(n.Name)

	if fn, ok := twoListFuncs[name]; ok {
		if len(n.Args) != 2 {
			return 0, fmt.Errorf("%s requires two arguments: [known_y's], [known_x's]", strings.ToUpper(name))
		}
		ys, err := evalListArg(name, n.Args[0], vars)
		if err != nil {
			return 0, err
		}
		xs, err := evalListArg(name, n.Args[1], vars)
		if err != nil {
			return 0, err
		}
		return fn(ys, xs), nil
	}

	if fn, ok := oneListFuncs[name]; ok {
		if len(n.Args) != 1 {
			return 0, fmt.Errorf("%s requires one argument: [val1, val2, ...]", strings.ToUpper(name))
		}
		vals, err := evalListArg(name, n.Args[0], vars)
		if err != nil {
			return 0, err
		}
		return fn(vals), nil
	}

	spec, ok := scalarFuncs[name]
	if !ok {
		return 0, fmt.Errorf("disallowed function: %s", n.Name)
	}
	if len(n.Args) < spec.minArgs || (spec.maxArgs >= 0 && len(n.Args) > spec.maxArgs) {
		return 0, fmt.Errorf("wrong number of arguments for %s: got %d", strings.ToUpper(name), len(n.Args))
	}
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := Evaluate(a, vars)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return spec.call(args), nil
}

// evalListArg requires a list-literal argument and evaluates its elements.
func evalListArg(funcName string, arg Expr, vars Vars) ([]float64, error) {
	list, ok := arg.(*ListLit)
	if !ok {
		return nil, fmt.Errorf("%s arguments must be lists, e.g. %s([val1,val2], ...)",
			strings.ToUpper(funcName), strings.ToUpper(funcName))
	}
	out := make([]float64, len(list.Elems))
	for i, el := range list.Elems {
		v, err := Evaluate(el, vars)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// #endregion evaluate

// #region evaluate-equation

// EvaluateEquation parses and evaluates formula text with ref/val aliasing
// applied. This is the entry point the tolerance dispatcher and computed
// fields use; formulas are re-parsed from stored text on every call.
func EvaluateEquation(text string, vars Vars) (float64, error) {
	e, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return Evaluate(e, vars.WithAliases())
}

// #endregion evaluate-equation
