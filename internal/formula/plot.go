package formula

import (
	"fmt"
	"strings"
)

// PLOT shares the formula grammar but is consumed by an external chart
// renderer; the engine only validates the call shape and extracts the
// coordinate variable names/values.

// #region parse-plot

// ParsePlot validates PLOT([x1, x2, ...], [y1, y2, ...]) and returns the X
// and Y variable name lists. The lists must be the same length, name only
// allowed variables, and carry between 1 and 12 names in total.
func ParsePlot(text string) (xNames, yNames []string, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("plot equation is empty: %w", ErrEmptyEquation)
	}
	e, err := Parse(text)
	if err != nil {
		return nil, nil, err
	}
	call, ok := e.(*CallExpr)
	if !ok || strings.ToLower(call.Name) != "plot" {
		return nil, nil, fmt.Errorf("plot must be PLOT([x1, x2, ...], [y1, y2, ...])")
	}
	if len(call.Args) != 2 {
		return nil, nil, fmt.Errorf("PLOT requires two arguments: [x values], [y values]")
	}
	xNames, err = plotNameList(call.Args[0])
	if err != nil {
		return nil, nil, err
	}
	yNames, err = plotNameList(call.Args[1])
	if err != nil {
		return nil, nil, err
	}
	if len(xNames) != len(yNames) {
		return nil, nil, fmt.Errorf("PLOT X and Y lists must have the same length")
	}
	total := len(xNames) + len(yNames)
	if total == 0 {
		return nil, nil, fmt.Errorf("PLOT must have at least one point")
	}
	if total > 12 {
		return nil, nil, fmt.Errorf("PLOT allows at most 12 variables total (x count + y count)")
	}
	for _, n := range append(append([]string{}, xNames...), yNames...) {
		if !AllowedVariables[n] {
			return nil, nil, fmt.Errorf("unknown variable in PLOT: %s (use val1..val12 or ref1..ref12)", n)
		}
	}
	return xNames, yNames, nil
}

func plotNameList(arg Expr) ([]string, error) {
	list, ok := arg.(*ListLit)
	if !ok {
		return nil, fmt.Errorf("PLOT arguments must be lists, e.g. PLOT([val1, val2], [val3, val4])")
	}
	out := make([]string, 0, len(list.Elems))
	for _, el := range list.Elems {
		id, ok := el.(*Ident)
		if !ok {
			return nil, fmt.Errorf("PLOT lists must contain only variable names (val1, val2, ...)")
		}
		out = append(out, id.Name)
	}
	return out, nil
}

// #endregion parse-plot

// #region evaluate-plot

// EvaluatePlot resolves the PLOT variable names against vars and returns the
// X and Y coordinate values for charting. Every named variable must be bound.
func EvaluatePlot(text string, vars Vars) (xs, ys []float64, err error) {
	v := vars.WithAliases()
	xNames, yNames, err := ParsePlot(text)
	if err != nil {
		return nil, nil, err
	}
	resolve := func(names []string) ([]float64, error) {
		out := make([]float64, len(names))
		for i, n := range names {
			val, ok := v[n]
			if !ok {
				return nil, fmt.Errorf("%w: %q (needed for plot)", ErrUnknownVariable, n)
			}
			out[i] = val
		}
		return out, nil
	}
	if xs, err = resolve(xNames); err != nil {
		return nil, nil, err
	}
	if ys, err = resolve(yNames); err != nil {
		return nil, nil, err
	}
	return xs, ys, nil
}

// #endregion evaluate-plot
