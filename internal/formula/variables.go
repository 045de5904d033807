package formula

import (
	"fmt"
	"strings"
)

// #region allowed-variables

// AllowedVariables is the closed set of identifiers a template equation may
// reference; val1..val12 are aliases for ref1..ref12.
var AllowedVariables = buildAllowedVariables()

func buildAllowedVariables() map[string]bool {
	m := map[string]bool{
		"nominal":     true,
		"reading":     true,
		"ref":         true,
		"value":       true,
		"abs_nominal": true,
	}
	for i := 1; i <= 12; i++ {
		m[fmt.Sprintf("ref%d", i)] = true
		m[fmt.Sprintf("val%d", i)] = true
	}
	return m
}

// #endregion allowed-variables

// #region list-variables

// ListVariables returns each identifier referenced by the equation exactly
// once, in first-occurrence order. Names used only as function callees are
// excluded. Unparsable input yields nil (authoring-time callers treat that
// as "no variables yet").
func ListVariables(text string) []string {
	e, err := Parse(text)
	if err != nil {
		return nil
	}
	var names []string
	seen := map[string]bool{}
	Walk(e, func(n Expr) {
		id, ok := n.(*Ident)
		if !ok {
			return
		}
		// a bare identifier spelled like a registry function is still a
		// function name to the author, never a variable
		if isFunctionName(strings.ToLower(id.Name)) {
			return
		}
		if !seen[id.Name] {
			seen[id.Name] = true
			names = append(names, id.Name)
		}
	})
	return names
}

// ValidateVariables checks that every variable in the equation is in
// AllowedVariables and every callee is a registry function. Returns
// (all_ok, unknown names). Unparsable input reports ok; the caller's Parse
// surfaces the syntax error.
func ValidateVariables(text string) (bool, []string) {
	e, err := Parse(text)
	if err != nil {
		return true, nil
	}
	var unknown []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			unknown = append(unknown, name)
		}
	}
	Walk(e, func(n Expr) {
		switch node := n.(type) {
		case *Ident:
			if isFunctionName(strings.ToLower(node.Name)) {
				return
			}
			if !AllowedVariables[node.Name] {
				add(node.Name)
			}
		case *CallExpr:
			if !isFunctionName(strings.ToLower(node.Name)) {
				add(node.Name)
			}
		}
	})
	return len(unknown) == 0, unknown
}

// #endregion list-variables

// #region has-comparison

// HasComparison reports whether the equation contains a comparison operator
// anywhere. Equation-type tolerances must express a pass/fail condition, so
// template save paths refuse equations where this is false; stat-type fields
// are exempt.
func HasComparison(text string) bool {
	e, err := Parse(text)
	if err != nil {
		return false
	}
	return ContainsComparison(e)
}

// #endregion has-comparison
