package vars

import (
	"strconv"
	"strings"

	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
	"github.com/calibtrack/calibtrack/go-engine/internal/template"
)

// #region resolver

// Resolver builds the name→value bindings for one field's formula from its
// sibling values. It is rebuilt per evaluation and never mutates the
// template fields or the record values it reads.
type Resolver struct {
	fields []template.Field
}

// NewResolver creates a resolver over the template fields in scope.
func NewResolver(fields []template.Field) *Resolver {
	return &Resolver{fields: fields}
}

// #endregion resolver

// #region field-matching

// fieldFor matches a calc_ref name to a template field: exact field name
// first, then label, case-insensitively.
func (r *Resolver) fieldFor(refName string) *template.Field {
	ref := strings.ToLower(strings.TrimSpace(refName))
	if ref == "" {
		return nil
	}
	for i := range r.fields {
		if strings.ToLower(strings.TrimSpace(r.fields[i].Name)) == ref {
			return &r.fields[i]
		}
	}
	for i := range r.fields {
		if strings.ToLower(strings.TrimSpace(r.fields[i].Label)) == ref {
			return &r.fields[i]
		}
	}
	return nil
}

// UnitFor returns the configured unit of the field matching refName, or "".
func (r *Resolver) UnitFor(refName string) string {
	if f := r.fieldFor(refName); f != nil {
		return strings.TrimSpace(f.Unit)
	}
	return ""
}

// Value resolves a calc_ref name to the matched sibling's raw value text.
func (r *Resolver) Value(refName string, values map[string]string) (string, bool) {
	f := r.fieldFor(refName)
	if f == nil {
		return "", false
	}
	v, ok := values[f.Name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Numeric resolves a calc_ref name to a float, stripping the matched
// field's unit suffix before parsing.
func (r *Resolver) Numeric(refName string, values map[string]string) (float64, bool) {
	f := r.fieldFor(refName)
	if f == nil {
		return 0, false
	}
	v, ok := values[f.Name]
	if !ok {
		return 0, false
	}
	return ParseNumeric(v, strings.TrimSpace(f.Unit))
}

// #endregion field-matching

// #region coercion

// ParseNumeric parses value text as a float, stripping a trailing unit
// (e.g. "122.0 °F" with unit "°F" → 122.0).
func ParseNumeric(valText, unit string) (float64, bool) {
	s := strings.TrimSpace(valText)
	if s == "" {
		return 0, false
	}
	u := strings.TrimSpace(unit)
	if u != "" && strings.HasSuffix(s, u) {
		s = strings.TrimSpace(s[:len(s)-len(u)])
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseBool coerces stored value text to a bool: "1", "true", "yes", or any
// non-zero number mean true.
func ParseBool(valText string) bool {
	s := strings.ToLower(strings.TrimSpace(valText))
	switch s {
	case "1", "true", "yes":
		return true
	case "", "0", "false", "no":
		return false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0
	}
	return false
}

// #endregion coercion

// #region build

// Build produces the VariableMap for evaluating f's equation against the
// sibling values. nominal and reading always bind (default 0); ref1..ref12
// bind only where the named sibling resolves to a number, so a missing
// reference stays absent rather than silently reading as zero. If the
// equation references "reading" and ref1 resolves, ref1 supplies the
// reading.
func (r *Resolver) Build(f template.Field, equation string, values map[string]string) formula.Vars {
	v := formula.Vars{"nominal": 0.0, "reading": 0.0}
	if n, ok := ParseNumeric(f.NominalValue, ""); ok {
		v["nominal"] = n
	}
	for i := 1; i <= template.MaxCalcRefs; i++ {
		ref := f.Ref(i)
		if ref == "" {
			continue
		}
		if n, ok := r.Numeric(ref, values); ok {
			v["ref"+strconv.Itoa(i)] = n
		}
	}
	if equation != "" && referencesReading(equation) {
		if n, ok := v["ref1"]; ok {
			v["reading"] = n
		}
	}
	return v.WithAliases()
}

func referencesReading(equation string) bool {
	for _, name := range formula.ListVariables(equation) {
		if name == "reading" {
			return true
		}
	}
	return false
}

// MissingVariables returns the equation's variables that have no binding.
// Callers check completeness before evaluating so "not yet computable" is
// distinguishable from "computed to zero".
func MissingVariables(equation string, v formula.Vars) []string {
	var missing []string
	for _, name := range formula.ListVariables(equation) {
		if _, ok := v[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// #endregion build
