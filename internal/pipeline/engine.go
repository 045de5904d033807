package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/calibtrack/calibtrack/go-engine/internal/computed"
	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
	"github.com/calibtrack/calibtrack/go-engine/internal/template"
	"github.com/calibtrack/calibtrack/go-engine/internal/tolerance"
	"github.com/calibtrack/calibtrack/go-engine/internal/vars"
)

// #region results

// FieldResult is one field's pass/fail outcome inside a record evaluation.
type FieldResult struct {
	FieldID       string
	Name          string
	Pass          bool
	ToleranceUsed float64
	Explanation   string

	// Comparison is set when the field's equation decomposed into a single
	// displayable comparison.
	Comparison *tolerance.Comparison

	// Value is the field's final stored text after computation.
	Value string
}

// RecordResult is the outcome of evaluating a whole record: the overall
// pass/fail, per-field results for every tolerance-bearing field, and the
// final value set (computed fields filled in), keyed by field ID.
type RecordResult struct {
	Pass   bool
	Fields []FieldResult
	Values map[string]string
}

// #endregion results

// #region engine

// Engine evaluates one record against a template's fields: fills computed,
// convert, and stat values, then checks every tolerance-bearing field. It is
// stateless between calls; formulas are re-parsed from stored text on every
// evaluation.
type Engine struct {
	fields []template.Field
}

// New creates an engine over a template's fields.
func New(fields []template.Field) *Engine {
	return &Engine{fields: fields}
}

// #endregion engine

// #region scoping

// valuesByName maps field names to their current value text, restricted to
// the scope the target field sees: its own group, or every group for
// stat/plot fields. Display-only fields still contribute — a convert output
// is a legitimate input to a stat field.
func (e *Engine) valuesByName(target template.Field, values map[string]string) map[string]string {
	allGroups := target.DataType == template.DataStat || target.DataType == template.DataPlot
	out := map[string]string{}
	for _, f := range e.fields {
		if !allGroups && f.Group != target.Group {
			continue
		}
		if v, ok := values[f.ID]; ok && v != "" {
			out[f.Name] = v
		}
	}
	return out
}

// scopedResolver builds a variable resolver over the fields the target sees.
func (e *Engine) scopedResolver(target template.Field) *vars.Resolver {
	allGroups := target.DataType == template.DataStat || target.DataType == template.DataPlot
	if allGroups {
		return vars.NewResolver(e.fields)
	}
	var scoped []template.Field
	for _, f := range e.fields {
		if f.Group == target.Group {
			scoped = append(scoped, f)
		}
	}
	return vars.NewResolver(scoped)
}

// #endregion scoping

// #region apply-computations

// ApplyComputations fills derived values in place: calc-type fields first,
// then convert fields, then stat fields, so stat formulas can reference the
// outputs of the earlier phases. values is keyed by field ID.
func (e *Engine) ApplyComputations(values map[string]string) {
	for _, f := range e.fields {
		if f.CalcType == "" {
			continue
		}
		r := computed.NewResolver(e.scopedResolver(f))
		values[f.ID] = r.Resolve(f, e.valuesByName(f, values))
	}
	for _, f := range e.fields {
		if f.DataType != template.DataConvert {
			continue
		}
		r := computed.NewResolver(e.scopedResolver(f))
		values[f.ID] = r.ResolveConvert(f, e.valuesByName(f, values))
	}
	for _, f := range e.fields {
		if f.DataType != template.DataStat {
			continue
		}
		r := computed.NewResolver(e.scopedResolver(f))
		values[f.ID] = r.ResolveStat(f, e.valuesByName(f, values))
	}
}

// #endregion apply-computations

// #region evaluate-record

// EvaluateRecord runs the full pipeline: computations, then pass/fail on
// every tolerance-bearing field. The input map is not mutated.
func (e *Engine) EvaluateRecord(values map[string]string) RecordResult {
	working := make(map[string]string, len(values))
	for k, v := range values {
		working[k] = v
	}
	e.ApplyComputations(working)

	res := RecordResult{Pass: true, Values: working}
	for _, f := range e.fields {
		fr, ok := e.checkField(f, working)
		if !ok {
			continue
		}
		if !fr.Pass {
			res.Pass = false
		}
		res.Fields = append(res.Fields, fr)
	}
	return res
}

// checkField evaluates one field's tolerance, reporting ok=false when the
// field carries no tolerance or has no checkable value yet.
func (e *Engine) checkField(f template.Field, values map[string]string) (FieldResult, bool) {
	switch {
	case isNumericCalc(f.CalcType):
		return e.checkComputed(f, values)
	case computed.Type(f.CalcType) == computed.TypeCustomEquation:
		return e.checkCustomEquation(f, values)
	case f.DataType == template.DataBool && tolerance.Type(f.ToleranceType) == tolerance.TypeBool:
		return e.checkBool(f, values)
	case f.CalcType == "" && !f.DataType.DisplayOnly() && f.DataType != template.DataBool:
		return e.checkPlain(f, values)
	}
	return FieldResult{}, false
}

func isNumericCalc(calcType string) bool {
	switch computed.Type(calcType) {
	case computed.TypeAbsDiff, computed.TypePctError, computed.TypePctDiff,
		computed.TypeMinOf, computed.TypeMaxOf, computed.TypeRangeOf:
		return true
	}
	return false
}

// #endregion evaluate-record

// #region field-checks

// checkComputed treats the computed value's magnitude as the reading against
// a zero nominal, the convention numeric calc fields use: the derived
// quantity is itself the deviation being tolerated.
func (e *Engine) checkComputed(f template.Field, values map[string]string) (FieldResult, bool) {
	if !hasTolerance(f) {
		return FieldResult{}, false
	}
	valText := values[f.ID]
	if valText == "" {
		return FieldResult{}, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(valText), 64)
	if err != nil {
		return FieldResult{}, false
	}
	diff := math.Abs(n)

	r := e.scopedResolver(f)
	v := r.Build(f, f.ToleranceEquation, e.valuesByName(f, values))
	v["reading"] = diff
	v = v.WithAliases()

	tr := tolerance.EvaluatePassFail(tolerance.Type(f.ToleranceType), f.ToleranceFixed,
		f.ToleranceEquation, 0.0, diff, v, f.ToleranceLookupJSON)
	return fieldResult(f, tr, valText, nil), true
}

// checkCustomEquation re-runs the stored formula as a condition; the stored
// display string already encodes the outcome, but pass/fail derives from the
// formula, never from re-parsing display text.
func (e *Engine) checkCustomEquation(f template.Field, values map[string]string) (FieldResult, bool) {
	eq := strings.TrimSpace(f.ToleranceEquation)
	if eq == "" {
		return FieldResult{}, false
	}
	r := e.scopedResolver(f)
	byName := e.valuesByName(f, values)
	v := r.Build(f, eq, byName)
	if len(vars.MissingVariables(eq, v)) > 0 {
		return FieldResult{}, false
	}

	cmp := tolerance.Decompose(eq, v)
	val, err := formula.EvaluateEquation(eq, v)
	if err != nil {
		return fieldResult(f, tolerance.Result{Explanation: "Equation error: " + err.Error()}, values[f.ID], nil), true
	}
	pass := val >= 0.5
	tr := tolerance.Result{
		Pass:          pass,
		ToleranceUsed: val,
		Explanation:   "Equation (condition) pass when >= 0.5",
	}
	return fieldResult(f, tr, values[f.ID], cmp), true
}

func (e *Engine) checkBool(f template.Field, values map[string]string) (FieldResult, bool) {
	valText, ok := values[f.ID]
	if !ok {
		return FieldResult{}, false
	}
	reading := 0.0
	if vars.ParseBool(valText) {
		reading = 1.0
	}
	tr := tolerance.EvaluatePassFail(tolerance.TypeBool, nil, f.ToleranceEquation,
		0.0, reading, nil, "")
	return fieldResult(f, tr, valText, nil), true
}

// checkPlain handles user-entered fields with fixed/percent/equation/lookup
// tolerance: reading from the field's own value (unit-stripped), nominal
// from nominal_value, refs bound from siblings.
func (e *Engine) checkPlain(f template.Field, values map[string]string) (FieldResult, bool) {
	if !hasTolerance(f) {
		return FieldResult{}, false
	}
	valText := values[f.ID]
	if valText == "" {
		return FieldResult{}, false
	}
	reading, ok := vars.ParseNumeric(valText, f.Unit)
	if !ok {
		return FieldResult{}, false
	}
	nominal := 0.0
	if n, nok := vars.ParseNumeric(f.NominalValue, ""); nok {
		nominal = n
	}

	r := e.scopedResolver(f)
	v := r.Build(f, f.ToleranceEquation, e.valuesByName(f, values))
	v["nominal"] = nominal
	v["reading"] = reading
	v = v.WithAliases()

	tr := tolerance.EvaluatePassFail(tolerance.Type(f.ToleranceType), f.ToleranceFixed,
		f.ToleranceEquation, nominal, reading, v, f.ToleranceLookupJSON)

	var cmp *tolerance.Comparison
	if tolerance.Type(f.ToleranceType) == tolerance.TypeEquation && strings.TrimSpace(f.ToleranceEquation) != "" {
		cmp = tolerance.Decompose(f.ToleranceEquation, v)
	}
	return fieldResult(f, tr, valText, cmp), true
}

func hasTolerance(f template.Field) bool {
	if f.ToleranceFixed != nil || strings.TrimSpace(f.ToleranceEquation) != "" {
		return true
	}
	switch tolerance.Type(f.ToleranceType) {
	case tolerance.TypePercent, tolerance.TypeEquation, tolerance.TypeLookup, tolerance.TypeBool:
		return true
	}
	return false
}

func fieldResult(f template.Field, tr tolerance.Result, value string, cmp *tolerance.Comparison) FieldResult {
	return FieldResult{
		FieldID:       f.ID,
		Name:          f.Name,
		Pass:          tr.Pass,
		ToleranceUsed: tr.ToleranceUsed,
		Explanation:   tr.Explanation,
		Comparison:    cmp,
		Value:         value,
	}
}

// #endregion field-checks
