package tolerance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
)

// #region evaluate-pass-fail

// EvaluatePassFail decides pass/fail and the tolerance value actually used
// for a single point. It is total: evaluation failures inside an equation
// convert to pass=false with the error text as explanation, because a
// calibration record must always render something — one malformed field
// must not crash a report.
//
// fixed may be nil (legacy records with no tolerance column). extraVars
// carries ref1..ref12 bindings for equation-type tolerances and may be nil.
func EvaluatePassFail(typ Type, fixed *float64, equation string, nominal, reading float64, extraVars formula.Vars, lookupJSON string) Result {
	v := formula.Vars{}
	for k, val := range extraVars {
		v[k] = val
	}
	if _, ok := v["nominal"]; !ok {
		v["nominal"] = nominal
	}
	if _, ok := v["reading"]; !ok {
		v["reading"] = reading
	}
	v = v.WithAliases()

	switch typ {
	case TypeBool:
		return evalBool(equation, reading)

	case TypePercent:
		return evalPercent(fixed, nominal, reading)

	case TypeEquation:
		if strings.TrimSpace(equation) != "" {
			return evalEquation(equation, nominal, reading, v)
		}

	case TypeLookup:
		if strings.TrimSpace(lookupJSON) != "" {
			return evalLookup(lookupJSON, nominal, reading)
		}

	case TypeNone, TypeFixed:
		// fall through to the fixed/legacy branch
	}

	// fixed or legacy (no tolerance_type and the tolerance column used)
	tol := 0.0
	if fixed != nil {
		tol = *fixed
	}
	diff := math.Abs(reading - nominal)
	pass := diff <= tol
	return Result{
		Pass:          pass,
		ToleranceUsed: tol,
		Explanation:   fmt.Sprintf("Tolerance = %s; diff = %s → %s", num(tol), num(diff), passFail(pass)),
	}
}

// #endregion evaluate-pass-fail

// #region bool-branch

// evalBool passes when the reading matches the configured pass state.
// equation holds the literal "true" or "false" naming the passing state;
// tolerance_used is always 0.
func evalBool(equation string, reading float64) Result {
	passWhen := strings.TrimSpace(strings.ToLower(equation))
	if passWhen == "" {
		passWhen = "true"
	}
	passWhenTrue := passWhen == "true"
	readingBool := reading != 0.0
	pass := readingBool == passWhenTrue
	return Result{
		Pass: pass,
		Explanation: fmt.Sprintf("Pass when value is %s; value is %s → %s",
			boolWord(passWhenTrue), boolWord(readingBool), passFail(pass)),
	}
}

// #endregion bool-branch

// #region percent-branch

// evalPercent uses tolerance_used = |nominal| × pct/100. A zero nominal
// forces tolerance_used to 0, so only an exact match passes — preserved
// source behavior, documented hazard.
func evalPercent(fixed *float64, nominal, reading float64) Result {
	pct := 0.0
	if fixed != nil {
		pct = *fixed
	}
	tol := 0.0
	if nominal != 0 {
		tol = math.Abs(nominal) * (pct / 100.0)
	}
	diff := math.Abs(reading - nominal)
	pass := diff <= tol
	return Result{
		Pass:          pass,
		ToleranceUsed: tol,
		Explanation: fmt.Sprintf("Tolerance = %s%% of |nominal| = %s; |reading − nominal| = %s → %s",
			num(pct), num(tol), num(diff), passFail(pass)),
	}
}

// #endregion percent-branch

// #region equation-branch

// evalEquation handles equation-type tolerance. A comparison-shaped formula
// is a direct condition (pass iff result ≥ 0.5); anything else is a
// symmetric tolerance band compared against |reading − nominal|.
func evalEquation(equation string, nominal, reading float64, v formula.Vars) Result {
	expr, err := formula.Parse(equation)
	if err != nil {
		return equationError(err)
	}
	val, err := formula.Evaluate(expr, v)
	if err != nil {
		return equationError(err)
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return Result{Explanation: fmt.Sprintf("Equation error: result %s is not a finite number", num(val))}
	}
	diff := math.Abs(reading - nominal)

	if formula.ContainsComparison(expr) {
		pass := val >= 0.5
		return Result{
			Pass:          pass,
			ToleranceUsed: val,
			Explanation: fmt.Sprintf("Equation (condition) = %s (pass when >= 0.5) → %s",
				num(val), passFail(pass)),
		}
	}

	pass := diff <= val
	return Result{
		Pass:          pass,
		ToleranceUsed: val,
		Explanation: fmt.Sprintf("Tolerance (from equation) = %s; |reading − nominal| = %s → %s",
			num(val), num(diff), passFail(pass)),
	}
}

func equationError(err error) Result {
	if errors.Is(err, formula.ErrDivisionByZero) {
		return Result{Explanation: "Division by zero in equation → FAIL"}
	}
	return Result{Explanation: fmt.Sprintf("Equation error: %v", err)}
}

// #endregion equation-branch

// #region lookup-branch

func evalLookup(lookupJSON string, nominal, reading float64) Result {
	tol := ResolveLookup(lookupJSON, nominal)
	diff := math.Abs(reading - nominal)
	pass := diff <= tol
	return Result{
		Pass:          pass,
		ToleranceUsed: tol,
		Explanation: fmt.Sprintf("Tolerance (from lookup) = %s; |reading − nominal| = %s → %s",
			num(tol), num(diff), passFail(pass)),
	}
}

// #endregion lookup-branch

// #region helpers

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func passFail(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}

func boolWord(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// #endregion helpers
