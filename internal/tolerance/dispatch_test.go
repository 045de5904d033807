package tolerance

import (
	"strings"
	"testing"

	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
)

func fp(v float64) *float64 { return &v }

func TestPercentTolerance(t *testing.T) {
	r := EvaluatePassFail(TypePercent, fp(2.0), "", 100.0, 101.0, nil, "")
	if !r.Pass {
		t.Fatalf("expected pass: %s", r.Explanation)
	}
	if r.ToleranceUsed != 2.0 {
		t.Fatalf("tolerance used: got %v, want 2", r.ToleranceUsed)
	}

	r = EvaluatePassFail(TypePercent, fp(2.0), "", 100.0, 103.0, nil, "")
	if r.Pass {
		t.Fatalf("expected fail: %s", r.Explanation)
	}
}

func TestPercentToleranceZeroNominal(t *testing.T) {
	// zero nominal forces tolerance to 0: only an exact match passes
	r := EvaluatePassFail(TypePercent, fp(5.0), "", 0.0, 0.0, nil, "")
	if !r.Pass || r.ToleranceUsed != 0 {
		t.Fatalf("exact match at zero nominal: pass=%v tol=%v", r.Pass, r.ToleranceUsed)
	}
	r = EvaluatePassFail(TypePercent, fp(5.0), "", 0.0, 0.001, nil, "")
	if r.Pass {
		t.Fatal("expected fail for any deviation at zero nominal")
	}
}

func TestEquationToleranceBand(t *testing.T) {
	r := EvaluatePassFail(TypeEquation, nil, "0.02*abs(nominal)", 100.0, 101.0, nil, "")
	if !r.Pass {
		t.Fatalf("expected pass: %s", r.Explanation)
	}
	if r.ToleranceUsed != 2.0 {
		t.Fatalf("tolerance used: got %v, want 2", r.ToleranceUsed)
	}
}

func TestEquationToleranceConditionMode(t *testing.T) {
	// a comparison anywhere in the tree makes the equation a direct condition
	r := EvaluatePassFail(TypeEquation, nil, "abs(reading - nominal) <= 0.5", 100.0, 100.3, nil, "")
	if !r.Pass {
		t.Fatalf("expected pass: %s", r.Explanation)
	}
	r = EvaluatePassFail(TypeEquation, nil, "abs(reading - nominal) <= 0.5", 100.0, 101.0, nil, "")
	if r.Pass {
		t.Fatalf("expected fail: %s", r.Explanation)
	}
}

func TestEquationToleranceRefVariables(t *testing.T) {
	v := formula.Vars{"ref1": 0.5}
	r := EvaluatePassFail(TypeEquation, nil, "ref1 * 2", 10.0, 10.8, v, "")
	if !r.Pass {
		t.Fatalf("expected pass (band 1.0 vs diff 0.8): %s", r.Explanation)
	}
}

func TestEquationDivisionByZero(t *testing.T) {
	r := EvaluatePassFail(TypeEquation, nil, "1/0", 100.0, 100.0, nil, "")
	if r.Pass {
		t.Fatal("expected fail on division by zero")
	}
	if !strings.Contains(r.Explanation, "Division by zero") {
		t.Fatalf("explanation: %q", r.Explanation)
	}
}

func TestEquationErrorNeverPanics(t *testing.T) {
	r := EvaluatePassFail(TypeEquation, nil, "bogus_var + 1", 0, 0, nil, "")
	if r.Pass {
		t.Fatal("expected fail on unknown variable")
	}
	if !strings.Contains(r.Explanation, "Equation error") {
		t.Fatalf("explanation: %q", r.Explanation)
	}
}

func TestEmptyEquationFallsBackToFixed(t *testing.T) {
	r := EvaluatePassFail(TypeEquation, fp(0.5), "", 10.0, 10.3, nil, "")
	if !r.Pass || r.ToleranceUsed != 0.5 {
		t.Fatalf("expected fixed fallback pass with tol 0.5: pass=%v tol=%v", r.Pass, r.ToleranceUsed)
	}
}

func TestBoolTolerance(t *testing.T) {
	r := EvaluatePassFail(TypeBool, nil, "true", 0.0, 1.0, nil, "")
	if !r.Pass {
		t.Fatalf("expected pass: %s", r.Explanation)
	}
	r = EvaluatePassFail(TypeBool, nil, "true", 0.0, 0.0, nil, "")
	if r.Pass {
		t.Fatalf("expected fail: %s", r.Explanation)
	}

	// flipping pass_when inverts both
	r = EvaluatePassFail(TypeBool, nil, "false", 0.0, 1.0, nil, "")
	if r.Pass {
		t.Fatal("expected fail with pass_when=false, reading true")
	}
	r = EvaluatePassFail(TypeBool, nil, "false", 0.0, 0.0, nil, "")
	if !r.Pass {
		t.Fatal("expected pass with pass_when=false, reading false")
	}
}

func TestBoolToleranceDefaultsToTrue(t *testing.T) {
	r := EvaluatePassFail(TypeBool, nil, "", 0.0, 1.0, nil, "")
	if !r.Pass {
		t.Fatalf("empty pass_when should default to true: %s", r.Explanation)
	}
}

func TestLookupTolerance(t *testing.T) {
	lookup := `[{"range_low":0,"range_high":10,"tolerance":0.1},{"range_low":10,"range_high":100,"tolerance":0.5}]`
	r := EvaluatePassFail(TypeLookup, nil, "", 10.0, 10.05, nil, lookup)
	if !r.Pass {
		t.Fatalf("expected pass: %s", r.Explanation)
	}
	if r.ToleranceUsed != 0.1 {
		t.Fatalf("boundary nominal must hit the first matching row: got %v", r.ToleranceUsed)
	}
}

func TestFixedTolerance(t *testing.T) {
	r := EvaluatePassFail(TypeFixed, fp(0.5), "", 100.0, 100.5, nil, "")
	if !r.Pass {
		t.Fatalf("diff == tolerance must pass: %s", r.Explanation)
	}
	r = EvaluatePassFail(TypeFixed, fp(0.5), "", 100.0, 100.6, nil, "")
	if r.Pass {
		t.Fatal("expected fail beyond fixed tolerance")
	}
}

func TestLegacyNoTypeActsAsFixed(t *testing.T) {
	r := EvaluatePassFail(TypeNone, fp(1.0), "", 5.0, 5.8, nil, "")
	if !r.Pass || r.ToleranceUsed != 1.0 {
		t.Fatalf("legacy fixed: pass=%v tol=%v", r.Pass, r.ToleranceUsed)
	}
	r = EvaluatePassFail(TypeNone, nil, "", 5.0, 5.1, nil, "")
	if r.Pass {
		t.Fatal("no tolerance configured: only exact match passes")
	}
}

func TestEquationToleranceNonFiniteResultFails(t *testing.T) {
	// an overflowing band must not become an accept-everything tolerance
	r := EvaluatePassFail(TypeEquation, nil, "10^400", 100.0, 999999.0, nil, "")
	if r.Pass {
		t.Fatalf("expected fail: %s", r.Explanation)
	}
	if !strings.Contains(r.Explanation, "Equation error") && !strings.Contains(r.Explanation, "Division by zero") {
		t.Fatalf("explanation: %q", r.Explanation)
	}

	// overflow from addition reaches the dispatcher's finiteness guard
	r = EvaluatePassFail(TypeEquation, nil, "10^308 + 10^308", 100.0, 999999.0, nil, "")
	if r.Pass {
		t.Fatalf("expected fail: %s", r.Explanation)
	}
	if !strings.Contains(r.Explanation, "not a finite number") {
		t.Fatalf("explanation: %q", r.Explanation)
	}

	r = EvaluatePassFail(TypeEquation, nil, "0^-1", 100.0, 100.0, nil, "")
	if r.Pass {
		t.Fatalf("expected fail: %s", r.Explanation)
	}
	if !strings.Contains(r.Explanation, "Division by zero") {
		t.Fatalf("explanation: %q", r.Explanation)
	}
}
