package formula

import (
	"reflect"
	"testing"
)

func TestParsePlotValid(t *testing.T) {
	xs, ys, err := ParsePlot("PLOT([val1, val2, val3], [val4, val5, val6])")
	if err != nil {
		t.Fatalf("parse plot: %v", err)
	}
	if !reflect.DeepEqual(xs, []string{"val1", "val2", "val3"}) {
		t.Fatalf("x names: got %v", xs)
	}
	if !reflect.DeepEqual(ys, []string{"val4", "val5", "val6"}) {
		t.Fatalf("y names: got %v", ys)
	}
}

func TestParsePlotRejectsBadShapes(t *testing.T) {
	for _, text := range []string{
		"plot(val1, val2)",                  // scalars, not lists
		"PLOT([val1])",                      // one argument
		"PLOT([val1, val2], [val3])",        // length mismatch
		"PLOT([], [])",                      // no points
		"PLOT([1, 2], [3, 4])",              // literals, not names
		"PLOT([val1], [banana])",            // unknown variable
		"AVERAGE([val1], [val2])",           // not a plot call
		"PLOT([val1], [val2]) + 1",          // plot must be the whole equation
	} {
		if _, _, err := ParsePlot(text); err == nil {
			t.Fatalf("%q: expected error", text)
		}
	}
}

func TestEvaluatePlot(t *testing.T) {
	v := Vars{"ref1": 1, "ref2": 2, "ref3": 10, "ref4": 20}
	xs, ys, err := EvaluatePlot("PLOT([val1, val2], [val3, val4])", v)
	if err != nil {
		t.Fatalf("evaluate plot: %v", err)
	}
	if !reflect.DeepEqual(xs, []float64{1, 2}) {
		t.Fatalf("xs: got %v", xs)
	}
	if !reflect.DeepEqual(ys, []float64{10, 20}) {
		t.Fatalf("ys: got %v", ys)
	}
}

func TestEvaluatePlotMissingBinding(t *testing.T) {
	_, _, err := EvaluatePlot("PLOT([val1], [val2])", Vars{"ref1": 1})
	if err == nil {
		t.Fatal("expected error for unbound plot variable")
	}
}
