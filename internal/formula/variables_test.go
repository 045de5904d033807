package formula

import (
	"reflect"
	"testing"
)

func TestListVariablesFirstOccurrenceOrder(t *testing.T) {
	got := ListVariables("ref2 + ref1*ref2 - nominal")
	want := []string{"ref2", "ref1", "nominal"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestListVariablesExcludesFunctionCallees(t *testing.T) {
	got := ListVariables("AVERAGE(ref1,ref2)")
	want := []string{"ref1", "ref2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestListVariablesUnparsableInput(t *testing.T) {
	if got := ListVariables("1 +"); got != nil {
		t.Fatalf("expected nil for unparsable input, got %v", got)
	}
	if got := ListVariables(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestValidateVariables(t *testing.T) {
	ok, unknown := ValidateVariables("abs(reading - nominal) <= ref1")
	if !ok || unknown != nil {
		t.Fatalf("expected all known, got ok=%v unknown=%v", ok, unknown)
	}

	ok, unknown = ValidateVariables("reading + bogus + other")
	if ok {
		t.Fatal("expected validation failure")
	}
	if !reflect.DeepEqual(unknown, []string{"bogus", "other"}) {
		t.Fatalf("unknown: got %v", unknown)
	}
}

func TestValidateVariablesUnknownFunction(t *testing.T) {
	ok, unknown := ValidateVariables("foo(1)")
	if ok {
		t.Fatal("expected validation failure for unknown callee")
	}
	if !reflect.DeepEqual(unknown, []string{"foo"}) {
		t.Fatalf("unknown: got %v", unknown)
	}

	// nested inside a known call, reported once alongside unknown variables
	ok, unknown = ValidateVariables("max(foo(1), foo(2), bogus)")
	if ok {
		t.Fatal("expected validation failure")
	}
	if !reflect.DeepEqual(unknown, []string{"foo", "bogus"}) {
		t.Fatalf("unknown: got %v", unknown)
	}

	if ok, _ := ValidateVariables("AVERAGE(ref1, ref2)"); !ok {
		t.Fatal("registry callee flagged as unknown")
	}
}

func TestHasComparison(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"reading <= nominal", true},
		{"abs(reading - nominal) <= 0.5", true},
		{"(ref1 > 1) + 1", true}, // nested comparison still counts
		{"0.02*abs(nominal)", false},
		{"1 +", false}, // unparsable
	}
	for _, c := range cases {
		if got := HasComparison(c.text); got != c.want {
			t.Fatalf("%q: got %v, want %v", c.text, got, c.want)
		}
	}
}
