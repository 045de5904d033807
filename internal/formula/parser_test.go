package formula

import (
	"errors"
	"testing"
)

func TestParseArithmeticPrecedence(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"2^10", 1024},
		{"2**10", 1024},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"-2^2", -4}, // power binds tighter than sign
		{"2^-1", 0.5},
		{"2^3^2", 512}, // right-associative
		{"10//3", 3},
		{"10%3", 1},
		{"-7%3", 2}, // floored modulo
		{"-7//2", -4},
		{"1.5e2", 150},
	}
	for _, c := range cases {
		got, err := EvaluateEquation(c.text, nil)
		if err != nil {
			t.Fatalf("%q: %v", c.text, err)
		}
		if got != c.want {
			t.Fatalf("%q: got %v, want %v", c.text, got, c.want)
		}
	}
}

func TestParseRejectsDisallowedConstructs(t *testing.T) {
	for _, text := range []string{
		"lambda x: x",
		"1 if True else 2",
		"a and b",
		"not reading",
		"x in [1,2]",
	} {
		_, err := Parse(text)
		if err == nil {
			t.Fatalf("%q: expected error", text)
		}
		if !errors.Is(err, ErrDisallowed) {
			t.Fatalf("%q: expected ErrDisallowed, got %v", text, err)
		}
	}
}

func TestParseEmptyEquation(t *testing.T) {
	for _, text := range []string{"", "   "} {
		_, err := Parse(text)
		if !errors.Is(err, ErrEmptyEquation) {
			t.Fatalf("%q: expected ErrEmptyEquation, got %v", text, err)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, text := range []string{
		"1 +",
		"(1+2",
		"abs(",
		"1 2",
		"[1,2",
		"1 @ 2",
	} {
		_, err := Parse(text)
		if err == nil {
			t.Fatalf("%q: expected error", text)
		}
		var syn *SyntaxError
		if !errors.As(err, &syn) && !errors.Is(err, ErrDisallowed) {
			t.Fatalf("%q: expected syntax error, got %v", text, err)
		}
	}
}

func TestParseChainedComparison(t *testing.T) {
	got, err := EvaluateEquation("1 < 2 < 3", nil)
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if got != 1.0 {
		t.Fatalf("1 < 2 < 3: got %v, want 1", got)
	}

	got, err = EvaluateEquation("1 < 3 < 2", nil)
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if got != 0.0 {
		t.Fatalf("1 < 3 < 2: got %v, want 0", got)
	}
}

func TestParseBoolLiterals(t *testing.T) {
	got, err := EvaluateEquation("True", nil)
	if err != nil || got != 1.0 {
		t.Fatalf("True: got %v, %v", got, err)
	}
	got, err = EvaluateEquation("false", nil)
	if err != nil || got != 0.0 {
		t.Fatalf("false: got %v, %v", got, err)
	}
}
