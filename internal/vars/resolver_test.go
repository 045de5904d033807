package vars

import (
	"reflect"
	"testing"

	"github.com/calibtrack/calibtrack/go-engine/internal/template"
)

func testFields() []template.Field {
	return []template.Field{
		{ID: "f1", Name: "ref_temp", Label: "Reference Temp", DataType: template.DataNumber, Unit: "°F"},
		{ID: "f2", Name: "uut_temp", Label: "UUT Temp", DataType: template.DataNumber, Unit: "°F"},
		{ID: "f3", Name: "notes", Label: "Notes", DataType: template.DataText},
	}
}

func TestFieldMatchingNameThenLabel(t *testing.T) {
	r := NewResolver(testFields())
	values := map[string]string{"ref_temp": "122.0", "uut_temp": "121.5"}

	if n, ok := r.Numeric("ref_temp", values); !ok || n != 122.0 {
		t.Fatalf("name match: got %v, %v", n, ok)
	}
	// label match, case-insensitive
	if n, ok := r.Numeric("uut temp", values); !ok || n != 121.5 {
		t.Fatalf("label match: got %v, %v", n, ok)
	}
	if _, ok := r.Numeric("no_such_field", values); ok {
		t.Fatal("expected no match")
	}
}

func TestNumericStripsUnitSuffix(t *testing.T) {
	r := NewResolver(testFields())
	values := map[string]string{"ref_temp": "122.0 °F"}
	n, ok := r.Numeric("ref_temp", values)
	if !ok || n != 122.0 {
		t.Fatalf("got %v, %v", n, ok)
	}
}

func TestParseNumeric(t *testing.T) {
	if n, ok := ParseNumeric("  50.5 ", ""); !ok || n != 50.5 {
		t.Fatalf("plain: got %v, %v", n, ok)
	}
	if n, ok := ParseNumeric("50.5 psi", "psi"); !ok || n != 50.5 {
		t.Fatalf("unit: got %v, %v", n, ok)
	}
	if _, ok := ParseNumeric("", "psi"); ok {
		t.Fatal("empty should not parse")
	}
	if _, ok := ParseNumeric("abc", ""); ok {
		t.Fatal("non-numeric should not parse")
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "yes", "TRUE", "2.5"} {
		if !ParseBool(s) {
			t.Fatalf("%q: expected true", s)
		}
	}
	for _, s := range []string{"", "0", "false", "no", "0.0", "junk"} {
		if ParseBool(s) {
			t.Fatalf("%q: expected false", s)
		}
	}
}

func TestBuildMissingRefsStayAbsent(t *testing.T) {
	r := NewResolver(testFields())
	f := template.Field{
		Name:         "deviation",
		NominalValue: "100",
		CalcRefs:     [template.MaxCalcRefs]string{"ref_temp", "uut_temp"},
	}
	// uut_temp has no value: ref2 must be absent, not zero
	v := r.Build(f, "ref1 - ref2", map[string]string{"ref_temp": "122.0"})
	if v["nominal"] != 100 {
		t.Fatalf("nominal: got %v", v["nominal"])
	}
	if v["ref1"] != 122.0 {
		t.Fatalf("ref1: got %v", v["ref1"])
	}
	if _, ok := v["ref2"]; ok {
		t.Fatal("ref2 must be absent when the sibling has no value")
	}

	missing := MissingVariables("ref1 - ref2", v)
	if !reflect.DeepEqual(missing, []string{"ref2"}) {
		t.Fatalf("missing: got %v", missing)
	}
}

func TestBuildReadingFromRef1(t *testing.T) {
	r := NewResolver(testFields())
	f := template.Field{
		Name:     "check",
		CalcRefs: [template.MaxCalcRefs]string{"uut_temp"},
	}
	values := map[string]string{"uut_temp": "121.5"}

	// equation references reading: ref1 supplies it
	v := r.Build(f, "abs(reading - nominal) <= 1", values)
	if v["reading"] != 121.5 {
		t.Fatalf("reading: got %v", v["reading"])
	}

	// equation does not reference reading: default 0 stands
	v = r.Build(f, "ref1 * 2", values)
	if v["reading"] != 0 {
		t.Fatalf("reading default: got %v", v["reading"])
	}
}

func TestBuildAppliesAliases(t *testing.T) {
	r := NewResolver(testFields())
	f := template.Field{CalcRefs: [template.MaxCalcRefs]string{"ref_temp"}}
	v := r.Build(f, "val1", map[string]string{"ref_temp": "122.0"})
	if v["val1"] != 122.0 {
		t.Fatalf("val1 alias: got %v", v["val1"])
	}
}
