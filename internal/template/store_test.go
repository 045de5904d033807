package template

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetTemplate(t *testing.T) {
	s := newTestStore(t)

	tpl, err := s.CreateTemplate(Template{
		InstrumentType: "thermometer",
		Name:           "Thermometer 5-point",
		Active:         true,
		Notes:          "annual",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tpl.ID == "" {
		t.Fatal("expected assigned ID")
	}
	if tpl.Version != 1 {
		t.Fatalf("version: got %d", tpl.Version)
	}

	got, err := s.GetTemplate(tpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != tpl.Name || got.InstrumentType != tpl.InstrumentType || !got.Active || got.Notes != "annual" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestListTemplates(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"A", "B"} {
		if _, err := s.CreateTemplate(Template{InstrumentType: "gauge", Name: name, Active: true}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	tpls, err := s.ListTemplates()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tpls) != 2 {
		t.Fatalf("got %d templates", len(tpls))
	}
}

func TestAddFieldRoundTrip(t *testing.T) {
	s := newTestStore(t)
	tpl, err := s.CreateTemplate(Template{InstrumentType: "scale", Name: "Scale", Active: true})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	fixed := 0.5
	f := Field{
		TemplateID:          tpl.ID,
		Name:                "reading_1",
		Label:               "Reading 1",
		DataType:            DataNumber,
		Unit:                "g",
		Required:            true,
		SortOrder:           2,
		Group:               "Point 1",
		CalcType:            "ABS_DIFF",
		ToleranceType:       "fixed",
		ToleranceFixed:      &fixed,
		ToleranceEquation:   "abs(reading - nominal) <= 0.5",
		ToleranceLookupJSON: `[{"range_low":0,"range_high":10,"tolerance":0.1}]`,
		NominalValue:        "100",
		DefaultValue:        "0",
		SigFigs:             2,
	}
	f.CalcRefs[0] = "ref_mass"
	f.CalcRefs[1] = "uut_mass"

	added, err := s.AddField(f)
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected assigned field ID")
	}

	fields, err := s.FieldsForTemplate(tpl.ID)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if len(fields) != 1 {
		t.Fatalf("got %d fields", len(fields))
	}
	got := fields[0]
	if got.Name != "reading_1" || got.DataType != DataNumber || !got.Required || got.Unit != "g" {
		t.Fatalf("field mismatch: %+v", got)
	}
	if got.Ref(1) != "ref_mass" || got.Ref(2) != "uut_mass" || got.Ref(3) != "" {
		t.Fatalf("calc refs: %+v", got.CalcRefs)
	}
	if got.ToleranceFixed == nil || *got.ToleranceFixed != 0.5 {
		t.Fatalf("tolerance fixed: %+v", got.ToleranceFixed)
	}
	if got.SigFigs != 2 || got.NominalValue != "100" {
		t.Fatalf("field mismatch: %+v", got)
	}
}

func TestFieldsSortedBySortOrder(t *testing.T) {
	s := newTestStore(t)
	tpl, _ := s.CreateTemplate(Template{InstrumentType: "x", Name: "X", Active: true})

	for i, name := range []string{"c", "a", "b"} {
		f := Field{TemplateID: tpl.ID, Name: name, Label: name, DataType: DataText, SortOrder: 3 - i}
		if _, err := s.AddField(f); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	fields, err := s.FieldsForTemplate(tpl.ID)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	want := []string{"b", "a", "c"}
	for i, f := range fields {
		if f.Name != want[i] {
			t.Fatalf("order: got %s at %d, want %s", f.Name, i, want[i])
		}
	}
}
