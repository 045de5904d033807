package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/calibtrack/calibtrack/go-engine/internal/template"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a template's
// field definitions plus recorded value sets with their expected outcomes.
type Fixture struct {
	Description string        `json:"description"`
	Fields      []FixtureField `json:"fields"`
	Cases       []FixtureCase  `json:"cases"`
}

// FixtureField mirrors template.Field with JSON tags.
type FixtureField struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	DataType  string   `json:"data_type"`
	Unit      string   `json:"unit,omitempty"`
	Group     string   `json:"group,omitempty"`
	SortOrder int      `json:"sort_order,omitempty"`

	CalcType string   `json:"calc_type,omitempty"`
	CalcRefs []string `json:"calc_refs,omitempty"`

	ToleranceType       string   `json:"tolerance_type,omitempty"`
	ToleranceFixed      *float64 `json:"tolerance_fixed,omitempty"`
	ToleranceEquation   string   `json:"tolerance_equation,omitempty"`
	ToleranceLookupJSON string   `json:"tolerance_lookup,omitempty"`
	NominalValue        string   `json:"nominal_value,omitempty"`
	SigFigs             int      `json:"sig_figs,omitempty"`
}

// FixtureCase is one recorded value set and the outcome it produced.
type FixtureCase struct {
	Name         string            `json:"name"`
	Values       map[string]string `json:"values"` // keyed by field name
	ExpectedPass bool              `json:"expected_pass"`

	// ExpectedFields pins per-field outcomes; empty means only the overall
	// result is checked.
	ExpectedFields []FixtureExpectedField `json:"expected_fields,omitempty"`
}

// FixtureExpectedField captures the expected outcome of one field check.
type FixtureExpectedField struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToField converts a FixtureField to a domain template.Field.
func (ff *FixtureField) ToField() template.Field {
	f := template.Field{
		ID:                  ff.ID,
		Name:                ff.Name,
		Label:               ff.Label,
		DataType:            template.DataType(ff.DataType),
		Unit:                ff.Unit,
		Group:               ff.Group,
		SortOrder:           ff.SortOrder,
		CalcType:            ff.CalcType,
		ToleranceType:       ff.ToleranceType,
		ToleranceFixed:      ff.ToleranceFixed,
		ToleranceEquation:   ff.ToleranceEquation,
		ToleranceLookupJSON: ff.ToleranceLookupJSON,
		NominalValue:        ff.NominalValue,
		SigFigs:             ff.SigFigs,
	}
	for i, ref := range ff.CalcRefs {
		if i >= template.MaxCalcRefs {
			break
		}
		f.CalcRefs[i] = ref
	}
	return f
}

// #endregion fixture-loader
