package replay

import (
	"fmt"

	"github.com/calibtrack/calibtrack/go-engine/internal/pipeline"
	"github.com/calibtrack/calibtrack/go-engine/internal/template"
)

// #region types
// CaseResult captures the outcome of re-evaluating one fixture case.
type CaseResult struct {
	Name         string
	Pass         bool
	ExpectedPass bool

	// Mismatches lists every disagreement with the fixture's expectations,
	// ready for display.
	Mismatches []string

	// Record holds the full re-evaluation output for inspection.
	Record pipeline.RecordResult
}

// Match reports whether the re-evaluation agreed with the fixture.
func (c CaseResult) Match() bool {
	return len(c.Mismatches) == 0
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalCases int
	Matches    int
	Mismatches int
}

// #endregion types

// #region replay
// Replay re-evaluates every fixture case through the current pipeline and
// diffs outcomes against the recorded expectations. Operates entirely
// in-memory; a drifted tolerance rule shows up as a mismatch, not a panic.
func Replay(f *Fixture) []CaseResult {
	fields := make([]template.Field, len(f.Fields))
	byName := map[string]string{}
	for i, ff := range f.Fields {
		fields[i] = ff.ToField()
		byName[ff.Name] = ff.ID
	}
	engine := pipeline.New(fields)

	results := make([]CaseResult, 0, len(f.Cases))
	for _, c := range f.Cases {
		values := map[string]string{}
		for name, v := range c.Values {
			id, ok := byName[name]
			if !ok {
				continue
			}
			values[id] = v
		}

		rec := engine.EvaluateRecord(values)
		cr := CaseResult{
			Name:         c.Name,
			Pass:         rec.Pass,
			ExpectedPass: c.ExpectedPass,
			Record:       rec,
		}
		if rec.Pass != c.ExpectedPass {
			cr.Mismatches = append(cr.Mismatches,
				fmt.Sprintf("overall: got %v, fixture expects %v", rec.Pass, c.ExpectedPass))
		}
		for _, exp := range c.ExpectedFields {
			got, found := fieldOutcome(rec, exp.Name)
			switch {
			case !found:
				cr.Mismatches = append(cr.Mismatches,
					fmt.Sprintf("field %s: no tolerance result, fixture expects %v", exp.Name, exp.Pass))
			case got != exp.Pass:
				cr.Mismatches = append(cr.Mismatches,
					fmt.Sprintf("field %s: got %v, fixture expects %v", exp.Name, got, exp.Pass))
			}
		}
		results = append(results, cr)
	}
	return results
}

func fieldOutcome(rec pipeline.RecordResult, name string) (bool, bool) {
	for _, fr := range rec.Fields {
		if fr.Name == name {
			return fr.Pass, true
		}
	}
	return false, false
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CaseResult) Summary {
	s := Summary{TotalCases: len(results)}
	for _, r := range results {
		if r.Match() {
			s.Matches++
		} else {
			s.Mismatches++
		}
	}
	return s
}

// #endregion replay
