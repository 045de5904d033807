package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calibtrack/calibtrack/go-engine/internal/pipeline"
	"github.com/calibtrack/calibtrack/go-engine/internal/record"
	"github.com/calibtrack/calibtrack/go-engine/internal/replay"
	"github.com/calibtrack/calibtrack/go-engine/internal/template"
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Export records as replay fixtures and re-run them",
}

var fixtureExportCmd = &cobra.Command{
	Use:   "export <record-id> <path>",
	Short: "Export a stored record and its current outcome as a JSON fixture",
	Args:  cobra.ExactArgs(2),
	RunE:  runFixtureExport,
}

var fixtureReplayCmd = &cobra.Command{
	Use:   "replay <path>",
	Short: "Re-evaluate a fixture and diff against its recorded outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runFixtureReplay,
}

func runFixtureExport(cmd *cobra.Command, args []string) error {
	store, _ := openStore()
	defer store.Close()

	recs := record.NewStore(store.DB())
	rec, err := recs.Get(args[0])
	if err != nil {
		return err
	}
	fields, err := store.FieldsForTemplate(rec.TemplateID)
	if err != nil {
		return err
	}
	values, err := recs.Values(rec.ID)
	if err != nil {
		return err
	}

	engine := pipeline.New(fields)
	result := engine.EvaluateRecord(values)

	f := &replay.Fixture{
		Description: fmt.Sprintf("record %s (template %s)", rec.ID, rec.TemplateID),
	}
	for _, fld := range fields {
		f.Fields = append(f.Fields, fixtureField(fld))
	}
	c := replay.FixtureCase{
		Name:         rec.ID,
		Values:       map[string]string{},
		ExpectedPass: result.Pass,
	}
	for _, fld := range fields {
		if v, ok := values[fld.ID]; ok && v != "" {
			c.Values[fld.Name] = v
		}
	}
	for _, fr := range result.Fields {
		c.ExpectedFields = append(c.ExpectedFields, replay.FixtureExpectedField{
			Name: fr.Name,
			Pass: fr.Pass,
		})
	}
	f.Cases = append(f.Cases, c)

	if err := replay.SaveFixture(args[1], f); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", args[1])
	return nil
}

func runFixtureReplay(cmd *cobra.Command, args []string) error {
	f, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}
	results := replay.Replay(f)
	for _, r := range results {
		if r.Match() {
			fmt.Printf("ok   %s\n", r.Name)
			continue
		}
		fmt.Printf("DIFF %s\n", r.Name)
		for _, m := range r.Mismatches {
			fmt.Printf("     %s\n", m)
		}
	}
	s := replay.Summarize(results)
	fmt.Printf("%d cases: %d match, %d differ\n", s.TotalCases, s.Matches, s.Mismatches)
	if s.Mismatches > 0 {
		return fmt.Errorf("%d case(s) differ from fixture", s.Mismatches)
	}
	return nil
}

func fixtureField(f template.Field) replay.FixtureField {
	ff := replay.FixtureField{
		ID:                  f.ID,
		Name:                f.Name,
		Label:               f.Label,
		DataType:            string(f.DataType),
		Unit:                f.Unit,
		Group:               f.Group,
		SortOrder:           f.SortOrder,
		CalcType:            f.CalcType,
		ToleranceType:       f.ToleranceType,
		ToleranceFixed:      f.ToleranceFixed,
		ToleranceEquation:   f.ToleranceEquation,
		ToleranceLookupJSON: f.ToleranceLookupJSON,
		NominalValue:        f.NominalValue,
		SigFigs:             f.SigFigs,
	}
	for i := 1; i <= template.MaxCalcRefs; i++ {
		if f.Ref(i) != "" {
			ff.CalcRefs = f.CalcRefs[:]
			break
		}
	}
	return ff
}

func init() {
	fixtureCmd.AddCommand(fixtureExportCmd)
	fixtureCmd.AddCommand(fixtureReplayCmd)
}
