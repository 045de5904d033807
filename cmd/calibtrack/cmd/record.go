package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calibtrack/calibtrack/go-engine/internal/logging"
	"github.com/calibtrack/calibtrack/go-engine/internal/pipeline"
	"github.com/calibtrack/calibtrack/go-engine/internal/record"
)

var recordSave bool

var recordCmd = &cobra.Command{
	Use:   "record <record-id>",
	Short: "Re-evaluate a stored record against its template",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	store, cfg := openStore()
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

	for _, fr := range result.Fields {
		status := "FAIL"
		if fr.Pass {
			status = "PASS"
		}
		fmt.Printf("%-4s %-24s %s\n", status, fr.Name, fr.Explanation)
	}
	overall := "FAIL"
	if result.Pass {
		overall = "PASS"
	}
	fmt.Printf("overall: %s\n", overall)

	if cfg.Audit.Enabled {
		detail := logging.EvaluationDetail{RecordID: rec.ID, Pass: result.Pass}
		for _, fr := range result.Fields {
			detail.Fields = append(detail.Fields, logging.EvaluationField{
				FieldID:       fr.FieldID,
				Name:          fr.Name,
				Pass:          fr.Pass,
				ToleranceUsed: fr.ToleranceUsed,
				Explanation:   fr.Explanation,
				Value:         fr.Value,
			})
		}
		if err := logging.LogEvaluation(store.DB(), cfg.Audit.Actor, detail); err != nil {
			return err
		}
	}

	if recordSave {
		if err := recs.UpdateValues(rec.ID, result.Values); err != nil {
			return err
		}
		stored := "Out of tolerance"
		if result.Pass {
			stored = "Pass"
		}
		if err := recs.SetResult(rec.ID, stored); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	recordCmd.Flags().BoolVar(&recordSave, "save", false, "write computed values and result back to the record")
}
