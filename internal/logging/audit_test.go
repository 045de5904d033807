package logging

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/calibtrack/calibtrack/go-engine/internal/template"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	s, err := template.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.DB()
}

func TestLogChange(t *testing.T) {
	db := newTestDB(t)

	err := LogChange(db, AuditEntry{
		EntityType: "template",
		EntityID:   "tpl-1",
		Action:     "update",
		FieldName:  "tolerance_equation",
		Detail:     "abs(reading - nominal) <= 0.5",
		Actor:      "avery",
	})
	if err != nil {
		t.Fatalf("log change: %v", err)
	}

	var action, fieldName, actor string
	err = db.QueryRow(
		`SELECT action, field_name, actor FROM audit_log WHERE entity_id = ?`, "tpl-1",
	).Scan(&action, &fieldName, &actor)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if action != "update" || fieldName != "tolerance_equation" || actor != "avery" {
		t.Fatalf("row mismatch: %s %s %s", action, fieldName, actor)
	}
}

func TestLogEvaluationSerializesDetail(t *testing.T) {
	db := newTestDB(t)

	detail := EvaluationDetail{
		RecordID: "rec-1",
		Pass:     false,
		Fields: []EvaluationField{
			{FieldID: "f1", Name: "deviation", Pass: false, ToleranceUsed: 0.01,
				Explanation: "Tolerance = 0.01; diff = 0.1 → FAIL", Value: "0.100"},
		},
	}
	if err := LogEvaluation(db, "bench-3", detail); err != nil {
		t.Fatalf("log evaluation: %v", err)
	}

	var raw string
	err := db.QueryRow(
		`SELECT detail FROM audit_log WHERE entity_id = ? AND action = 'evaluate'`, "rec-1",
	).Scan(&raw)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	var got EvaluationDetail
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal detail: %v", err)
	}
	if got.Pass || len(got.Fields) != 1 || got.Fields[0].Name != "deviation" {
		t.Fatalf("detail mismatch: %+v", got)
	}
	if got.Fields[0].ToleranceUsed != 0.01 {
		t.Fatalf("tolerance used: %v", got.Fields[0].ToleranceUsed)
	}
}
