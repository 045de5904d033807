package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region log-change
// LogChange writes an audit entry to the audit_log table.
func LogChange(db *sql.DB, entry AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO audit_log (entity_type, entity_id, action, field_name, detail, actor, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		nullIfEmpty(entry.FieldName),
		nullIfEmpty(entry.Detail),
		nullIfEmpty(entry.Actor),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log change: %w", err)
	}
	return nil
}

// #endregion log-change

// #region log-evaluation
// LogEvaluation records a record evaluation outcome, serializing the full
// per-field detail as JSON.
func LogEvaluation(db *sql.DB, actor string, detail EvaluationDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal evaluation detail: %w", err)
	}
	return LogChange(db, AuditEntry{
		EntityType: "record",
		EntityID:   detail.RecordID,
		Action:     "evaluate",
		Detail:     string(payload),
		Actor:      actor,
	})
}

// #endregion log-evaluation

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
