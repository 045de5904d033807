package logging

import "time"

// #region audit-entry
// AuditEntry is a single row in the audit_log table.
type AuditEntry struct {
	EntityType string // "template" | "field" | "record"
	EntityID   string
	Action     string // "create" | "update" | "evaluate"
	FieldName  string
	Detail     string
	Actor      string
	CreatedAt  time.Time
}

// #endregion audit-entry

// #region evaluation-detail
// EvaluationDetail captures the complete evaluation outcome for one record.
// Serialized as JSON into audit_log.detail so a past pass/fail decision can
// be reconstructed exactly, independent of later template edits.
type EvaluationDetail struct {
	RecordID string `json:"record_id"`
	Pass     bool   `json:"pass"`

	Fields []EvaluationField `json:"fields"`
}

// EvaluationField is one field's outcome inside an EvaluationDetail.
type EvaluationField struct {
	FieldID       string  `json:"field_id"`
	Name          string  `json:"name"`
	Pass          bool    `json:"pass"`
	ToleranceUsed float64 `json:"tolerance_used"`
	Explanation   string  `json:"explanation"`
	Value         string  `json:"value,omitempty"`
}

// #endregion evaluation-detail
