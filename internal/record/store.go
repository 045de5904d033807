package record

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region types

// Record is one calibration event against a template.
type Record struct {
	ID           string
	TemplateID   string
	InstrumentID string
	CalDate      string
	PerformedBy  string
	Result       string
	CreatedAt    time.Time
}

// Value is one stored field value of a record. Everything persists as text;
// numeric interpretation happens at evaluation time.
type Value struct {
	RecordID  string
	FieldID   string
	ValueText string
}

// #endregion types

// #region store

// Store persists calibration records and their values over a database the
// template store owns and migrates.
type Store struct {
	db *sql.DB
}

// NewStore wraps an already-open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// #endregion store

// #region create

// Create inserts a record and its values in one transaction, assigning an ID
// if absent.
func (s *Store) Create(rec Record, values []Value) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO calibration_records (record_id, template_id, instrument_id, cal_date, performed_by, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TemplateID, rec.InstrumentID, rec.CalDate,
		nullIfEmpty(rec.PerformedBy), nullIfEmpty(rec.Result),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	for _, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO calibration_values (record_id, field_id, value_text) VALUES (?, ?, ?)`,
			rec.ID, v.FieldID, v.ValueText,
		); err != nil {
			return Record{}, fmt.Errorf("insert value %s: %w", v.FieldID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion create

// #region get

// Get retrieves a record by ID.
func (s *Store) Get(id string) (Record, error) {
	var rec Record
	var performedBy, result sql.NullString
	var createdStr string
	err := s.db.QueryRow(
		`SELECT record_id, template_id, instrument_id, cal_date, performed_by, result, created_at
		 FROM calibration_records WHERE record_id = ?`, id,
	).Scan(&rec.ID, &rec.TemplateID, &rec.InstrumentID, &rec.CalDate, &performedBy, &result, &createdStr)
	if err != nil {
		return Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	rec.PerformedBy = performedBy.String
	rec.Result = result.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// List returns records for a template, newest first.
func (s *Store) List(templateID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT record_id, template_id, instrument_id, cal_date, performed_by, result, created_at
		 FROM calibration_records WHERE template_id = ? ORDER BY created_at DESC`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var performedBy, result sql.NullString
		var createdStr string
		if err := rows.Scan(&rec.ID, &rec.TemplateID, &rec.InstrumentID, &rec.CalDate, &performedBy, &result, &createdStr); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.PerformedBy = performedBy.String
		rec.Result = result.String
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion get

// #region values

// Values returns a record's stored values keyed by field ID.
func (s *Store) Values(recordID string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT field_id, value_text FROM calibration_values WHERE record_id = ?`, recordID)
	if err != nil {
		return nil, fmt.Errorf("record values: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var fieldID string
		var text sql.NullString
		if err := rows.Scan(&fieldID, &text); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out[fieldID] = text.String
	}
	return out, rows.Err()
}

// ValuesByName returns a record's values keyed by field name, the form the
// variable resolver consumes.
func (s *Store) ValuesByName(recordID string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT tf.name, cv.value_text
		 FROM calibration_values cv
		 JOIN template_fields tf ON tf.field_id = cv.field_id
		 WHERE cv.record_id = ?`, recordID)
	if err != nil {
		return nil, fmt.Errorf("record values by name: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name string
		var text sql.NullString
		if err := rows.Scan(&name, &text); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out[name] = text.String
	}
	return out, rows.Err()
}

// #endregion values

// #region update

// UpdateValues upserts value rows for a record in one transaction.
func (s *Store) UpdateValues(recordID string, values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for fieldID, text := range values {
		if _, err := tx.Exec(
			`INSERT INTO calibration_values (record_id, field_id, value_text) VALUES (?, ?, ?)
			 ON CONFLICT (record_id, field_id) DO UPDATE SET value_text = excluded.value_text`,
			recordID, fieldID, text,
		); err != nil {
			return fmt.Errorf("upsert value %s: %w", fieldID, err)
		}
	}
	return tx.Commit()
}

// SetResult stores the overall pass/fail outcome text on a record.
func (s *Store) SetResult(recordID, result string) error {
	res, err := s.db.Exec(
		`UPDATE calibration_records SET result = ? WHERE record_id = ?`, result, recordID)
	if err != nil {
		return fmt.Errorf("set result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set result: record %s not found", recordID)
	}
	return nil
}

// #endregion update

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
