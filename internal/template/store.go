package template

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS calibration_templates (
	template_id     TEXT PRIMARY KEY,
	instrument_type TEXT NOT NULL,
	name            TEXT NOT NULL,
	version         INTEGER NOT NULL DEFAULT 1,
	is_active       INTEGER NOT NULL DEFAULT 1,
	notes           TEXT,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS template_fields (
	field_id           TEXT PRIMARY KEY,
	template_id        TEXT NOT NULL,
	name               TEXT NOT NULL,
	label              TEXT NOT NULL,
	data_type          TEXT NOT NULL,
	unit               TEXT,
	required           INTEGER NOT NULL DEFAULT 0,
	sort_order         INTEGER NOT NULL DEFAULT 0,
	group_name         TEXT,
	calc_type          TEXT,
	calc_refs          TEXT,
	tolerance_type     TEXT,
	tolerance_fixed    REAL,
	tolerance_equation TEXT,
	tolerance_lookup   TEXT,
	nominal_value      TEXT,
	default_value      TEXT,
	sig_figs           INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (template_id) REFERENCES calibration_templates(template_id)
);
CREATE INDEX IF NOT EXISTS idx_template_fields_template
	ON template_fields(template_id, sort_order);

CREATE TABLE IF NOT EXISTS calibration_records (
	record_id     TEXT PRIMARY KEY,
	template_id   TEXT NOT NULL,
	instrument_id TEXT NOT NULL,
	cal_date      TEXT NOT NULL,
	performed_by  TEXT,
	result        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (template_id) REFERENCES calibration_templates(template_id)
);
CREATE INDEX IF NOT EXISTS idx_records_template ON calibration_records(template_id);

CREATE TABLE IF NOT EXISTS calibration_values (
	record_id  TEXT NOT NULL,
	field_id   TEXT NOT NULL,
	value_text TEXT,
	PRIMARY KEY (record_id, field_id),
	FOREIGN KEY (record_id) REFERENCES calibration_records(record_id),
	FOREIGN KEY (field_id) REFERENCES template_fields(field_id)
);

CREATE TABLE IF NOT EXISTS audit_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	entity_type TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	action      TEXT NOT NULL,
	field_name  TEXT,
	detail      TEXT,
	actor       TEXT,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id);
`

// #endregion schema

// #region store-struct
// Store manages templates, records, and the audit log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages
// (record storage, audit logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region create-template
// CreateTemplate inserts a template, assigning an ID if absent.
func (s *Store) CreateTemplate(tpl Template) (Template, error) {
	if tpl.ID == "" {
		tpl.ID = uuid.New().String()
	}
	if tpl.Version == 0 {
		tpl.Version = 1
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO calibration_templates (template_id, instrument_type, name, version, is_active, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tpl.ID, tpl.InstrumentType, tpl.Name, tpl.Version, boolInt(tpl.Active), nullIfEmpty(tpl.Notes),
		tpl.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Template{}, fmt.Errorf("insert template: %w", err)
	}
	return tpl, nil
}

// #endregion create-template

// #region get-template
// GetTemplate retrieves a template by ID.
func (s *Store) GetTemplate(id string) (Template, error) {
	var tpl Template
	var active int
	var notes sql.NullString
	var createdStr string
	err := s.db.QueryRow(
		`SELECT template_id, instrument_type, name, version, is_active, notes, created_at
		 FROM calibration_templates WHERE template_id = ?`, id,
	).Scan(&tpl.ID, &tpl.InstrumentType, &tpl.Name, &tpl.Version, &active, &notes, &createdStr)
	if err != nil {
		return Template{}, fmt.Errorf("get template %s: %w", id, err)
	}
	tpl.Active = active != 0
	if notes.Valid {
		tpl.Notes = notes.String
	}
	tpl.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return tpl, nil
}

// #endregion get-template

// #region list-templates
// ListTemplates returns all templates, newest first.
func (s *Store) ListTemplates() ([]Template, error) {
	rows, err := s.db.Query(
		`SELECT template_id, instrument_type, name, version, is_active, notes, created_at
		 FROM calibration_templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var tpl Template
		var active int
		var notes sql.NullString
		var createdStr string
		if err := rows.Scan(&tpl.ID, &tpl.InstrumentType, &tpl.Name, &tpl.Version, &active, &notes, &createdStr); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		tpl.Active = active != 0
		if notes.Valid {
			tpl.Notes = notes.String
		}
		tpl.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, tpl)
	}
	return out, rows.Err()
}

// #endregion list-templates

// #region add-field
// AddField inserts a template field, assigning an ID if absent. CalcRefs
// persist as a JSON array column.
func (s *Store) AddField(f Field) (Field, error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	refsJSON, err := json.Marshal(f.CalcRefs)
	if err != nil {
		return Field{}, fmt.Errorf("marshal calc refs: %w", err)
	}

	var fixedPtr interface{}
	if f.ToleranceFixed != nil {
		fixedPtr = *f.ToleranceFixed
	}

	_, err = s.db.Exec(
		`INSERT INTO template_fields
		 (field_id, template_id, name, label, data_type, unit, required, sort_order, group_name,
		  calc_type, calc_refs, tolerance_type, tolerance_fixed, tolerance_equation,
		  tolerance_lookup, nominal_value, default_value, sig_figs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.TemplateID, f.Name, f.Label, string(f.DataType), nullIfEmpty(f.Unit),
		boolInt(f.Required), f.SortOrder, nullIfEmpty(f.Group),
		nullIfEmpty(f.CalcType), string(refsJSON), nullIfEmpty(f.ToleranceType), fixedPtr,
		nullIfEmpty(f.ToleranceEquation), nullIfEmpty(f.ToleranceLookupJSON),
		nullIfEmpty(f.NominalValue), nullIfEmpty(f.DefaultValue), f.SigFigs,
	)
	if err != nil {
		return Field{}, fmt.Errorf("insert field: %w", err)
	}
	return f, nil
}

// #endregion add-field

// #region fields-for-template
// FieldsForTemplate returns a template's fields in sort order.
func (s *Store) FieldsForTemplate(templateID string) ([]Field, error) {
	rows, err := s.db.Query(
		`SELECT field_id, template_id, name, label, data_type, unit, required, sort_order, group_name,
		        calc_type, calc_refs, tolerance_type, tolerance_fixed, tolerance_equation,
		        tolerance_lookup, nominal_value, default_value, sig_figs
		 FROM template_fields WHERE template_id = ? ORDER BY sort_order, name`, templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	var out []Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanField(rows *sql.Rows) (Field, error) {
	var f Field
	var dataType string
	var unit, group, calcType, refsJSON, tolType, tolEq, tolLookup, nominal, defVal sql.NullString
	var required int
	var fixed sql.NullFloat64

	err := rows.Scan(&f.ID, &f.TemplateID, &f.Name, &f.Label, &dataType, &unit, &required,
		&f.SortOrder, &group, &calcType, &refsJSON, &tolType, &fixed, &tolEq, &tolLookup,
		&nominal, &defVal, &f.SigFigs)
	if err != nil {
		return Field{}, fmt.Errorf("scan field: %w", err)
	}
	f.DataType = DataType(dataType)
	f.Unit = unit.String
	f.Required = required != 0
	f.Group = group.String
	f.CalcType = calcType.String
	if refsJSON.Valid && refsJSON.String != "" {
		if err := json.Unmarshal([]byte(refsJSON.String), &f.CalcRefs); err != nil {
			return Field{}, fmt.Errorf("unmarshal calc refs: %w", err)
		}
	}
	f.ToleranceType = tolType.String
	if fixed.Valid {
		v := fixed.Float64
		f.ToleranceFixed = &v
	}
	f.ToleranceEquation = tolEq.String
	f.ToleranceLookupJSON = tolLookup.String
	f.NominalValue = nominal.String
	f.DefaultValue = defVal.String
	return f, nil
}

// #endregion fields-for-template

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
