package template

import "time"

// #region data-type

// DataType classifies how a template field is collected or computed.
type DataType string

const (
	DataText             DataType = "text"
	DataNumber           DataType = "number"
	DataBool             DataType = "bool"
	DataDate             DataType = "date"
	DataSignature        DataType = "signature"
	DataReference        DataType = "reference"
	DataTolerance        DataType = "tolerance"
	DataConvert          DataType = "convert"
	DataStat             DataType = "stat"
	DataPlot             DataType = "plot"
	DataReferenceCalDate DataType = "reference_cal_date"
	DataFieldHeader      DataType = "field_header"
)

// DisplayOnly reports whether the field is derived/rendered rather than
// user-entered; display-only fields never contribute sibling values.
func (d DataType) DisplayOnly() bool {
	switch d {
	case DataTolerance, DataConvert, DataStat, DataReferenceCalDate, DataFieldHeader:
		return true
	}
	return false
}

// #endregion data-type

// #region template

// Template is one version of a calibration template. Config is authored
// externally and read-only to the engine.
type Template struct {
	ID             string
	InstrumentType string
	Name           string
	Version        int
	Active         bool
	Notes          string
	CreatedAt      time.Time
}

// #endregion template

// #region field

// MaxCalcRefs is the number of calc_ref slots per field (ref1..ref12).
const MaxCalcRefs = 12

// Field is a configured column defining how one measurement or result is
// collected or computed. Tolerance and calc kinds are stored as their text
// tags; the tolerance and computed packages own the closed enums.
type Field struct {
	ID         string
	TemplateID string
	Name       string // variable-binding key
	Label      string
	DataType   DataType
	Unit       string
	Required   bool
	SortOrder  int
	Group      string

	// Computed-field configuration
	CalcType string              // computed.Type tag; empty = not computed
	CalcRefs [MaxCalcRefs]string // sibling field names bound to ref1..ref12

	// Tolerance configuration
	ToleranceType       string // tolerance.Type tag
	ToleranceFixed      *float64
	ToleranceEquation   string
	ToleranceLookupJSON string
	NominalValue        string

	DefaultValue string
	SigFigs      int // 0 = unset (display default of 3 applies)
}

// Ref returns the 1-based calc_refN name, or "" when out of range/unset.
func (f Field) Ref(n int) string {
	if n < 1 || n > MaxCalcRefs {
		return ""
	}
	return f.CalcRefs[n-1]
}

// #endregion field
