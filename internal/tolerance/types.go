package tolerance

// #region tolerance-type

// Type is the closed set of tolerance kinds a template field can carry.
// Adding a kind means extending the dispatcher's switch, which is the point:
// new tolerance behavior is a compile-time-checked addition.
type Type string

const (
	// TypeNone is legacy fixed tolerance via the tolerance column only.
	TypeNone     Type = ""
	TypeFixed    Type = "fixed"
	TypePercent  Type = "percent"
	TypeEquation Type = "equation"
	TypeLookup   Type = "lookup"
	TypeBool     Type = "bool"
)

// #endregion tolerance-type

// #region result

// Result is the outcome of one pass/fail evaluation. It is recomputed on
// every call; the explanation names the formula/threshold and computed
// values verbatim, ready for direct display.
type Result struct {
	Pass          bool
	ToleranceUsed float64
	Explanation   string
}

// #endregion result

// #region comparison

// Comparison is a decomposed comparison-shaped equation: both operands
// evaluated independently for human-readable rendering. Display rounding is
// the caller's concern.
type Comparison struct {
	LHS  float64
	Op   string
	RHS  float64
	Pass bool
}

// #endregion comparison

// #region lookup-range

// LookupRange is one row of a lookup-table payload: an inclusive nominal
// range mapping to a tolerance.
type LookupRange struct {
	RangeLow  float64 `json:"range_low"`
	RangeHigh float64 `json:"range_high"`
	Tolerance float64 `json:"tolerance"`
}

// #endregion lookup-range
