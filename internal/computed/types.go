package computed

// #region calc-type

// Type is the closed set of calc kinds a template field can declare. The
// resolver switches exhaustively over it; an unknown calc_type resolves to
// blank rather than guessing.
type Type string

const (
	TypeNone           Type = ""
	TypeAbsDiff        Type = "ABS_DIFF"
	TypePctError       Type = "PCT_ERROR"
	TypePctDiff        Type = "PCT_DIFF"
	TypeMinOf          Type = "MIN_OF"
	TypeMaxOf          Type = "MAX_OF"
	TypeRangeOf        Type = "RANGE_OF"
	TypeCustomEquation Type = "CUSTOM_EQUATION"
)

// #endregion calc-type
