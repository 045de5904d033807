package tolerance

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// #region resolve-lookup

// ResolveLookup resolves a tolerance from a lookup-table payload: a JSON
// array of {"range_low", "range_high", "tolerance"} rows, stored as opaque
// text. Rows are tried in stored order and the first whose inclusive range
// contains nominal wins, returning abs(tolerance) — authors order ranges
// narrowest-first, so overlap is a template-authoring contract, not a
// defect here.
//
// Total by design: malformed JSON, a non-list payload, or a row missing
// numeric fields is skipped, never fatal; no match returns 0.0.
func ResolveLookup(lookupJSON string, nominal float64) float64 {
	payload := strings.TrimSpace(lookupJSON)
	if payload == "" {
		return 0.0
	}
	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return 0.0
	}
	for _, raw := range rows {
		var row map[string]interface{}
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		low, okLow := numField(row, "range_low", math.Inf(-1))
		high, okHigh := numField(row, "range_high", math.Inf(1))
		tol, okTol := numField(row, "tolerance", 0)
		if !okLow || !okHigh || !okTol {
			continue
		}
		if low <= nominal && nominal <= high {
			return math.Abs(tol)
		}
	}
	return 0.0
}

// numField reads a numeric row field, accepting JSON numbers and numeric
// strings; an absent key yields def, an unparsable value flags the row as
// malformed.
func numField(row map[string]interface{}, key string, def float64) (float64, bool) {
	raw, ok := row[key]
	if !ok || raw == nil {
		return def, true
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// #endregion resolve-lookup
