package formula

import "strconv"

// #region format

// FormatCalculation formats a calculated value for display. With decimals
// >= 0 the value is fixed-point ("50.00"); otherwise sigFigs significant
// figures are used (default 3 when sigFigs <= 0), and zero prints as "0".
func FormatCalculation(value float64, sigFigs, decimals int) string {
	if decimals >= 0 {
		return strconv.FormatFloat(value, 'f', decimals, 64)
	}
	if value == 0 {
		return "0"
	}
	if sigFigs <= 0 {
		sigFigs = 3
	}
	return strconv.FormatFloat(value, 'g', sigFigs, 64)
}

// DecimalsForField clamps a per-field sig_figs setting to the displayable
// range. Zero means "unset" and falls back to the default of 3; the UI caps
// the column at 4.
func DecimalsForField(sigFigs int) int {
	if sigFigs <= 0 {
		return 3
	}
	if sigFigs > 4 {
		return 4
	}
	return sigFigs
}

// #endregion format
