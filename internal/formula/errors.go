package formula

import (
	"errors"
	"fmt"
)

// #region error-types

// SyntaxError reports formula text that does not parse. It surfaces at
// template-authoring time; evaluation-time failures use the sentinel errors
// below instead.
type SyntaxError struct {
	Pos int    // byte offset into the formula text
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Sentinel errors for formulas that parse but cannot run.
var (
	ErrEmptyEquation   = errors.New("equation is empty")
	ErrDisallowed      = errors.New("construct not allowed in equations")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrUnknownVariable = errors.New("variable not provided")
)

// #endregion error-types
