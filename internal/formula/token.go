package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// #region token-types

type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokIdent

	tokPlus     // +
	tokMinus    // -
	tokStar     // *
	tokSlash    // /
	tokFloorDiv // //
	tokPercent  // %
	tokPower    // ^ or **

	tokLess      // <
	tokGreater   // >
	tokLessEq    // <=
	tokGreaterEq // >=
	tokEq        // ==
	tokNotEq     // !=

	tokLParen   // (
	tokRParen   // )
	tokLBracket // [
	tokRBracket // ]
	tokComma    // ,
)

type token struct {
	typ  tokenType
	text string
	num  float64 // set for tokNumber
	pos  int
}

// #endregion token-types

// #region lexer

// lex scans Excel-style formula text into tokens. Both ^ and ** lex as
// tokPower; // lexes as floor division.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			// exponent suffix: 1e-3, 2.5E+10
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && src[j] >= '0' && src[j] <= '9' {
					for j < len(src) && src[j] >= '0' && src[j] <= '9' {
						j++
					}
					i = j
				}
			}
			text := src[start:i]
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed number %q", text)}
			}
			toks = append(toks, token{typ: tokNumber, text: text, num: n, pos: start})
		case isIdentStart(rune(c)):
			start := i
			for i < len(src) && isIdentPart(rune(src[i])) {
				i++
			}
			toks = append(toks, token{typ: tokIdent, text: src[start:i], pos: start})
		case c == '+':
			toks = append(toks, token{typ: tokPlus, text: "+", pos: i})
			i++
		case c == '-':
			toks = append(toks, token{typ: tokMinus, text: "-", pos: i})
			i++
		case c == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				toks = append(toks, token{typ: tokPower, text: "**", pos: i})
				i += 2
			} else {
				toks = append(toks, token{typ: tokStar, text: "*", pos: i})
				i++
			}
		case c == '/':
			if i+1 < len(src) && src[i+1] == '/' {
				toks = append(toks, token{typ: tokFloorDiv, text: "//", pos: i})
				i += 2
			} else {
				toks = append(toks, token{typ: tokSlash, text: "/", pos: i})
				i++
			}
		case c == '%':
			toks = append(toks, token{typ: tokPercent, text: "%", pos: i})
			i++
		case c == '^':
			toks = append(toks, token{typ: tokPower, text: "^", pos: i})
			i++
		case c == '<':
			if i+1 < len(src) && src[i+1] == '=' {
				toks = append(toks, token{typ: tokLessEq, text: "<=", pos: i})
				i += 2
			} else {
				toks = append(toks, token{typ: tokLess, text: "<", pos: i})
				i++
			}
		case c == '>':
			if i+1 < len(src) && src[i+1] == '=' {
				toks = append(toks, token{typ: tokGreaterEq, text: ">=", pos: i})
				i += 2
			} else {
				toks = append(toks, token{typ: tokGreater, text: ">", pos: i})
				i++
			}
		case c == '=':
			if i+1 < len(src) && src[i+1] == '=' {
				toks = append(toks, token{typ: tokEq, text: "==", pos: i})
				i += 2
			} else {
				return nil, &SyntaxError{Pos: i, Msg: "single '=' is not valid; use '==' for comparison"}
			}
		case c == '!':
			if i+1 < len(src) && src[i+1] == '=' {
				toks = append(toks, token{typ: tokNotEq, text: "!=", pos: i})
				i += 2
			} else {
				return nil, &SyntaxError{Pos: i, Msg: "unexpected '!'"}
			}
		case c == '(':
			toks = append(toks, token{typ: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{typ: tokRParen, text: ")", pos: i})
			i++
		case c == '[':
			toks = append(toks, token{typ: tokLBracket, text: "[", pos: i})
			i++
		case c == ']':
			toks = append(toks, token{typ: tokRBracket, text: "]", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{typ: tokComma, text: ",", pos: i})
			i++
		case c == ':':
			// colons only occur in pasted-in host-language constructs
			// (lambda, dict, slice), none of which the grammar allows
			return nil, fmt.Errorf("%w: %q", ErrDisallowed, ":")
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", string(src[i]))}
		}
	}
	toks = append(toks, token{typ: tokEOF, pos: len(src)})
	return toks, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// keywordKind classifies identifiers the grammar treats specially.
// "true"/"false" become boolean literals; Python-flavored constructs that
// template authors sometimes paste in are rejected outright.
func keywordKind(ident string) (boolVal bool, isBool bool, disallowed bool) {
	switch strings.ToLower(ident) {
	case "true":
		return true, true, false
	case "false":
		return false, true, false
	case "lambda", "if", "else", "and", "or", "not", "in", "for", "none":
		return false, false, true
	}
	return false, false, false
}

// #endregion lexer
