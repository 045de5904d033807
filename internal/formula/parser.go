package formula

import (
	"fmt"
	"strings"
)

// #region parse

// Parse turns formula text into a restricted AST.
//
// Returns ErrEmptyEquation for blank input, ErrDisallowed (wrapped) for a
// recognized-but-forbidden construct, and *SyntaxError for anything that does
// not fit the grammar. The grammar can only produce allow-listed nodes, so no
// post-parse denylist walk is needed.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyEquation
	}
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		t := p.peek()
		if t.typ == tokIdent {
			if _, _, disallowed := keywordKind(t.text); disallowed {
				return nil, fmt.Errorf("%w: %q", ErrDisallowed, t.text)
			}
		}
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q after expression", t.text)}
	}
	return e, nil
}

// #endregion parse

// #region parser

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.typ != tokEOF {
		p.i++
	}
	return t
}

// comparison → additive { (< > <= >= == !=) additive }
func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	var ops []CompareOp
	var ys []Expr
	for {
		var op CompareOp
		switch p.peek().typ {
		case tokLess:
			op = OpLess
		case tokGreater:
			op = OpGreater
		case tokLessEq:
			op = OpLessEq
		case tokGreaterEq:
			op = OpGreaterEq
		case tokEq:
			op = OpEq
		case tokNotEq:
			op = OpNotEq
		default:
			if len(ops) == 0 {
				return left, nil
			}
			return &CompareExpr{X: left, Ops: ops, Ys: ys}, nil
		}
		p.next()
		y, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		ys = append(ys, y)
	}
}

// additive → multiplicative { (+|-) multiplicative }
func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch p.peek().typ {
		case tokPlus:
			op = OpAdd
		case tokMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, X: left, Y: right}
	}
}

// multiplicative → unary { (*|/|//|%) unary }
func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch p.peek().typ {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		case tokFloorDiv:
			op = OpFloorDiv
		case tokPercent:
			op = OpMod
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, X: left, Y: right}
	}
}

// unary → (+|-) unary | power
// Power binds tighter than the sign, so -2^2 is -(2^2).
func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().typ {
	case tokMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpNeg, X: x}, nil
	case tokPlus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpPos, X: x}, nil
	}
	return p.parsePower()
}

// power → primary [ ^ unary ]   (right associative; exponent may be signed)
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().typ == tokPower {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: OpPow, X: base, Y: exp}, nil
	}
	return base, nil
}

// primary → number | true | false | ident | ident(args) | (expr) | [elems]
func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.typ {
	case tokNumber:
		p.next()
		return &NumberLit{Value: t.num}, nil

	case tokIdent:
		boolVal, isBool, disallowed := keywordKind(t.text)
		if disallowed {
			return nil, fmt.Errorf("%w: %q", ErrDisallowed, t.text)
		}
		p.next()
		if isBool {
			return &BoolLit{Value: boolVal}, nil
		}
		if p.peek().typ == tokLParen {
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &CallExpr{Name: t.text, Args: args}, nil
		}
		return &Ident{Name: t.text}, nil

	case tokLParen:
		p.next()
		e, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if p.peek().typ != tokRParen {
			return nil, &SyntaxError{Pos: p.peek().pos, Msg: "expected ')'"}
		}
		p.next()
		return e, nil

	case tokLBracket:
		p.next()
		var elems []Expr
		if p.peek().typ != tokRBracket {
			for {
				el, err := p.parseComparison()
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
				if p.peek().typ != tokComma {
					break
				}
				p.next()
			}
		}
		if p.peek().typ != tokRBracket {
			return nil, &SyntaxError{Pos: p.peek().pos, Msg: "expected ']'"}
		}
		p.next()
		return &ListLit{Elems: elems}, nil

	case tokEOF:
		return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected end of equation"}
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
}

// parseArgs consumes call arguments up to and including the closing paren.
func (p *parser) parseArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().typ == tokRParen {
		p.next()
		return args, nil
	}
	for {
		a, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		switch p.peek().typ {
		case tokComma:
			p.next()
		case tokRParen:
			p.next()
			return args, nil
		default:
			return nil, &SyntaxError{Pos: p.peek().pos, Msg: "expected ',' or ')' in argument list"}
		}
	}
}

// #endregion parser
