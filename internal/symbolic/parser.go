package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ParseError describes a rejected input expression.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// functionNames are the callable identifiers; anything else followed by '('
// is rejected. "log" and "sqrt" are normalized during parsing.
var functionNames = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "ln": true, "log": true,
	"sqrt": true, "abs": true,
}

// ReservedNames lists identifiers that never become free parameters:
// the named constants plus every callable function name.
func ReservedNames() map[string]bool {
	out := map[string]bool{"pi": true, "e": true}
	for name := range functionNames {
		out[name] = true
	}
	return out
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
	num  *big.Rat
}

type lexer struct {
	src    []rune
	pos    int
	tokens []token
}

func lex(input string) ([]token, error) {
	l := &lexer{src: []rune(input)}
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case unicode.IsSpace(r):
			l.pos++
		case r >= '0' && r <= '9' || r == '.':
			if err := l.lexNumber(); err != nil {
				return nil, err
			}
		case unicode.IsLetter(r) || r == '_':
			start := l.pos
			for l.pos < len(l.src) && (unicode.IsLetter(l.src[l.pos]) || unicode.IsDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
				l.pos++
			}
			l.emit(tokIdent, string(l.src[start:l.pos]), start)
		case r == '(':
			l.emit(tokLParen, "(", l.pos)
			l.pos++
		case r == ')':
			l.emit(tokRParen, ")", l.pos)
			l.pos++
		case r == '*':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '*' {
				l.emit(tokOp, "^", l.pos)
				l.pos += 2
			} else {
				l.emit(tokOp, "*", l.pos)
				l.pos++
			}
		case r == '+' || r == '-' || r == '/' || r == '^':
			l.emit(tokOp, string(r), l.pos)
			l.pos++
		case r == '=':
			return nil, &ParseError{Pos: l.pos, Msg: "equations are not supported; provide a single expression"}
		case r == ',':
			return nil, &ParseError{Pos: l.pos, Msg: "multi-argument constructs are not supported"}
		default:
			return nil, &ParseError{Pos: l.pos, Msg: fmt.Sprintf("unexpected character %q", string(r))}
		}
	}
	l.emit(tokEOF, "", l.pos)
	return l.tokens, nil
}

func (l *lexer) emit(kind tokenKind, text string, pos int) {
	l.tokens = append(l.tokens, token{kind: kind, text: text, pos: pos})
}

func (l *lexer) lexNumber() error {
	start := l.pos
	seenDigit := false
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
		seenDigit = true
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
			seenDigit = true
		}
	}
	if !seenDigit {
		return &ParseError{Pos: start, Msg: "malformed number"}
	}
	// Scientific exponent only when digits follow; otherwise the 'e' is the
	// Euler constant in a product the user must spell explicitly.
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		probe := l.pos + 1
		if probe < len(l.src) && (l.src[probe] == '+' || l.src[probe] == '-') {
			probe++
		}
		if probe < len(l.src) && l.src[probe] >= '0' && l.src[probe] <= '9' {
			l.pos = probe
			for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
				l.pos++
			}
		}
	}
	text := string(l.src[start:l.pos])
	val, ok := new(big.Rat).SetString(text)
	if !ok {
		return &ParseError{Pos: start, Msg: fmt.Sprintf("malformed number %q", text)}
	}
	l.tokens = append(l.tokens, token{kind: tokNumber, text: text, pos: start, num: val})
	return nil
}

// parser is a precedence-climbing expression parser.
type parser struct {
	tokens []token
	idx    int
}

// Parse converts an infix expression string into a simplified expression
// tree. It fails with *ParseError for empty, malformed, or non-scalar input.
func Parse(input string) (Expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &ParseError{Pos: 0, Msg: "empty expression"}
	}
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
	return expr.Simplify(), nil
}

func (p *parser) peek() token { return p.tokens[p.idx] }

func (p *parser) next() token {
	t := p.tokens[p.idx]
	if t.kind != tokEOF {
		p.idx++
	}
	return t
}

func binaryPrec(op string) (prec int, rightAssoc bool) {
	switch op {
	case "+", "-":
		return 10, false
	case "*", "/":
		return 20, false
	case "^":
		return 30, true
	}
	return 0, false
}

func (p *parser) parseExpr(minPrec int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			return lhs, nil
		}
		prec, rightAssoc := binaryPrec(tok.text)
		if prec < minPrec {
			return lhs, nil
		}
		p.next()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		rhs, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		switch tok.text {
		case "+":
			lhs = Add(lhs, rhs)
		case "-":
			lhs = Subtract(lhs, rhs)
		case "*":
			lhs = Mul(lhs, rhs)
		case "/":
			lhs = Div(lhs, rhs)
		case "^":
			lhs = Pow(lhs, rhs)
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+") {
		p.next()
		// Unary sign binds tighter than */ but looser than ^, matching
		// the usual convention where -x^2 means -(x^2).
		operand, err := p.parseExpr(25)
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			return Neg(operand), nil
		}
		return operand, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return &Number{val: tok.num}, nil
	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &ParseError{Pos: closing.pos, Msg: "missing closing parenthesis"}
		}
		return inner, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tok)
		}
		switch tok.text {
		case "pi":
			return Pi, nil
		case "e":
			return E, nil
		}
		if functionNames[tok.text] {
			return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("function %q requires an argument", tok.text)}
		}
		return Var(tok.text), nil
	case tokEOF:
		return nil, &ParseError{Pos: tok.pos, Msg: "unexpected end of expression"}
	default:
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
}

func (p *parser) parseCall(name token) (Expr, error) {
	if !functionNames[name.text] {
		return nil, &ParseError{Pos: name.pos, Msg: fmt.Sprintf("unknown function %q", name.text)}
	}
	p.next() // consume '('
	arg, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if closing := p.next(); closing.kind != tokRParen {
		return nil, &ParseError{Pos: closing.pos, Msg: "missing closing parenthesis"}
	}
	switch name.text {
	case "sqrt":
		return Sqrt(arg), nil
	case "log":
		return Ln(arg), nil
	}
	return Fn(name.text, arg), nil
}
