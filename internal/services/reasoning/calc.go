package reasoning

import (
	"fmt"
	"strconv"
	"strings"
)

// evalArithmetic evaluates a pure arithmetic expression with a recursive
// descent parser. The grammar admits numbers, + - * /, parentheses, and
// unary minus; there is no name resolution and no function calls, so the
// calculator cannot be steered outside arithmetic.
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = number | "(" expr ")" | "-" factor
func evalArithmetic(input string) (float64, error) {
	p := &exprParser{input: input}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}

	return result, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *exprParser) parseExpr() (float64, error) {
	result, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return result, nil
		}
		p.pos++

		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}

		if op == '+' {
			result += rhs
		} else {
			result -= rhs
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	result, err := p.parseFactor()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return result, nil
		}
		p.pos++

		rhs, err := p.parseFactor()
		if err != nil {
			return 0, err
		}

		if op == '*' {
			result *= rhs
		} else {
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			result /= rhs
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	switch {
	case c == '-':
		p.pos++
		value, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -value, nil

	case c == '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil

	default:
		return p.parseNumber()
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}

	if p.pos == start {
		return 0, fmt.Errorf("expected number at position %d", start)
	}

	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", p.input[start:p.pos], err)
	}

	return value, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// extractCalcExpr finds the first calc(...) call in the draft and returns
// the balanced expression inside its parentheses.
func extractCalcExpr(draft string) (string, bool) {
	idx := strings.Index(draft, "calc(")
	if idx < 0 {
		return "", false
	}

	depth := 0
	start := idx + len("calc(")
	for i := start - 1; i < len(draft); i++ {
		switch draft[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return draft[start:i], true
			}
		}
	}

	// Unbalanced parentheses
	return "", false
}

// formatCalcResult renders an evaluation result without a trailing zero
// fraction, so integral results print as integers.
func formatCalcResult(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
