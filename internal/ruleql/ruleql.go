// Package ruleql provides RuleQL parser.
//
// RuleQL is a boolean rule language over traces: a rule combines
// trace.has and trace.count span queries and span field comparisons
// with and, or and not.
package ruleql

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/go-faster/errors"

	"github.com/go-faster/traceguard/internal/ruleql/lexer"
)

// Parse parses a RuleQL rule with default resource limits.
func Parse(input string) (Expr, error) {
	return ParseWith(input, DefaultResourceLimits())
}

// ParseWith parses a RuleQL rule with given resource limits.
//
// Parsing the same input with the same limits always yields the same
// expression or the same error.
func ParseWith(input string, limits ResourceLimits) (Expr, error) {
	limits = limits.Or(DefaultResourceLimits())

	if strings.TrimSpace(input) == "" {
		return nil, &SyntaxError{
			Msg: "empty rule",
			Pos: scanner.Position{Offset: 0, Line: 1, Column: 1},
		}
	}
	if m := limits.MaxStringLength; m > 0 && len(input) > m {
		return nil, &LimitError{
			Msg: fmt.Sprintf("rule length %d exceeds maximum %d", len(input), m),
			Pos: scanner.Position{Offset: 0, Line: 1, Column: 1},
		}
	}

	tokens, err := lexer.Tokenize(input, lexer.TokenizeOptions{})
	if err != nil {
		var le *lexer.Error
		if errors.As(err, &le) {
			return nil, &SyntaxError{Msg: le.Msg, Pos: le.Pos}
		}
		return nil, errors.Wrap(err, "tokenize")
	}

	p := parser{
		tokens: tokens,
		limits: limits,
		eof:    endPosition(input),
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != lexer.EOF {
		return nil, p.unexpectedToken(t)
	}
	return expr, nil
}

// endPosition returns the position just past the last input rune, used
// to report errors at end of rule.
func endPosition(input string) (pos scanner.Position) {
	pos.Offset = len(input)
	pos.Line = 1 + strings.Count(input, "\n")
	if i := strings.LastIndexByte(input, '\n'); i >= 0 {
		pos.Column = len(input) - i
	} else {
		pos.Column = len(input) + 1
	}
	return pos
}
