package ruleql

import (
	"fmt"
	"strconv"
	"text/scanner"
	"time"

	"github.com/go-faster/traceguard/internal/lexerql"
	"github.com/go-faster/traceguard/internal/ruleql/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int

	limits ResourceLimits
	depth  int
	eof    scanner.Position // position just past the last input rune
}

// enterNesting tracks recursion depth explicitly, so a hostile rule is
// rejected with an error instead of exhausting the call stack.
func (p *parser) enterNesting(at lexer.Token) error {
	p.depth++
	if m := p.limits.MaxExpressionDepth; m > 0 && p.depth > m {
		return &LimitError{
			Msg: fmt.Sprintf("expression depth exceeds maximum %d", m),
			Pos: at.Pos,
		}
	}
	return nil
}

func (p *parser) leaveNesting() {
	p.depth--
}

func (p *parser) consume(tt lexer.TokenType) error {
	if t := p.next(); t.Type != tt {
		if t.Type == lexer.EOF {
			return &SyntaxError{
				Msg: fmt.Sprintf("expected %q, got end of rule", tt),
				Pos: t.Pos,
			}
		}
		return &SyntaxError{
			Msg: fmt.Sprintf("expected %q, got %q", tt, t.Type),
			Pos: t.Pos,
		}
	}
	return nil
}

func (p *parser) next() lexer.Token {
	t := p.peek()
	if t.Type != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() lexer.Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) lexer.Token {
	if len(p.tokens) <= p.pos+n {
		return lexer.Token{Type: lexer.EOF, Pos: p.eof}
	}
	return p.tokens[p.pos+n]
}

func (p *parser) unread() {
	if p.pos > 0 {
		p.pos--
	}
}

func (p *parser) unexpectedToken(t lexer.Token) error {
	if t.Type == lexer.EOF {
		return &SyntaxError{
			Msg: "unexpected end of rule",
			Pos: t.Pos,
		}
	}
	return &SyntaxError{
		Msg: fmt.Sprintf("unexpected token %q", t.Text),
		Pos: t.Pos,
	}
}

func (p *parser) consumeText(expect lexer.TokenType) (string, error) {
	t := p.next()
	if t.Type != expect {
		return "", &SyntaxError{
			Msg: fmt.Sprintf("expected %q, got %q", expect, t.Type),
			Pos: t.Pos,
		}
	}
	return t.Text, nil
}

func (p *parser) parseInteger() (int64, error) {
	text, err := p.consumeText(lexer.Integer)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(text, 0, 64)
}

func (p *parser) parseNumber() (float64, error) {
	text, err := p.consumeText(lexer.Number)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(text, 64)
}

func (p *parser) parseDuration() (time.Duration, error) {
	text, err := p.consumeText(lexer.Duration)
	if err != nil {
		return 0, err
	}
	return lexerql.ParseDuration(text)
}
