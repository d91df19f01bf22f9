// Package lexer contains RuleQL lexer.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/go-faster/traceguard/internal/lexerql"
)

type lexer struct {
	scanner scanner.Scanner
	tokens  []Token
	err     error
}

// TokenizeOptions is a Tokenize options structure.
type TokenizeOptions struct {
	// Filename sets filename for the scanner.
	Filename string
	// MaxSourceBytes caps accepted source length, zero means no cap.
	//
	// The cap is checked before any scanning happens.
	MaxSourceBytes int
}

// Tokenize scans given string to RuleQL tokens.
func Tokenize(s string, opts TokenizeOptions) ([]Token, error) {
	if m := opts.MaxSourceBytes; m > 0 && len(s) > m {
		return nil, &Error{
			Msg: fmt.Sprintf("rule length %d exceeds maximum %d", len(s), m),
			Pos: scanner.Position{Offset: 0, Line: 1, Column: 1},
		}
	}

	l := lexer{}
	l.scanner.Init(strings.NewReader(s))
	l.scanner.Filename = opts.Filename
	l.scanner.Error = func(s *scanner.Scanner, msg string) {
		l.setError(msg, l.scanner.Position)
	}

	for {
		r := l.scanner.Scan()
		switch r {
		case scanner.EOF:
			return l.tokens, l.err
		case '#':
			lexerql.ScanComment(&l.scanner)
			continue
		}

		tok, ok := l.nextToken(r, l.scanner.TokenText())
		if !ok {
			return l.tokens, l.err
		}
		l.tokens = append(l.tokens, tok)
	}
}

func (l *lexer) setError(msg string, pos scanner.Position) {
	l.err = &Error{
		Msg: msg,
		Pos: pos,
	}
}

func (l *lexer) nextToken(r rune, text string) (tok Token, _ bool) {
	tok.Pos = l.scanner.Position
	if r == '-' {
		if peekCh := l.scanner.Peek(); lexerql.IsDigit(peekCh) || peekCh == '.' {
			r = l.scanner.Scan()
			text = "-" + l.scanner.TokenText()
		}
	}
	tok.Text = text

	switch r {
	case scanner.Float, scanner.Int:
		switch peekCh := l.scanner.Peek(); {
		case lexerql.IsDurationRune(peekCh):
			duration, err := lexerql.ScanDuration(&l.scanner, text)
			if err != nil {
				l.setError(err.Error(), tok.Pos)
				return tok, false
			}
			tok.Type = Duration
			tok.Text = duration
		case lexerql.IsIdentStartRune(peekCh):
			l.setError(fmt.Sprintf("invalid number literal %q", text+string(peekCh)), tok.Pos)
			return tok, false
		case r == scanner.Float:
			tok.Type = Number
		default:
			tok.Type = Integer
		}
		return tok, true
	case scanner.String, scanner.RawString:
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			l.setError(fmt.Sprintf("unquote string: %s", err), tok.Pos)
			return tok, false
		}
		tok.Type = String
		tok.Text = unquoted
		return tok, true
	}

	if r == scanner.Ident {
		if tt, ok := tokens[text]; ok {
			tok.Type = tt
			return tok, true
		}
		// Dotted identifier, e.g. "span.status" or "payment.charge_card".
		var sb strings.Builder
		sb.WriteString(text)

		for {
			ch := l.scanner.Peek()
			if ch != '.' && !lexerql.IsIdentRune(ch) {
				break
			}
			sb.WriteRune(l.scanner.Next())
		}

		tok.Type = Ident
		tok.Text = sb.String()
		return tok, true
	}

	peeked := text + string(l.scanner.Peek())
	if tt, ok := tokens[peeked]; ok {
		tok.Type = tt
		tok.Text = peeked
		l.scanner.Next()
		return tok, true
	}

	if tt, ok := tokens[text]; ok {
		tok.Type = tt
		return tok, true
	}

	l.setError(fmt.Sprintf("unexpected character %q", text), tok.Pos)
	return tok, false
}
