package lexer

import "text/scanner"

// Token is a RuleQL token.
type Token struct {
	Type TokenType
	Text string
	Pos  scanner.Position
}

// TokenType defines RuleQL token type.
type TokenType int

//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenType

const (
	Invalid TokenType = iota
	EOF
	Ident
	// Literals
	String
	Integer
	Number
	Duration

	Comma
	Dot
	OpenParen
	CloseParen
	OpenBracket
	CloseBracket
	Eq
	NotEq
	Gt
	Gte
	Lt
	Lte
	In
	Matches
	True
	False
	And
	Or
	Not
	Trace
)

var tokens = map[string]TokenType{
	",":       Comma,
	".":       Dot,
	"(":       OpenParen,
	")":       CloseParen,
	"[":       OpenBracket,
	"]":       CloseBracket,
	"==":      Eq,
	"!=":      NotEq,
	">":       Gt,
	">=":      Gte,
	"<":       Lt,
	"<=":      Lte,
	"in":      In,
	"matches": Matches,
	"true":    True,
	"false":   False,
	"and":     And,
	"or":      Or,
	"not":     Not,
	"trace":   Trace,
}
