package ruleql

import (
	"fmt"
	"regexp"
	"strings"
	"text/scanner"

	"github.com/go-faster/traceguard/internal/ruleql/lexer"
)

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == lexer.Or {
		p.next()

		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: OpOr, Right: right}
	}
	return left, nil
}

func (p *parser) parseAndExpr() (Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == lexer.And {
		p.next()

		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: OpAnd, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnaryExpr() (Expr, error) {
	switch t := p.peek(); t.Type {
	case lexer.Not:
		p.next()

		if err := p.enterNesting(t); err != nil {
			return nil, err
		}
		defer p.leaveNesting()

		expr, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: expr}, nil
	case lexer.OpenParen:
		p.next()

		if err := p.enterNesting(t); err != nil {
			return nil, err
		}
		defer p.leaveNesting()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.consume(lexer.CloseParen); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.Trace:
		return p.parseTraceFn()
	case lexer.Ident:
		return p.parseComparison()
	default:
		return nil, p.unexpectedToken(t)
	}
}

func (p *parser) parseTraceFn() (Expr, error) {
	if err := p.consume(lexer.Trace); err != nil {
		return nil, err
	}
	if err := p.consume(lexer.Dot); err != nil {
		return nil, err
	}

	t := p.next()
	if t.Type != lexer.Ident {
		return nil, &SyntaxError{
			Msg: fmt.Sprintf("expected function name, got %q", t.Text),
			Pos: t.Pos,
		}
	}

	switch t.Text {
	case "has":
		return p.parseHasExpr()
	case "count":
		return p.parseCountExpr()
	default:
		return nil, &SyntaxError{
			Msg: fmt.Sprintf("unknown function %q, valid functions are has and count", t.Text),
			Pos: t.Pos,
		}
	}
}

func (p *parser) parseHasExpr() (Expr, error) {
	if err := p.consume(lexer.OpenParen); err != nil {
		return nil, err
	}
	pattern, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if err := p.consume(lexer.CloseParen); err != nil {
		return nil, err
	}

	where, err := p.parseWhereChain()
	if err != nil {
		return nil, err
	}
	return &HasExpr{Pattern: pattern, Where: where}, nil
}

func (p *parser) parseCountExpr() (Expr, error) {
	if err := p.consume(lexer.OpenParen); err != nil {
		return nil, err
	}
	pattern, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if err := p.consume(lexer.CloseParen); err != nil {
		return nil, err
	}

	where, err := p.parseWhereChain()
	if err != nil {
		return nil, err
	}

	t := p.next()
	op, ok := comparisonOp(t.Type)
	if !ok {
		return nil, p.unexpectedToken(t)
	}
	if op == OpIn || op == OpMatches {
		return nil, &TypeError{
			Msg: fmt.Sprintf("operator %q not defined on span counts", op),
			Pos: t.Pos,
		}
	}

	value, err := p.parseInteger()
	if err != nil {
		return nil, err
	}
	return &CountExpr{Pattern: pattern, Where: where, Op: op, Value: value}, nil
}

// parsePattern parses a per-span predicate inside trace.has or
// trace.count. A pattern is a boolean combination of comparisons; a
// bare identifier is a shorthand for a span name match.
func (p *parser) parsePattern() (Expr, error) {
	if err := p.enterNesting(p.peek()); err != nil {
		return nil, err
	}
	defer p.leaveNesting()

	return p.parsePatternOr()
}

func (p *parser) parsePatternOr() (Expr, error) {
	left, err := p.parsePatternAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == lexer.Or {
		p.next()

		right, err := p.parsePatternAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: OpOr, Right: right}
	}
	return left, nil
}

func (p *parser) parsePatternAnd() (Expr, error) {
	left, err := p.parsePatternUnary()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == lexer.And {
		p.next()

		right, err := p.parsePatternUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: OpAnd, Right: right}
	}
	return left, nil
}

func (p *parser) parsePatternUnary() (Expr, error) {
	switch t := p.peek(); t.Type {
	case lexer.Not:
		p.next()

		if err := p.enterNesting(t); err != nil {
			return nil, err
		}
		defer p.leaveNesting()

		expr, err := p.parsePatternUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: expr}, nil
	case lexer.OpenParen:
		p.next()

		if err := p.enterNesting(t); err != nil {
			return nil, err
		}
		defer p.leaveNesting()

		expr, err := p.parsePatternOr()
		if err != nil {
			return nil, err
		}
		if err := p.consume(lexer.CloseParen); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.Ident:
		if _, ok := comparisonOp(p.peekAt(1).Type); ok || p.peekAt(1).Type == lexer.OpenBracket {
			return p.parseComparison()
		}
		// Span name shorthand: trace.has(payment.charge_card).
		p.next()
		var value Static
		value.SetString(t.Text)
		return &ComparisonExpr{
			Field: Attribute{Prop: SpanName},
			Op:    OpEq,
			Value: value,
		}, nil
	default:
		return nil, p.unexpectedToken(t)
	}
}

func (p *parser) parseComparison() (Expr, error) {
	field, err := p.parseFieldAttribute()
	if err != nil {
		return nil, err
	}

	t := p.next()
	op, ok := comparisonOp(t.Type)
	if !ok {
		if t.Type == lexer.EOF {
			return nil, p.unexpectedToken(t)
		}
		return nil, &SyntaxError{
			Msg: fmt.Sprintf("expected comparison operator, got %q", t.Text),
			Pos: t.Pos,
		}
	}
	opPos := t.Pos

	valuePos := p.peek().Pos
	value, err := p.parseStaticValue()
	if err != nil {
		return nil, err
	}

	if err := p.checkComparison(field, op, opPos, value, valuePos); err != nil {
		return nil, err
	}
	return &ComparisonExpr{Field: field, Op: op, Value: value}, nil
}

func (p *parser) parseFieldAttribute() (Attribute, error) {
	text, err := p.consumeText(lexer.Ident)
	if err != nil {
		return Attribute{}, err
	}

	// Subscript form: span.attributes["key"].
	if p.peek().Type == lexer.OpenBracket && isAttributesSelector(text) {
		p.next()

		name, err := p.consumeText(lexer.String)
		if err != nil {
			return Attribute{}, err
		}
		if err := p.consume(lexer.CloseBracket); err != nil {
			return Attribute{}, err
		}

		scope := ScopeNone
		switch {
		case strings.HasPrefix(text, "span."):
			scope = ScopeSpan
		case strings.HasPrefix(text, "resource."):
			scope = ScopeResource
		}
		return Attribute{Name: name, Scope: scope}, nil
	}

	return ParseAttribute(text), nil
}

func isAttributesSelector(text string) bool {
	return text == "attributes" ||
		text == "span.attributes" ||
		text == "resource.attributes"
}

func (p *parser) parseStaticValue() (s Static, _ error) {
	switch t := p.next(); t.Type {
	case lexer.String:
		s.SetString(t.Text)
	case lexer.Integer:
		p.unread()
		v, err := p.parseInteger()
		if err != nil {
			return s, err
		}
		s.SetInt(v)
	case lexer.Number:
		p.unread()
		v, err := p.parseNumber()
		if err != nil {
			return s, err
		}
		s.SetNumber(v)
	case lexer.Duration:
		p.unread()
		v, err := p.parseDuration()
		if err != nil {
			return s, err
		}
		s.SetDuration(v)
	case lexer.True:
		s.SetBool(true)
	case lexer.False:
		s.SetBool(false)
	case lexer.Ident:
		// Bare word, compared as a string.
		s.SetString(t.Text)
	case lexer.OpenBracket:
		p.unread()
		return p.parseListValue()
	default:
		return s, p.unexpectedToken(t)
	}
	return s, nil
}

func (p *parser) parseListValue() (s Static, _ error) {
	p.next() // consume "["

	var elems []Static
	for p.peek().Type != lexer.CloseBracket {
		if len(elems) > 0 {
			if err := p.consume(lexer.Comma); err != nil {
				return s, err
			}
		}

		elemPos := p.peek().Pos
		elem, err := p.parseStaticValue()
		if err != nil {
			return s, err
		}
		if elem.Type == TypeList {
			return s, &TypeError{
				Msg: "nested lists are not supported",
				Pos: elemPos,
			}
		}
		if len(elems) > 0 && elems[0].Type != elem.Type {
			return s, &TypeError{
				Msg: fmt.Sprintf("list elements must have the same type, got %q and %q", elems[0].Type, elem.Type),
				Pos: elemPos,
			}
		}
		elems = append(elems, elem)
	}
	if err := p.consume(lexer.CloseBracket); err != nil {
		return s, err
	}

	s.SetList(elems)
	return s, nil
}

func (p *parser) parseWhereChain() (where []*WhereExpr, _ error) {
	for p.peek().Type == lexer.Dot && p.peekAt(1).Type == lexer.Ident && p.peekAt(1).Text == "where" {
		p.next() // consume "."
		p.next() // consume "where"

		if err := p.consume(lexer.OpenParen); err != nil {
			return nil, err
		}

		attr, err := p.parseFieldAttribute()
		if err != nil {
			return nil, err
		}

		t := p.next()
		op, ok := comparisonOp(t.Type)
		if !ok {
			if t.Type == lexer.EOF {
				return nil, p.unexpectedToken(t)
			}
			return nil, &SyntaxError{
				Msg: fmt.Sprintf("invalid operator %q, valid operators are ==, !=, >, >=, <, <=, in, matches", t.Text),
				Pos: t.Pos,
			}
		}
		opPos := t.Pos

		valuePos := p.peek().Pos
		value, err := p.parseStaticValue()
		if err != nil {
			return nil, err
		}

		if err := p.consume(lexer.CloseParen); err != nil {
			return nil, err
		}

		if err := p.checkComparison(attr, op, opPos, value, valuePos); err != nil {
			return nil, err
		}
		where = append(where, &WhereExpr{Attribute: attr, Op: op, Value: value})
	}
	return where, nil
}

func comparisonOp(tt lexer.TokenType) (op BinaryOp, _ bool) {
	switch tt {
	case lexer.Eq:
		return OpEq, true
	case lexer.NotEq:
		return OpNotEq, true
	case lexer.Gt:
		return OpGt, true
	case lexer.Gte:
		return OpGte, true
	case lexer.Lt:
		return OpLt, true
	case lexer.Lte:
		return OpLte, true
	case lexer.In:
		return OpIn, true
	case lexer.Matches:
		return OpMatches, true
	default:
		return op, false
	}
}

// checkComparison validates operator and operand types at parse time,
// so rule authors get immediate feedback instead of a rule that can
// never match.
func (p *parser) checkComparison(field Attribute, op BinaryOp, opPos scanner.Position, value Static, valuePos scanner.Position) error {
	if !op.CheckType(field.ValueType()) {
		return &TypeError{
			Msg: fmt.Sprintf("operator %q not defined on %q field %q", op, field.ValueType(), field),
			Pos: opPos,
		}
	}

	switch op {
	case OpMatches:
		if value.Type != TypeString {
			return &TypeError{
				Msg: fmt.Sprintf("matches pattern must be a string, got %q", value.Type),
				Pos: valuePos,
			}
		}
		if _, err := regexp.Compile(value.AsString()); err != nil {
			return &SyntaxError{
				Msg: fmt.Sprintf("invalid pattern: %s", err),
				Pos: valuePos,
			}
		}
	case OpIn:
		if value.Type != TypeList {
			return &TypeError{
				Msg: fmt.Sprintf("in operand must be a list, got %q", value.Type),
				Pos: valuePos,
			}
		}
		for _, elem := range value.List {
			if !field.ValueType().CheckOperand(elem.Type) {
				return &TypeError{
					Msg: fmt.Sprintf("list element type %q is not comparable to field %q", elem.Type, field),
					Pos: valuePos,
				}
			}
		}
	default:
		if value.Type == TypeList {
			return &TypeError{
				Msg: fmt.Sprintf("operator %q not defined on lists", op),
				Pos: valuePos,
			}
		}
		if !field.ValueType().CheckOperand(value.Type) {
			return &TypeError{
				Msg: fmt.Sprintf("cannot compare %q field %q to %q value", field.ValueType(), field, value.Type),
				Pos: valuePos,
			}
		}
		if op.IsOrdering() && !value.Type.IsOrdered() {
			return &TypeError{
				Msg: fmt.Sprintf("operator %q not defined on %q values", op, value.Type),
				Pos: opPos,
			}
		}
	}
	return nil
}
