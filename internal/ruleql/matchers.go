package ruleql

import "fmt"

// SpanMatcher defines a span predicate a rule requires to hold on at
// least one span of a matching trace. Storage backends may use
// matchers to pre-filter candidate traces.
type SpanMatcher struct {
	Attribute Attribute
	Op        BinaryOp
	Static    Static
}

// String implements [fmt.Stringer].
func (m SpanMatcher) String() string {
	return fmt.Sprintf("%s %s %s", m.Attribute, m.Op, m.Static)
}

// ExtractMatchers collects span matchers that are necessary conditions
// of the rule.
//
// Only equality comparisons reachable through conjunctions are
// collected: anything under or, not or a count comparison may match a
// trace without any single span satisfying it.
func ExtractMatchers(e Expr) (matchers []SpanMatcher) {
	var (
		walkPattern func(e Expr)
		walk        func(e Expr)
	)

	add := func(field Attribute, op BinaryOp, value Static) {
		if op != OpEq {
			return
		}
		matchers = append(matchers, SpanMatcher{
			Attribute: field,
			Op:        op,
			Static:    value,
		})
	}

	walkPattern = func(e Expr) {
		switch e := e.(type) {
		case *BinaryExpr:
			if e.Op != OpAnd {
				return
			}
			walkPattern(e.Left)
			walkPattern(e.Right)
		case *ComparisonExpr:
			add(e.Field, e.Op, e.Value)
		}
	}

	walk = func(e Expr) {
		switch e := e.(type) {
		case *BinaryExpr:
			if e.Op != OpAnd {
				return
			}
			walk(e.Left)
			walk(e.Right)
		case *ComparisonExpr:
			add(e.Field, e.Op, e.Value)
		case *HasExpr:
			walkPattern(e.Pattern)
			for _, w := range e.Where {
				add(w.Attribute, w.Op, w.Value)
			}
		}
	}
	walk(e)
	return matchers
}
