package ruleql

import "fmt"

// Warning is a non-fatal rule issue found by Lint.
type Warning struct {
	Msg string
}

// Lint inspects a parsed rule for constructs that are valid but almost
// certainly not what the author meant.
func Lint(e Expr) (warnings []Warning) {
	var walk func(e Expr)

	warnf := func(format string, args ...any) {
		warnings = append(warnings, Warning{Msg: fmt.Sprintf(format, args...)})
	}
	lintComparison := func(field Attribute, op BinaryOp, value Static) {
		switch op {
		case OpEq:
			if field.Prop == SpanName && len(value.AsString()) < 4 {
				warnf("span name %q is very short, rule may over-match", value.AsString())
			}
		case OpIn:
			if len(value.List) == 0 {
				warnf("%q never matches: in list is empty", field)
			}
		case OpMatches:
			switch value.AsString() {
			case ".*", ".+":
				warnf("%q matches any value, pattern %s is redundant", field, value)
			}
		}
	}

	walk = func(e Expr) {
		switch e := e.(type) {
		case *BinaryExpr:
			walk(e.Left)
			walk(e.Right)
		case *NotExpr:
			if inner, ok := e.Expr.(*NotExpr); ok {
				warnf("double negation of %q", exprString(inner.Expr))
			}
			walk(e.Expr)
		case *ComparisonExpr:
			lintComparison(e.Field, e.Op, e.Value)
		case *HasExpr:
			walk(e.Pattern)
			for _, w := range e.Where {
				lintComparison(w.Attribute, w.Op, w.Value)
			}
			lintWhereConflicts(e.Where, warnf)
		case *CountExpr:
			walk(e.Pattern)
			for _, w := range e.Where {
				lintComparison(w.Attribute, w.Op, w.Value)
			}
			lintWhereConflicts(e.Where, warnf)
			switch {
			case e.Op == OpEq && e.Value == 0:
				warnf("count == 0 is clearer as not trace.has(%s)", exprString(e.Pattern))
			case e.Op == OpEq:
				warnf("exact count match is brittle, consider >= %d", e.Value)
			case e.Op == OpGte && e.Value == 0:
				warnf("count >= 0 always matches")
			case e.Op == OpLt && e.Value <= 0:
				warnf("count %s %d never matches", e.Op, e.Value)
			}
		}
	}
	walk(e)
	return warnings
}

// lintWhereConflicts flags where chains that equal-match the same
// attribute to different values, such a chain never matches.
func lintWhereConflicts(where []*WhereExpr, warnf func(format string, args ...any)) {
	seen := map[string]Static{}
	for _, w := range where {
		if w.Op != OpEq {
			continue
		}
		key := w.Attribute.String()
		if prev, ok := seen[key]; ok {
			if c, ok := prev.Compare(w.Value); !ok || c != 0 {
				warnf("conflicting where clauses: %q cannot equal both %s and %s", w.Attribute, prev, w.Value)
			}
			continue
		}
		seen[key] = w.Value
	}
}
