package ruleqlengine

import (
	"github.com/go-faster/errors"

	"github.com/go-faster/traceguard/internal/ruleql"
	"github.com/go-faster/traceguard/internal/tracestorage"
)

// traceEval evaluates a rule sub-expression against a whole trace.
type traceEval func(set Spanset, ctx *evaluateCtx) (bool, error)

// Matcher is a compiled rule ready for evaluation.
type Matcher struct {
	eval traceEval

	// countRoot is set when the rule root is a count comparison, the
	// exact span count is reported alongside the boolean verdict.
	countRoot *countRoot
}

type countRoot struct {
	pred  spanPredicate
	op    ruleql.BinaryOp
	value int64
}

// BuildMatcher compiles a parsed rule.
//
// Compilation is independent of any trace: a matcher may be reused for
// any number of evaluations.
func BuildMatcher(expr ruleql.Expr) (*Matcher, error) {
	eval, err := buildTraceEval(expr)
	if err != nil {
		return nil, err
	}

	m := &Matcher{eval: eval}
	if root, ok := expr.(*ruleql.CountExpr); ok {
		pred, err := buildSpanPredicate(root.Pattern, root.Where)
		if err != nil {
			return nil, err
		}
		m.countRoot = &countRoot{pred: pred, op: root.Op, value: root.Value}
	}
	return m, nil
}

func buildTraceEval(expr ruleql.Expr) (traceEval, error) {
	switch expr := expr.(type) {
	case *ruleql.BinaryExpr:
		left, err := buildTraceEval(expr.Left)
		if err != nil {
			return nil, errors.Wrap(err, "build left")
		}
		right, err := buildTraceEval(expr.Right)
		if err != nil {
			return nil, errors.Wrap(err, "build right")
		}
		switch expr.Op {
		case ruleql.OpAnd:
			return andEval(left, right), nil
		case ruleql.OpOr:
			return orEval(left, right), nil
		default:
			return nil, errors.Errorf("unexpected logical op %q", expr.Op)
		}
	case *ruleql.NotExpr:
		sub, err := buildTraceEval(expr.Expr)
		if err != nil {
			return nil, err
		}
		return notEval(sub), nil
	case *ruleql.ComparisonExpr:
		// A bare comparison holds when some span satisfies it.
		pred, err := buildComparison(expr.Field, expr.Op, expr.Value)
		if err != nil {
			return nil, err
		}
		return anySpan(pred), nil
	case *ruleql.HasExpr:
		pred, err := buildSpanPredicate(expr.Pattern, expr.Where)
		if err != nil {
			return nil, err
		}
		return anySpan(pred), nil
	case *ruleql.CountExpr:
		pred, err := buildSpanPredicate(expr.Pattern, expr.Where)
		if err != nil {
			return nil, err
		}
		return countCompare(pred, expr.Op, expr.Value), nil
	default:
		return nil, errors.Errorf("unexpected expression %T", expr)
	}
}

// andEval short-circuits: the right side is not evaluated when the
// left side is false.
func andEval(left, right traceEval) traceEval {
	return func(set Spanset, ctx *evaluateCtx) (bool, error) {
		ok, err := left(set, ctx)
		if err != nil || !ok {
			return false, err
		}
		return right(set, ctx)
	}
}

// orEval short-circuits: the right side is not evaluated when the left
// side is true.
func orEval(left, right traceEval) traceEval {
	return func(set Spanset, ctx *evaluateCtx) (bool, error) {
		ok, err := left(set, ctx)
		if err != nil || ok {
			return ok, err
		}
		return right(set, ctx)
	}
}

func notEval(sub traceEval) traceEval {
	return func(set Spanset, ctx *evaluateCtx) (bool, error) {
		ok, err := sub(set, ctx)
		return !ok, err
	}
}

// anySpan holds when at least one span satisfies the predicate, and
// stops at the first such span.
func anySpan(pred spanPredicate) traceEval {
	return func(set Spanset, ctx *evaluateCtx) (bool, error) {
		for _, span := range set.Spans {
			if err := ctx.guard.checkIteration(); err != nil {
				return false, err
			}
			if pred(span, ctx) {
				return true, nil
			}
		}
		return false, nil
	}
}

// countCompare compares the number of matching spans to a threshold.
//
// For > and >= the scan stops as soon as the verdict cannot change, so
// trace.count(p) > 0 costs the same as trace.has(p).
func countCompare(pred spanPredicate, op ruleql.BinaryOp, value int64) traceEval {
	return func(set Spanset, ctx *evaluateCtx) (bool, error) {
		var count int64
		for _, span := range set.Spans {
			if err := ctx.guard.checkIteration(); err != nil {
				return false, err
			}
			if !pred(span, ctx) {
				continue
			}
			count++
			switch op {
			case ruleql.OpGt:
				if count > value {
					return true, nil
				}
			case ruleql.OpGte:
				if count >= value {
					return true, nil
				}
			}
		}
		return compareCount(count, op, value), nil
	}
}

func compareCount(count int64, op ruleql.BinaryOp, value int64) bool {
	switch op {
	case ruleql.OpEq:
		return count == value
	case ruleql.OpNotEq:
		return count != value
	case ruleql.OpGt:
		return count > value
	case ruleql.OpGte:
		return count >= value
	case ruleql.OpLt:
		return count < value
	case ruleql.OpLte:
		return count <= value
	default:
		return false
	}
}

// buildSpanPredicate compiles a has/count pattern with its where
// chain into a single span predicate.
func buildSpanPredicate(pattern ruleql.Expr, where []*ruleql.WhereExpr) (spanPredicate, error) {
	pred, err := buildPattern(pattern)
	if err != nil {
		return nil, err
	}
	for _, w := range where {
		wp, err := buildComparison(w.Attribute, w.Op, w.Value)
		if err != nil {
			return nil, err
		}
		pred = andPred(pred, wp)
	}
	return pred, nil
}

func buildPattern(pattern ruleql.Expr) (spanPredicate, error) {
	switch pattern := pattern.(type) {
	case *ruleql.BinaryExpr:
		left, err := buildPattern(pattern.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildPattern(pattern.Right)
		if err != nil {
			return nil, err
		}
		switch pattern.Op {
		case ruleql.OpAnd:
			return andPred(left, right), nil
		case ruleql.OpOr:
			return func(span tracestorage.Span, ctx *evaluateCtx) bool {
				return left(span, ctx) || right(span, ctx)
			}, nil
		default:
			return nil, errors.Errorf("unexpected logical op %q", pattern.Op)
		}
	case *ruleql.NotExpr:
		sub, err := buildPattern(pattern.Expr)
		if err != nil {
			return nil, err
		}
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			return !sub(span, ctx)
		}, nil
	case *ruleql.ComparisonExpr:
		return buildComparison(pattern.Field, pattern.Op, pattern.Value)
	default:
		return nil, errors.Errorf("unexpected pattern expression %T", pattern)
	}
}

func andPred(left, right spanPredicate) spanPredicate {
	return func(span tracestorage.Span, ctx *evaluateCtx) bool {
		return left(span, ctx) && right(span, ctx)
	}
}

// EvalResult is a verdict of a rule against a single trace.
type EvalResult struct {
	// Matched reports whether the trace satisfies the rule.
	Matched bool
	// Count is the exact matching span count when HasCount is set.
	Count int64
	// HasCount is set when the rule root is a count comparison.
	HasCount bool
}

// EvalSpanset evaluates the compiled rule against a single trace.
func (m *Matcher) EvalSpanset(set Spanset, guard *evalGuard) (EvalResult, error) {
	if err := guard.checkTrace(set.Spans); err != nil {
		return EvalResult{}, err
	}

	ctx := &evaluateCtx{guard: guard}

	if r := m.countRoot; r != nil {
		// Exact count is part of the result, so no early exit here.
		var count int64
		for _, span := range set.Spans {
			if err := guard.checkIteration(); err != nil {
				return EvalResult{}, err
			}
			if r.pred(span, ctx) {
				count++
			}
		}
		return EvalResult{
			Matched:  compareCount(count, r.op, r.value),
			Count:    count,
			HasCount: true,
		}, nil
	}

	matched, err := m.eval(set, ctx)
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{Matched: matched}, nil
}
