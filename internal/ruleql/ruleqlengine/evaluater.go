package ruleqlengine

import (
	"regexp"

	"github.com/go-faster/errors"

	"github.com/go-faster/traceguard/internal/otelstorage"
	"github.com/go-faster/traceguard/internal/ruleql"
	"github.com/go-faster/traceguard/internal/tracestorage"
)

// evaluateCtx carries per-trace state shared by all span predicates.
type evaluateCtx struct {
	guard *evalGuard
}

type (
	// evaluater extracts a field value from a span.
	evaluater func(span tracestorage.Span, ctx *evaluateCtx) ruleql.Static
	// spanPredicate reports whether a span satisfies a comparison.
	spanPredicate func(span tracestorage.Span, ctx *evaluateCtx) bool
)

func buildComparison(field ruleql.Attribute, op ruleql.BinaryOp, value ruleql.Static) (spanPredicate, error) {
	fieldEval, err := buildAttributeEvaluater(field)
	if err != nil {
		return nil, err
	}

	switch op {
	case ruleql.OpMatches:
		re, err := regexp.Compile(value.AsString())
		if err != nil {
			return nil, errors.Wrapf(err, "compile pattern %q", value.AsString())
		}
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			v := fieldEval(span, ctx)
			if v.Type != ruleql.TypeString {
				return false
			}
			// Denied past the deadline: a rule must not flag a trace
			// it could not fully inspect.
			if !ctx.guard.matchAllowed() {
				return false
			}
			return re.MatchString(v.AsString())
		}, nil
	case ruleql.OpIn:
		elems := value.List
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			v := fieldEval(span, ctx)
			for _, elem := range elems {
				if c, ok := v.Compare(elem); ok && c == 0 {
					return true
				}
			}
			return false
		}, nil
	case ruleql.OpEq:
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			c, ok := fieldEval(span, ctx).Compare(value)
			return ok && c == 0
		}, nil
	case ruleql.OpNotEq:
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			c, ok := fieldEval(span, ctx).Compare(value)
			return ok && c != 0
		}, nil
	case ruleql.OpGt:
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			c, ok := fieldEval(span, ctx).Compare(value)
			return ok && c > 0
		}, nil
	case ruleql.OpGte:
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			c, ok := fieldEval(span, ctx).Compare(value)
			return ok && c >= 0
		}, nil
	case ruleql.OpLt:
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			c, ok := fieldEval(span, ctx).Compare(value)
			return ok && c < 0
		}, nil
	case ruleql.OpLte:
		return func(span tracestorage.Span, ctx *evaluateCtx) bool {
			c, ok := fieldEval(span, ctx).Compare(value)
			return ok && c <= 0
		}, nil
	default:
		return nil, errors.Errorf("unexpected comparison op %q", op)
	}
}

func buildAttributeEvaluater(attr ruleql.Attribute) (evaluater, error) {
	switch attr.Prop {
	case ruleql.SpanName:
		return func(span tracestorage.Span, _ *evaluateCtx) (r ruleql.Static) {
			r.SetString(span.Name)
			return r
		}, nil
	case ruleql.ServiceName:
		return func(span tracestorage.Span, _ *evaluateCtx) (r ruleql.Static) {
			if name, ok := span.ServiceName(); ok {
				r.SetString(name)
			} else {
				r.SetNil()
			}
			return r
		}, nil
	case ruleql.SpanDuration:
		return func(span tracestorage.Span, _ *evaluateCtx) (r ruleql.Static) {
			r.SetDuration(span.Duration())
			return r
		}, nil
	case ruleql.SpanStatus:
		return func(span tracestorage.Span, _ *evaluateCtx) (r ruleql.Static) {
			r.SetString(span.Status())
			return r
		}, nil
	case ruleql.SpanKind:
		return func(span tracestorage.Span, _ *evaluateCtx) (r ruleql.Static) {
			r.SetString(span.KindString())
			return r
		}, nil
	case ruleql.SpanParent:
		return func(span tracestorage.Span, _ *evaluateCtx) (r ruleql.Static) {
			if span.ParentSpanID.IsEmpty() {
				r.SetNil()
			} else {
				r.SetBool(true)
			}
			return r
		}, nil
	default:
		// SpanAttribute.
		switch attr.Scope {
		case ruleql.ScopeResource:
			return func(span tracestorage.Span, _ *evaluateCtx) ruleql.Static {
				return evaluateAttr(
					attr.Name,
					span.ScopeAttrs,
					span.ResourceAttrs,
				)
			}, nil
		case ruleql.ScopeSpan:
			return func(span tracestorage.Span, _ *evaluateCtx) ruleql.Static {
				return evaluateAttr(
					attr.Name,
					span.Attrs,
				)
			}, nil
		default:
			return func(span tracestorage.Span, _ *evaluateCtx) ruleql.Static {
				return evaluateAttr(
					attr.Name,
					span.Attrs,
					span.ScopeAttrs,
					span.ResourceAttrs,
				)
			}, nil
		}
	}
}

func evaluateAttr(name string, attrs ...otelstorage.Attrs) (r ruleql.Static) {
	for _, m := range attrs {
		if m.IsZero() {
			continue
		}
		if v, ok := m.AsMap().Get(name); ok && r.SetOTELValue(v) {
			return r
		}
	}
	r.SetNil()
	return r
}
