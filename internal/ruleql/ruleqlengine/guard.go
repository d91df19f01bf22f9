package ruleqlengine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"

	"github.com/go-faster/traceguard/internal/otelstorage"
	"github.com/go-faster/traceguard/internal/ruleql"
	"github.com/go-faster/traceguard/internal/tracestorage"
)

// LimitError is returned when trace evaluation hits a resource limit.
type LimitError struct {
	Msg string
}

// Error implements error.
func (e *LimitError) Error() string {
	return e.Msg
}

// evalGuard enforces resource limits during evaluation of a single
// trace.
//
// Deadline checks are amortized: time is read once per deadlineStride
// span visits, so a guard may overshoot the deadline by a small bounded
// amount of work.
type evalGuard struct {
	ctx      context.Context
	limits   ruleql.ResourceLimits
	deadline time.Time

	visits int
}

const deadlineStride = 256

func newGuard(ctx context.Context, limits ruleql.ResourceLimits) *evalGuard {
	deadline := time.Now().Add(limits.MaxEvaluationDuration)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return &evalGuard{
		ctx:      ctx,
		limits:   limits,
		deadline: deadline,
	}
}

// checkTrace validates trace shape against limits before any rule
// logic runs, so evaluation never walks oversized input.
func (g *evalGuard) checkTrace(spans []tracestorage.Span) error {
	if m := g.limits.MaxSpansPerTrace; m > 0 && len(spans) > m {
		return &LimitError{
			Msg: fmt.Sprintf("trace has %d spans, maximum is %d", len(spans), m),
		}
	}
	for _, span := range spans {
		entries := attrsLen(span.Attrs) + attrsLen(span.ScopeAttrs) + attrsLen(span.ResourceAttrs)
		if m := g.limits.MaxAttributeEntries; m > 0 && entries > m {
			return &LimitError{
				Msg: fmt.Sprintf("span %s has %d attribute entries, maximum is %d", span.SpanID.Hex(), entries, m),
			}
		}
		if m := g.limits.MaxStringLength; m > 0 {
			if err := g.checkStringLengths(span, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *evalGuard) checkStringLengths(span tracestorage.Span, maxLen int) error {
	if len(span.Name) > maxLen {
		return &LimitError{
			Msg: fmt.Sprintf("span name length %d exceeds maximum %d", len(span.Name), maxLen),
		}
	}
	for _, attrs := range []otelstorage.Attrs{span.Attrs, span.ScopeAttrs, span.ResourceAttrs} {
		if attrs.IsZero() {
			continue
		}
		var lerr *LimitError
		attrs.AsMap().Range(func(k string, v pcommon.Value) bool {
			if v.Type() == pcommon.ValueTypeStr && len(v.Str()) > maxLen {
				lerr = &LimitError{
					Msg: fmt.Sprintf("attribute %q length %d exceeds maximum %d", k, len(v.Str()), maxLen),
				}
				return false
			}
			return true
		})
		if lerr != nil {
			return lerr
		}
	}
	return nil
}

// checkIteration is called once per span visit during evaluation.
func (g *evalGuard) checkIteration() error {
	g.visits++
	if g.visits%deadlineStride != 0 {
		return nil
	}
	return g.checkDeadline()
}

func (g *evalGuard) checkDeadline() error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	if time.Now().After(g.deadline) {
		return &LimitError{
			Msg: fmt.Sprintf("evaluation exceeded %s", g.limits.MaxEvaluationDuration),
		}
	}
	return nil
}

// matchAllowed reports whether a regexp match may run. Past the
// deadline matches are denied, the caller treats a denied match as a
// non-match.
func (g *evalGuard) matchAllowed() bool {
	return !time.Now().After(g.deadline)
}

func attrsLen(attrs otelstorage.Attrs) int {
	if attrs.IsZero() {
		return 0
	}
	return attrs.Len()
}
