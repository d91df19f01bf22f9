// Package ruleqlengine implements RuleQL evaluation engine.
package ruleqlengine

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/go-faster/traceguard/internal/otelstorage"
	"github.com/go-faster/traceguard/internal/ruleql"
)

// Engine is a RuleQL evaluation engine.
type Engine struct {
	querier Querier
	limits  ruleql.ResourceLimits

	tracer trace.Tracer
}

// Options sets Engine options.
type Options struct {
	// Limits bounds resource usage of rule parsing and evaluation,
	// zero fields fall back to defaults.
	Limits ruleql.ResourceLimits
	// TracerProvider provides OpenTelemetry tracer for this engine.
	TracerProvider trace.TracerProvider
}

func (o *Options) setDefaults() {
	o.Limits = o.Limits.Or(ruleql.DefaultResourceLimits())
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
}

// NewEngine creates new Engine.
func NewEngine(querier Querier, opts Options) *Engine {
	opts.setDefaults()

	return &Engine{
		querier: querier,
		limits:  opts.Limits,
		tracer:  opts.TracerProvider.Tracer("ruleql.Engine"),
	}
}

// EvalParams sets evaluation parameters.
type EvalParams struct {
	// Time range to search, optional.
	Start time.Time
	End   time.Time
	Limit int
}

// TraceMatch is a trace that satisfied a rule.
type TraceMatch struct {
	TraceID         otelstorage.TraceID
	RootSpanName    string
	RootServiceName string
	Start           time.Time
	TraceDuration   time.Duration
	Result          EvalResult
}

// Eval parses and evaluates a rule over stored traces.
func (e *Engine) Eval(ctx context.Context, rule string, params EvalParams) (matches []TraceMatch, rerr error) {
	ctx, span := e.tracer.Start(ctx, "Eval",
		trace.WithAttributes(
			attribute.String("ruleql.rule", rule),
			attribute.Int("ruleql.params.limit", params.Limit),
		),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
		} else {
			span.AddEvent("return_result", trace.WithAttributes(
				attribute.Int("ruleql.total_matches", len(matches)),
			))
		}
		span.End()
	}()

	expr, err := ruleql.ParseWith(rule, e.limits)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return e.evalExpr(ctx, expr, params)
}

func (e *Engine) evalExpr(ctx context.Context, expr ruleql.Expr, params EvalParams) ([]TraceMatch, error) {
	matcher, err := BuildMatcher(expr)
	if err != nil {
		return nil, errors.Wrap(err, "build matcher")
	}

	iter, err := e.querier.SelectTraces(ctx, SelectTracesParams{
		Matchers: ruleql.ExtractMatchers(expr),
		Start:    otelstorage.NewTimestampFromTime(params.Start),
		End:      otelstorage.NewTimestampFromTime(params.End),
		Limit:    params.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "select traces")
	}
	defer func() {
		_ = iter.Close()
	}()

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var (
		elem    Trace
		matches []TraceMatch
	)
	for iter.Next(&elem) {
		if len(matches) >= limit {
			break
		}
		if len(elem.Spans) < 1 {
			continue
		}

		set := NewSpanset(elem)
		if !withinRange(set, params) {
			continue
		}

		result, err := matcher.EvalSpanset(set, newGuard(ctx, e.limits))
		if err != nil {
			return nil, errors.Wrapf(err, "evaluate trace %s", set.TraceID.Hex())
		}
		if !result.Matched {
			continue
		}
		matches = append(matches, TraceMatch{
			TraceID:         set.TraceID,
			RootSpanName:    set.RootSpanName,
			RootServiceName: set.RootServiceName,
			Start:           set.Start,
			TraceDuration:   set.TraceDuration,
			Result:          result,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	zctx.From(ctx).Debug("Evaluated rule",
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}

// EvalTrace evaluates a parsed rule against a single trace.
func (e *Engine) EvalTrace(ctx context.Context, expr ruleql.Expr, elem Trace) (EvalResult, error) {
	matcher, err := BuildMatcher(expr)
	if err != nil {
		return EvalResult{}, errors.Wrap(err, "build matcher")
	}
	return matcher.EvalSpanset(NewSpanset(elem), newGuard(ctx, e.limits))
}

func withinRange(set Spanset, params EvalParams) bool {
	if !params.Start.IsZero() && set.Start.Before(params.Start) {
		return false
	}
	if !params.End.IsZero() && set.Start.Add(set.TraceDuration).After(params.End) {
		return false
	}
	return true
}
