package ruleqlengine

import (
	"context"

	"github.com/go-faster/traceguard/internal/iterators"
	"github.com/go-faster/traceguard/internal/otelstorage"
	"github.com/go-faster/traceguard/internal/ruleql"
	"github.com/go-faster/traceguard/internal/tracestorage"
)

// Trace is a set of spans grouped by trace ID.
type Trace struct {
	TraceID otelstorage.TraceID
	Spans   []tracestorage.Span
}

// Querier does queries to storage.
type Querier interface {
	// SelectTraces gets traces from storage.
	SelectTraces(ctx context.Context, params SelectTracesParams) (iterators.Iterator[Trace], error)
}

// SelectTracesParams is a storage query params.
type SelectTracesParams struct {
	// Matchers are necessary span conditions of the rule, storage may
	// use them to pre-filter candidate traces or ignore them.
	Matchers []ruleql.SpanMatcher

	// Time range to query, optional.
	Start, End otelstorage.Timestamp

	Limit int
}

// MemoryQuerier is a simple in-memory querier, used for tests.
type MemoryQuerier struct {
	data map[otelstorage.TraceID][]tracestorage.Span
}

// SelectTraces gets traces from storage.
func (q *MemoryQuerier) SelectTraces(context.Context, SelectTracesParams) (iterators.Iterator[Trace], error) {
	var result []Trace
	for traceID, spans := range q.data {
		result = append(result, Trace{
			TraceID: traceID,
			Spans:   spans,
		})
	}
	return iterators.Slice(result), nil
}

// Add adds span to data set.
//
// NOTE: There is no synchronization. Do not call this function concurrently with other methods.
func (q *MemoryQuerier) Add(span tracestorage.Span) {
	if q.data == nil {
		q.data = map[otelstorage.TraceID][]tracestorage.Span{}
	}
	q.data[span.TraceID] = append(q.data[span.TraceID], span)
}
