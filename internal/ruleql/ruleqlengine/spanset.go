package ruleqlengine

import (
	"time"

	"github.com/go-faster/traceguard/internal/otelstorage"
	"github.com/go-faster/traceguard/internal/tracestorage"
)

// Spanset is a set of spans of a single trace with derived trace-level
// values.
type Spanset struct {
	TraceID otelstorage.TraceID
	Spans   []tracestorage.Span

	Start           time.Time
	RootSpanName    string
	RootServiceName string
	TraceDuration   time.Duration
}

// NewSpanset derives trace-level values from raw spans.
//
// The root span is the span without a parent, when every span has a
// parent the earliest span stands in for it.
func NewSpanset(trace Trace) Spanset {
	if len(trace.Spans) == 0 {
		return Spanset{TraceID: trace.TraceID}
	}

	var (
		root  = trace.Spans[0]
		start = root.Start.AsTime()
		end   = root.End.AsTime()
	)
	for _, span := range trace.Spans[1:] {
		if st := span.Start.AsTime(); st.Before(start) {
			start = st
		}
		if et := span.End.AsTime(); et.After(end) {
			end = et
		}
		if !root.ParentSpanID.IsEmpty() && span.ParentSpanID.IsEmpty() {
			root = span
		}
	}

	var rootServiceName string
	if name, ok := root.ServiceName(); ok {
		rootServiceName = name
	}

	return Spanset{
		TraceID:         trace.TraceID,
		Spans:           trace.Spans,
		Start:           start,
		RootSpanName:    root.Name,
		RootServiceName: rootServiceName,
		TraceDuration:   end.Sub(start),
	}
}
