// Package tracestorage defines the span model evaluated by rule engine.
package tracestorage

import (
	"time"

	"go.opentelemetry.io/collector/pdata/ptrace"

	"github.com/go-faster/traceguard/internal/otelstorage"
)

// TraceID is a trace ID.
type TraceID = otelstorage.TraceID

// SpanID is a span ID.
type SpanID = otelstorage.SpanID

// Attrs is a set of attributes.
type Attrs = otelstorage.Attrs

// Span is a data structure for span.
type Span struct {
	TraceID       TraceID               `json:"trace_id"`
	SpanID        SpanID                `json:"span_id"`
	ParentSpanID  SpanID                `json:"parent_span_id"`
	Name          string                `json:"name"`
	Kind          int32                 `json:"kind"`
	Start         otelstorage.Timestamp `json:"start"`
	End           otelstorage.Timestamp `json:"end"`
	Attrs         Attrs                 `json:"attrs"`
	StatusCode    int32                 `json:"status_code"`
	StatusMessage string                `json:"status_message"`

	ResourceAttrs Attrs `json:"resource_attrs"`
	ScopeAttrs    Attrs `json:"scope_attrs"`
}

// Duration returns span duration.
func (span Span) Duration() time.Duration {
	return span.End.AsTime().Sub(span.Start.AsTime())
}

// ServiceName returns the service name from resource attributes, if any.
func (span Span) ServiceName() (string, bool) {
	if span.ResourceAttrs.IsZero() {
		return "", false
	}
	attr, ok := span.ResourceAttrs.AsMap().Get("service.name")
	if !ok {
		return "", false
	}
	return attr.AsString(), true
}

// Status returns span status as a lowercase string.
func (span Span) Status() string {
	switch ptrace.StatusCode(span.StatusCode) {
	case ptrace.StatusCodeOk:
		return "ok"
	case ptrace.StatusCodeError:
		return "error"
	default:
		return "unset"
	}
}

// KindString returns span kind as a lowercase string.
func (span Span) KindString() string {
	switch ptrace.SpanKind(span.Kind) {
	case ptrace.SpanKindInternal:
		return "internal"
	case ptrace.SpanKindServer:
		return "server"
	case ptrace.SpanKindClient:
		return "client"
	case ptrace.SpanKindProducer:
		return "producer"
	case ptrace.SpanKindConsumer:
		return "consumer"
	default:
		return "unspecified"
	}
}
