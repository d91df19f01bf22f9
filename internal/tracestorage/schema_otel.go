package tracestorage

import (
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
)

// NewSpanFromOTEL creates new Span.
func NewSpanFromOTEL(
	res pcommon.Resource,
	scope pcommon.InstrumentationScope,
	span ptrace.Span,
) (s Span) {
	status := span.Status()
	s = Span{
		TraceID:       TraceID(span.TraceID()),
		SpanID:        SpanID(span.SpanID()),
		ParentSpanID:  SpanID(span.ParentSpanID()),
		Name:          span.Name(),
		Kind:          int32(span.Kind()),
		Start:         span.StartTimestamp(),
		End:           span.EndTimestamp(),
		Attrs:         Attrs(span.Attributes()),
		StatusCode:    int32(status.Code()),
		StatusMessage: status.Message(),
		ResourceAttrs: Attrs(res.Attributes()),
		ScopeAttrs:    Attrs(scope.Attributes()),
	}
	return s
}

// FillOTELSpan fills given OpenTelemetry span using span fields.
func (span Span) FillOTELSpan(s ptrace.Span) {
	s.SetTraceID(pcommon.TraceID(span.TraceID))
	s.SetSpanID(pcommon.SpanID(span.SpanID))
	if p := span.ParentSpanID; !p.IsEmpty() {
		s.SetParentSpanID(pcommon.SpanID(p))
	}
	s.SetName(span.Name)
	s.SetKind(ptrace.SpanKind(span.Kind))
	s.SetStartTimestamp(span.Start)
	s.SetEndTimestamp(span.End)
	if !span.Attrs.IsZero() {
		span.Attrs.CopyTo(s.Attributes())
	}

	status := s.Status()
	status.SetCode(ptrace.StatusCode(span.StatusCode))
	status.SetMessage(span.StatusMessage)
}

// Spans converts ptrace.Traces into a flat span list in document order.
func Spans(traces ptrace.Traces) (result []Span) {
	resSpans := traces.ResourceSpans()
	for i := 0; i < resSpans.Len(); i++ {
		resSpan := resSpans.At(i)
		res := resSpan.Resource()

		scopeSpans := resSpan.ScopeSpans()
		for j := 0; j < scopeSpans.Len(); j++ {
			scopeSpan := scopeSpans.At(j)
			scope := scopeSpan.Scope()

			spans := scopeSpan.Spans()
			for k := 0; k < spans.Len(); k++ {
				result = append(result, NewSpanFromOTEL(res, scope, spans.At(k)))
			}
		}
	}
	return result
}
