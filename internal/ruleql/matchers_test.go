package ruleql

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractMatchers(t *testing.T) {
	tests := []struct {
		input string
		want  []SpanMatcher
	}{
		{
			`span.status == "error"`,
			[]SpanMatcher{
				{Attribute{Prop: SpanStatus}, OpEq, strStatic("error")},
			},
		},
		{
			`trace.has(db.query)`,
			[]SpanMatcher{
				{Attribute{Prop: SpanName}, OpEq, strStatic("db.query")},
			},
		},
		{
			`trace.has(db.query).where(db.system == "postgres")`,
			[]SpanMatcher{
				{Attribute{Prop: SpanName}, OpEq, strStatic("db.query")},
				{Attribute{Name: "db.system"}, OpEq, strStatic("postgres")},
			},
		},
		{
			`span.status == "error" and trace.has(payment.charge_card)`,
			[]SpanMatcher{
				{Attribute{Prop: SpanStatus}, OpEq, strStatic("error")},
				{Attribute{Prop: SpanName}, OpEq, strStatic("payment.charge_card")},
			},
		},
		// Disjunctions are not necessary conditions.
		{
			`span.status == "error" or trace.has(payment.charge_card)`,
			nil,
		},
		// Neither are negations.
		{
			`not trace.has(audit.log)`,
			nil,
		},
		// A count may hold with zero matching spans.
		{
			`trace.count(db.query) < 3`,
			nil,
		},
		// Non-equality comparisons are skipped.
		{
			`http.status_code >= 500`,
			nil,
		},
	}
	for i, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			expr, err := Parse(tt.input)
			require.NoError(t, err)

			require.Equal(t, tt.want, ExtractMatchers(expr))
		})
	}
}

func TestSpanMatcherString(t *testing.T) {
	m := SpanMatcher{
		Attribute: Attribute{Prop: SpanStatus},
		Op:        OpEq,
		Static:    strStatic("error"),
	}
	require.Equal(t, `span.status == "error"`, m.String())
}
