package otelstorage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTraceID(t *testing.T) {
	full := "00000000000000000000000000000001"

	id, err := ParseTraceID(full)
	require.NoError(t, err)
	require.Equal(t, TraceID{15: 1}, id)
	require.Equal(t, full, id.Hex())

	// Short input is padded with leading zeroes.
	short, err := ParseTraceID("1")
	require.NoError(t, err)
	require.Equal(t, id, short)

	_, err = ParseTraceID("not a trace id")
	require.Error(t, err)

	require.True(t, TraceID{}.IsEmpty())
	require.False(t, id.IsEmpty())
}

func TestSpanID(t *testing.T) {
	id := SpanIDFromUint64(10)
	require.Equal(t, uint64(10), id.AsUint64())
	require.False(t, id.IsEmpty())
	require.True(t, SpanID{}.IsEmpty())
	require.Len(t, id.Hex(), 16)
}
