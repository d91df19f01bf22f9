// Package otelstorage provides common OpenTelemetry storage primitives.
package otelstorage

import (
	"encoding/binary"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/collector/pdata/pcommon"
)

// TraceID is OpenTelemetry trace ID.
type TraceID [16]byte

// ParseTraceID parses trace ID from given string.
//
// Deals with missing leading zeroes.
func ParseTraceID(input string) (_ TraceID, err error) {
	var id uuid.UUID

	if len(input) >= 32 {
		id, err = uuid.Parse(input)
	} else {
		// Pad the input with leading zeroes up to 32 hex digits.
		var hex [32]byte
		for i := range hex {
			hex[i] = '0'
		}
		copy(hex[len(hex)-len(input):], input)
		id, err = uuid.ParseBytes(hex[:])
	}
	return TraceID(id), err
}

// IsEmpty returns true if trace ID is empty.
func (id TraceID) IsEmpty() bool {
	return pcommon.TraceID(id).IsEmpty()
}

// Hex returns a hex representation of TraceID.
func (id TraceID) Hex() string {
	const hextable = "0123456789abcdef"
	var sb strings.Builder
	sb.Grow(len(id) * 2)
	for _, c := range id {
		sb.WriteByte(hextable[c>>4])
		sb.WriteByte(hextable[c&0x0f])
	}
	return sb.String()
}

// SpanID is OpenTelemetry span ID.
type SpanID [8]byte

// SpanIDFromUint64 creates new SpanID from uint64.
func SpanIDFromUint64(v uint64) (r SpanID) {
	binary.LittleEndian.PutUint64(r[:], v)
	return r
}

// AsUint64 returns span ID as LittleEndian uint64.
func (id SpanID) AsUint64() uint64 {
	return binary.LittleEndian.Uint64(id[:])
}

// IsEmpty returns true if span ID is empty.
func (id SpanID) IsEmpty() bool {
	return pcommon.SpanID(id).IsEmpty()
}

// Hex returns a hex representation of SpanID.
func (id SpanID) Hex() string {
	const hextable = "0123456789abcdef"
	var sb strings.Builder
	sb.Grow(len(id) * 2)
	for _, c := range id {
		sb.WriteByte(hextable[c>>4])
		sb.WriteByte(hextable[c&0x0f])
	}
	return sb.String()
}
