package otelstorage

import (
	"go.opentelemetry.io/collector/pdata/pcommon"
)

// Attrs wraps attributes.
type Attrs pcommon.Map

// NewAttrs creates a new Attrs map.
func NewAttrs() Attrs {
	return Attrs(pcommon.NewMap())
}

// AsMap returns Attrs as [pcommon.Map].
func (m Attrs) AsMap() pcommon.Map {
	return pcommon.Map(m)
}

// IsZero whether Attrs is zero value.
func (m Attrs) IsZero() bool {
	return m == (Attrs{})
}

// Len returns number of entries. Zero value is handled.
func (m Attrs) Len() int {
	if m.IsZero() {
		return 0
	}
	return m.AsMap().Len()
}

// CopyTo copies all attributes from m to target.
func (m Attrs) CopyTo(target pcommon.Map) {
	m.AsMap().CopyTo(target)
}
