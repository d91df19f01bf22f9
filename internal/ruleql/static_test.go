package ruleql

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/pcommon"
)

func TestStaticCompare(t *testing.T) {
	tests := []struct {
		a, b       Static
		want       int
		comparable bool
	}{
		{strStatic("a"), strStatic("a"), 0, true},
		{strStatic("a"), strStatic("b"), -1, true},
		{intStatic(2), intStatic(1), 1, true},
		// Numeric kinds are mutually comparable.
		{intStatic(10), numStatic(10.5), -1, true},
		{numStatic(10.5), intStatic(10), 1, true},
		{durStatic(time.Second), intStatic(0), 1, true},
		{boolStatic(true), boolStatic(false), 1, true},

		// Incompatible kinds.
		{strStatic("10"), intStatic(10), 0, false},
		{boolStatic(true), intStatic(1), 0, false},
		{Static{Type: TypeNil}, strStatic(""), 0, false},
	}
	for i, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			got, ok := tt.a.Compare(tt.b)
			require.Equal(t, tt.comparable, ok)
			if ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStaticSetOTELValue(t *testing.T) {
	m := pcommon.NewMap()
	require.NoError(t, m.FromRaw(map[string]any{
		"str":    "foo",
		"int":    int64(10),
		"double": 3.14,
		"bool":   true,
		"slice":  []any{"a", "b"},
	}))

	check := func(key string, wantOK bool, want Static) {
		v, ok := m.Get(key)
		require.True(t, ok)

		var s Static
		require.Equal(t, wantOK, s.SetOTELValue(v), "key %s", key)
		if wantOK {
			require.Equal(t, want, s, "key %s", key)
		}
	}
	check("str", true, strStatic("foo"))
	check("int", true, intStatic(10))
	check("double", true, numStatic(3.14))
	check("bool", true, boolStatic(true))
	// Complex values are not representable.
	check("slice", false, Static{})
}

// Printed statics parse back to the same value and type.
func TestStaticStringRoundTrip(t *testing.T) {
	statics := []Static{
		strStatic("foo"),
		strStatic(`with "quotes" and \`),
		intStatic(10),
		intStatic(-10),
		numStatic(10.5),
		// Whole-valued floats must stay floats when reparsed.
		numStatic(5),
		durStatic(500 * time.Millisecond),
		durStatic(90 * time.Minute),
		boolStatic(true),
		listStatic(intStatic(1), intStatic(2)),
	}
	for i, s := range statics {
		s := s
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			expr, err := Parse(fmt.Sprintf("x == %s", s))
			if s.Type == TypeList {
				expr, err = Parse(fmt.Sprintf("x in %s", s))
			}
			require.NoError(t, err, "printed: %s", s)

			cmp, ok := expr.(*ComparisonExpr)
			require.True(t, ok)
			require.Equal(t, s, cmp.Value, "printed: %s", s)
		})
	}
}
