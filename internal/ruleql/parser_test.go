package ruleql

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strStatic(v string) (s Static) {
	s.SetString(v)
	return s
}

func intStatic(v int64) (s Static) {
	s.SetInt(v)
	return s
}

func numStatic(v float64) (s Static) {
	s.SetNumber(v)
	return s
}

func durStatic(v time.Duration) (s Static) {
	s.SetDuration(v)
	return s
}

func boolStatic(v bool) (s Static) {
	s.SetBool(v)
	return s
}

func listStatic(elems ...Static) (s Static) {
	s.SetList(elems)
	return s
}

// nameEq is the expansion of the bare span name shorthand.
func nameEq(name string) *ComparisonExpr {
	return &ComparisonExpr{
		Field: Attribute{Prop: SpanName},
		Op:    OpEq,
		Value: strStatic(name),
	}
}

type TestCase struct {
	input   string
	want    Expr
	wantErr bool
}

var tests = []TestCase{
	{
		`span.status == "error"`,
		&ComparisonExpr{
			Field: Attribute{Prop: SpanStatus},
			Op:    OpEq,
			Value: strStatic("error"),
		},
		false,
	},
	{
		`span.duration > 500ms`,
		&ComparisonExpr{
			Field: Attribute{Prop: SpanDuration},
			Op:    OpGt,
			Value: durStatic(500 * time.Millisecond),
		},
		false,
	},
	{
		`http.status_code >= 500`,
		&ComparisonExpr{
			Field: Attribute{Name: "http.status_code"},
			Op:    OpGte,
			Value: intStatic(500),
		},
		false,
	},
	{
		`resource.deployment.environment == "prod"`,
		&ComparisonExpr{
			Field: Attribute{Name: "deployment.environment", Scope: ScopeResource},
			Op:    OpEq,
			Value: strStatic("prod"),
		},
		false,
	},
	{
		`span.attributes["http.route"] == "/checkout"`,
		&ComparisonExpr{
			Field: Attribute{Name: "http.route", Scope: ScopeSpan},
			Op:    OpEq,
			Value: strStatic("/checkout"),
		},
		false,
	},
	{
		`retry.count == 0.5`,
		&ComparisonExpr{
			Field: Attribute{Name: "retry.count"},
			Op:    OpEq,
			Value: numStatic(0.5),
		},
		false,
	},
	{
		`feature.enabled == true`,
		&ComparisonExpr{
			Field: Attribute{Name: "feature.enabled"},
			Op:    OpEq,
			Value: boolStatic(true),
		},
		false,
	},
	{
		`trace.has(payment.charge_card)`,
		&HasExpr{Pattern: nameEq("payment.charge_card")},
		false,
	},
	{
		`trace.has(span.name == "db.query")`,
		&HasExpr{
			Pattern: &ComparisonExpr{
				Field: Attribute{Prop: SpanName},
				Op:    OpEq,
				Value: strStatic("db.query"),
			},
		},
		false,
	},
	{
		`trace.has(db.query).where(db.system == "postgres")`,
		&HasExpr{
			Pattern: nameEq("db.query"),
			Where: []*WhereExpr{
				{
					Attribute: Attribute{Name: "db.system"},
					Op:        OpEq,
					Value:     strStatic("postgres"),
				},
			},
		},
		false,
	},
	{
		`trace.has(db.query).where(db.system == "postgres").where(db.rows_affected > 100)`,
		&HasExpr{
			Pattern: nameEq("db.query"),
			Where: []*WhereExpr{
				{
					Attribute: Attribute{Name: "db.system"},
					Op:        OpEq,
					Value:     strStatic("postgres"),
				},
				{
					Attribute: Attribute{Name: "db.rows_affected"},
					Op:        OpGt,
					Value:     intStatic(100),
				},
			},
		},
		false,
	},
	{
		`trace.count(db.query) > 3`,
		&CountExpr{
			Pattern: nameEq("db.query"),
			Op:      OpGt,
			Value:   3,
		},
		false,
	},
	{
		`trace.count(span.kind == "client").where(net.peer.name == "redis") <= 10`,
		&CountExpr{
			Pattern: &ComparisonExpr{
				Field: Attribute{Prop: SpanKind},
				Op:    OpEq,
				Value: strStatic("client"),
			},
			Where: []*WhereExpr{
				{
					Attribute: Attribute{Name: "net.peer.name"},
					Op:        OpEq,
					Value:     strStatic("redis"),
				},
			},
			Op:    OpLte,
			Value: 10,
		},
		false,
	},
	{
		`trace.has(db.query or cache.get)`,
		&HasExpr{
			Pattern: &BinaryExpr{
				Left:  nameEq("db.query"),
				Op:    OpOr,
				Right: nameEq("cache.get"),
			},
		},
		false,
	},
	{
		`trace.has(span.kind == "client" and span.duration > 1s)`,
		&HasExpr{
			Pattern: &BinaryExpr{
				Left: &ComparisonExpr{
					Field: Attribute{Prop: SpanKind},
					Op:    OpEq,
					Value: strStatic("client"),
				},
				Op: OpAnd,
				Right: &ComparisonExpr{
					Field: Attribute{Prop: SpanDuration},
					Op:    OpGt,
					Value: durStatic(time.Second),
				},
			},
		},
		false,
	},
	{
		`not trace.has(audit.log)`,
		&NotExpr{Expr: &HasExpr{Pattern: nameEq("audit.log")}},
		false,
	},
	{
		// or binds weaker than and.
		`a == 1 or b == 2 and c == 3`,
		&BinaryExpr{
			Left: &ComparisonExpr{
				Field: Attribute{Name: "a"},
				Op:    OpEq,
				Value: intStatic(1),
			},
			Op: OpOr,
			Right: &BinaryExpr{
				Left: &ComparisonExpr{
					Field: Attribute{Name: "b"},
					Op:    OpEq,
					Value: intStatic(2),
				},
				Op: OpAnd,
				Right: &ComparisonExpr{
					Field: Attribute{Name: "c"},
					Op:    OpEq,
					Value: intStatic(3),
				},
			},
		},
		false,
	},
	{
		// Parens override precedence.
		`(a == 1 or b == 2) and c == 3`,
		&BinaryExpr{
			Left: &BinaryExpr{
				Left: &ComparisonExpr{
					Field: Attribute{Name: "a"},
					Op:    OpEq,
					Value: intStatic(1),
				},
				Op: OpOr,
				Right: &ComparisonExpr{
					Field: Attribute{Name: "b"},
					Op:    OpEq,
					Value: intStatic(2),
				},
			},
			Op: OpAnd,
			Right: &ComparisonExpr{
				Field: Attribute{Name: "c"},
				Op:    OpEq,
				Value: intStatic(3),
			},
		},
		false,
	},
	{
		// Parens keep a same-operator right child right-nested.
		`a == 1 and (b == 2 and c == 3)`,
		&BinaryExpr{
			Left: &ComparisonExpr{
				Field: Attribute{Name: "a"},
				Op:    OpEq,
				Value: intStatic(1),
			},
			Op: OpAnd,
			Right: &BinaryExpr{
				Left: &ComparisonExpr{
					Field: Attribute{Name: "b"},
					Op:    OpEq,
					Value: intStatic(2),
				},
				Op: OpAnd,
				Right: &ComparisonExpr{
					Field: Attribute{Name: "c"},
					Op:    OpEq,
					Value: intStatic(3),
				},
			},
		},
		false,
	},
	{
		`a == 1 or (b == 2 or c == 3)`,
		&BinaryExpr{
			Left: &ComparisonExpr{
				Field: Attribute{Name: "a"},
				Op:    OpEq,
				Value: intStatic(1),
			},
			Op: OpOr,
			Right: &BinaryExpr{
				Left: &ComparisonExpr{
					Field: Attribute{Name: "b"},
					Op:    OpEq,
					Value: intStatic(2),
				},
				Op: OpOr,
				Right: &ComparisonExpr{
					Field: Attribute{Name: "c"},
					Op:    OpEq,
					Value: intStatic(3),
				},
			},
		},
		false,
	},
	{
		// not binds tighter than and.
		`not a == 1 and b == 2`,
		&BinaryExpr{
			Left: &NotExpr{
				Expr: &ComparisonExpr{
					Field: Attribute{Name: "a"},
					Op:    OpEq,
					Value: intStatic(1),
				},
			},
			Op: OpAnd,
			Right: &ComparisonExpr{
				Field: Attribute{Name: "b"},
				Op:    OpEq,
				Value: intStatic(2),
			},
		},
		false,
	},
	{
		`http.status_code in [500, 502, 503]`,
		&ComparisonExpr{
			Field: Attribute{Name: "http.status_code"},
			Op:    OpIn,
			Value: listStatic(intStatic(500), intStatic(502), intStatic(503)),
		},
		false,
	},
	{
		`span.name matches "db\\..+"`,
		&ComparisonExpr{
			Field: Attribute{Prop: SpanName},
			Op:    OpMatches,
			Value: strStatic(`db\..+`),
		},
		false,
	},
	{
		// Bare word compared as a string.
		`span.status == error`,
		&ComparisonExpr{
			Field: Attribute{Prop: SpanStatus},
			Op:    OpEq,
			Value: strStatic("error"),
		},
		false,
	},

	// Syntax errors.
	{``, nil, true},
	{`   `, nil, true},
	{`# just a comment`, nil, true},
	{`span.duration >`, nil, true},
	{`trace.sum(db.query)`, nil, true},
	{`trace.has(db.query`, nil, true},
	{`trace.has()`, nil, true},
	{`span.status ==`, nil, true},
	{`and span.status == "error"`, nil, true},
	{`span.status == "error" extra`, nil, true},
	{`span.name matches "["`, nil, true},
	{`trace.has(x).where(y)`, nil, true},

	// Type errors.
	{`span.duration == "slow"`, nil, true},
	{`span.duration matches "x+"`, nil, true},
	{`span.status in [1, 2]`, nil, true},
	{`x in [1, "a"]`, nil, true},
	{`x in [[1], [2]]`, nil, true},
	{`x in 10`, nil, true},
	{`x > true`, nil, true},
	{`x == [1, 2]`, nil, true},
	{`trace.count(db.query) matches "3"`, nil, true},
	{`span.name matches 10`, nil, true},
}

func TestParse(t *testing.T) {
	for i, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			defer func() {
				if t.Failed() {
					t.Logf("Input:\n%s", tt.input)
				}
			}()

			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

// Parsing must be a pure function of input and limits.
func TestParseDeterministic(t *testing.T) {
	for i, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			first, errFirst := Parse(tt.input)
			second, errSecond := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, errFirst)
				require.Error(t, errSecond)
				require.Equal(t, errFirst.Error(), errSecond.Error())
				return
			}
			require.NoError(t, errFirst)
			require.NoError(t, errSecond)
			require.Equal(t, first, second)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for i, tt := range tests {
		if tt.wantErr {
			continue
		}
		tt := tt
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			expr, err := Parse(tt.input)
			require.NoError(t, err)

			printed := ExprString(expr)
			reparsed, err := Parse(printed)
			require.NoError(t, err, "printed: %s", printed)
			require.Equal(t, expr, reparsed, "printed: %s", printed)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	input := `span.duration >`
	_, err := Parse(input)
	require.Error(t, err)

	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, len(input), serr.Pos.Offset)
}

func TestParseDepthLimit(t *testing.T) {
	limits := ResourceLimits{MaxExpressionDepth: 4}

	// Depth equal to the limit is accepted.
	atLimit := `((((x == 1))))`
	_, err := ParseWith(atLimit, limits)
	require.NoError(t, err)

	// One more level is rejected.
	overLimit := `(((((x == 1)))))`
	_, err = ParseWith(overLimit, limits)
	require.Error(t, err)

	var lerr *LimitError
	require.ErrorAs(t, err, &lerr)
}

func TestParseSourceLengthLimit(t *testing.T) {
	_, err := ParseWith(`span.status == "error"`, ResourceLimits{MaxStringLength: 10})
	require.Error(t, err)

	var lerr *LimitError
	require.ErrorAs(t, err, &lerr)
}

func FuzzParse(f *testing.F) {
	for _, tt := range tests {
		f.Add(tt.input)
	}
	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil || t.Failed() {
				t.Logf("Input:\n%s", input)
			}
		}()
		_, _ = Parse(input)
	})
}
