package ruleqlengine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/go-faster/traceguard/internal/ruleql"
)

func TestRuleDefaults(t *testing.T) {
	rule, err := CompileRule(`trace.has(db.query)`, ruleql.DefaultResourceLimits(), RuleOptions{
		Name: "slow db",
	})
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, rule.ID)
	require.Equal(t, "MEDIUM", rule.Severity)
	require.Equal(t, `trace.has(db.query)`, rule.Source)
}

func TestRuleFingerprint(t *testing.T) {
	limits := ruleql.DefaultResourceLimits()

	a, err := CompileRule(`trace.has(db.query)`, limits, RuleOptions{Name: "a"})
	require.NoError(t, err)

	// Formatting and metadata do not change the fingerprint.
	b, err := CompileRule("trace.has( db.query )  # same rule", limits, RuleOptions{Name: "b", Severity: "HIGH"})
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	c, err := CompileRule(`trace.has(cache.get)`, limits, RuleOptions{Name: "c"})
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestRulesetDuplicate(t *testing.T) {
	set := NewRuleset(ruleql.ResourceLimits{})

	_, err := set.Add(`trace.has(db.query)`, RuleOptions{Name: "first"})
	require.NoError(t, err)

	_, err = set.Add(`trace.has( db.query )`, RuleOptions{Name: "second"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")

	require.Len(t, set.Rules(), 1)
}

func TestRulesetEvalTrace(t *testing.T) {
	set := NewRuleset(ruleql.ResourceLimits{})

	errRule, err := set.Add(`span.status == "error"`, RuleOptions{Name: "errors", Severity: "HIGH"})
	require.NoError(t, err)

	_, err = set.Add(`trace.has(audit.log)`, RuleOptions{Name: "audited"})
	require.NoError(t, err)

	queries, err := set.Add(`trace.count(db.query) > 1`, RuleOptions{Name: "chatty db"})
	require.NoError(t, err)

	elem := buildTrace(1, []testSpan{
		{id: 1},
		{id: 2, parent: 1, name: "db.query"},
		{id: 3, parent: 1, name: "db.query"},
		{id: 4, parent: 1, name: "http.request", status: 2},
	})

	matches := set.EvalTrace(context.Background(), elem)
	require.Len(t, matches, 2)

	// Matches come in rule order.
	require.Same(t, errRule, matches[0].Rule)
	require.Same(t, queries, matches[1].Rule)

	require.True(t, matches[1].Result.HasCount)
	require.Equal(t, int64(2), matches[1].Result.Count)
}

func TestRulesetErrorIsolation(t *testing.T) {
	set := NewRuleset(ruleql.ResourceLimits{MaxSpansPerTrace: 2})

	_, err := set.Add(`trace.has(db.query)`, RuleOptions{Name: "any"})
	require.NoError(t, err)

	// Oversized trace fails every rule, but evaluation does not panic
	// or return matches.
	elem := buildTrace(1, []testSpan{
		{id: 1},
		{id: 2, parent: 1, name: "db.query"},
		{id: 3, parent: 1, name: "db.query"},
	})
	require.Empty(t, set.EvalTrace(context.Background(), elem))
}
