package ruleqlengine

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-faster/traceguard/internal/otelstorage"
	"github.com/go-faster/traceguard/internal/ruleql"
)

// RuleOptions sets rule metadata.
type RuleOptions struct {
	// ID identifies the rule, a random one is generated when empty.
	ID uuid.UUID
	// Name is a human-readable rule name.
	Name string
	// Description explains what a match means.
	Description string
	// Severity is reported with every match, defaults to "MEDIUM".
	Severity string
}

// Rule is a named, compiled RuleQL rule.
type Rule struct {
	ID          uuid.UUID
	Name        string
	Description string
	Severity    string

	// Source is the rule text the rule was compiled from.
	Source string

	expr    ruleql.Expr
	matcher *Matcher
}

// CompileRule parses and compiles a rule with given limits.
func CompileRule(source string, limits ruleql.ResourceLimits, opts RuleOptions) (*Rule, error) {
	expr, err := ruleql.ParseWith(source, limits)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	matcher, err := BuildMatcher(expr)
	if err != nil {
		return nil, errors.Wrap(err, "build matcher")
	}

	if opts.ID == uuid.Nil {
		opts.ID = uuid.New()
	}
	if opts.Severity == "" {
		opts.Severity = "MEDIUM"
	}
	return &Rule{
		ID:          opts.ID,
		Name:        opts.Name,
		Description: opts.Description,
		Severity:    opts.Severity,
		Source:      source,
		expr:        expr,
		matcher:     matcher,
	}, nil
}

// Expr returns the parsed rule expression.
func (r *Rule) Expr() ruleql.Expr {
	return r.expr
}

// Fingerprint identifies the rule semantics regardless of metadata, two
// rules that print the same have the same fingerprint.
func (r *Rule) Fingerprint() otelstorage.Hash {
	return otelstorage.StrHash(ruleql.ExprString(r.expr))
}

// Match is a single rule verdict for a trace.
type Match struct {
	Rule    *Rule
	TraceID otelstorage.TraceID
	Result  EvalResult
}

// Ruleset evaluates a set of rules against traces.
//
// A failing rule is skipped with a logged error, one broken or
// oversized rule does not block the rest of the set.
type Ruleset struct {
	rules  []*Rule
	limits ruleql.ResourceLimits
}

// NewRuleset creates new Ruleset.
func NewRuleset(limits ruleql.ResourceLimits) *Ruleset {
	return &Ruleset{
		limits: limits.Or(ruleql.DefaultResourceLimits()),
	}
}

// Add compiles the rule and adds it to the set. Rules with a
// fingerprint already present in the set are rejected.
func (s *Ruleset) Add(source string, opts RuleOptions) (*Rule, error) {
	rule, err := CompileRule(source, s.limits, opts)
	if err != nil {
		return nil, err
	}

	fp := rule.Fingerprint()
	for _, r := range s.rules {
		if r.Fingerprint() == fp {
			return nil, errors.Errorf("duplicate of rule %q", r.Name)
		}
	}

	s.rules = append(s.rules, rule)
	return rule, nil
}

// Rules returns rules in the order they were added.
func (s *Ruleset) Rules() []*Rule {
	return s.rules
}

// EvalTrace evaluates every rule against the trace and returns matches
// in rule order.
func (s *Ruleset) EvalTrace(ctx context.Context, elem Trace) []Match {
	var (
		set     = NewSpanset(elem)
		matches []Match
	)
	for _, rule := range s.rules {
		result, err := rule.matcher.EvalSpanset(set, newGuard(ctx, s.limits))
		if err != nil {
			zctx.From(ctx).Warn("Rule evaluation failed",
				zap.Stringer("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.String("trace_id", set.TraceID.Hex()),
				zap.Error(err),
			)
			continue
		}
		if !result.Matched {
			continue
		}
		matches = append(matches, Match{
			Rule:    rule,
			TraceID: set.TraceID,
			Result:  result,
		})
	}
	return matches
}
