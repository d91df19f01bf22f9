package ruleql

import "time"

// ResourceLimits bounds the work a single rule may cause during parsing
// and evaluation. Limits are structural counters checked inline, except
// MaxEvaluationDuration which is a wall-clock budget enforced by the
// evaluator in combination with the caller's context deadline.
type ResourceLimits struct {
	// MaxExpressionDepth bounds expression nesting at parse time.
	MaxExpressionDepth int
	// MaxSpansPerTrace bounds the size of an evaluated trace.
	MaxSpansPerTrace int
	// MaxAttributeEntries bounds the size of a single attribute map.
	MaxAttributeEntries int
	// MaxStringLength bounds rule source length and attribute string values.
	MaxStringLength int
	// MaxEvaluationDuration bounds a single rule evaluation.
	MaxEvaluationDuration time.Duration
}

// DefaultResourceLimits returns limits suitable for untrusted rules.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxExpressionDepth:    100,
		MaxSpansPerTrace:      100_000,
		MaxAttributeEntries:   10_000,
		MaxStringLength:       1_048_576,
		MaxEvaluationDuration: time.Second,
	}
}

// Or returns limits with zero fields replaced by defaults.
func (l ResourceLimits) Or(def ResourceLimits) ResourceLimits {
	if l.MaxExpressionDepth == 0 {
		l.MaxExpressionDepth = def.MaxExpressionDepth
	}
	if l.MaxSpansPerTrace == 0 {
		l.MaxSpansPerTrace = def.MaxSpansPerTrace
	}
	if l.MaxAttributeEntries == 0 {
		l.MaxAttributeEntries = def.MaxAttributeEntries
	}
	if l.MaxStringLength == 0 {
		l.MaxStringLength = def.MaxStringLength
	}
	if l.MaxEvaluationDuration == 0 {
		l.MaxEvaluationDuration = def.MaxEvaluationDuration
	}
	return l
}
