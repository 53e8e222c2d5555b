package planner

import (
	"strings"

	"github.com/Knetic/govaluate"
)

// ExpressionEvaluator backs the ConditionEvaluator's When{expression} case
// with a real boolean expression engine, grounded on the (( calc )) operator
// pattern: parse with govaluate, evaluate against a variable bag.
//
// The upstream placeholder semantics ("true iff the expression is a
// non-empty string") are preserved as the fallback for anything that isn't
// valid govaluate syntax — bare Jinja-style `{{ var }}` tokens, Ansible
// boolean shorthand, or a parse error all fall back to non-empty-string
// truthiness rather than erroring, matching the documented wire format exactly for those
// inputs.
type ExpressionEvaluator struct{}

// NewExpressionEvaluator constructs an ExpressionEvaluator.
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{}
}

// Evaluate reports whether expr is truthy given vars.
func (e *ExpressionEvaluator) Evaluate(expr string, vars map[string]any) bool {
	if expr == "" {
		return false
	}

	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return true // placeholder fallback: non-empty string
	}

	params := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		params[k] = v
	}

	result, err := expression.Evaluate(params)
	if err != nil {
		// Unresolvable variable reference (e.g. an undeclared Ansible
		// fact) — fall back to the non-empty-string placeholder rather
		// than failing the downstream evaluation outright.
		return true
	}

	switch v := result.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	default:
		return result != nil
	}
}
