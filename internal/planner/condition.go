package planner

import (
	"strings"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// CompileTaskConditions lifts a task's when/tags/check-mode into the
// ordered ExecutionCondition list the planner attaches to its TaskPlan.
// The planner itself never evaluates these.
func CompileTaskConditions(t types.Task, checkMode bool) []types.ExecutionCondition {
	var conds []types.ExecutionCondition
	if t.When != "" {
		conds = append(conds, types.WhenCondition(t.When))
	}
	if len(t.Tags) > 0 {
		conds = append(conds, types.TagCondition(t.Tags))
	}
	if checkMode {
		conds = append(conds, types.CheckModeCondition(true))
	}
	return conds
}

// CompileHandlerConditions lifts only a handler's when into a condition
// list: handlers don't carry tags or check-mode gating.
func CompileHandlerConditions(h types.Handler) []types.ExecutionCondition {
	if h.When == "" {
		return nil
	}
	return []types.ExecutionCondition{types.WhenCondition(h.When)}
}

// ExecutionContext is the runtime state a downstream executor evaluates
// conditions against. The planner never constructs one itself — this type
// exists purely to define ConditionEvaluator's semantics.
type ExecutionContext struct {
	ActiveTags  []string
	SkipTags    []string
	CurrentHost string
	CheckMode   bool
	Variables   map[string]any
}

func (ctx ExecutionContext) hasTag(tag string) bool {
	for _, t := range ctx.ActiveTags {
		if t == tag {
			return true
		}
	}
	return false
}

// ConditionEvaluator provides runtime semantics for ExecutionCondition
// values. It is used by a downstream
// executor, never by the planner itself.
type ConditionEvaluator struct {
	expr *ExpressionEvaluator
}

// NewConditionEvaluator constructs an evaluator backed by a real boolean
// expression engine for When conditions.
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{expr: NewExpressionEvaluator()}
}

// Evaluate reports whether cond holds under ctx.
func (ce *ConditionEvaluator) Evaluate(cond types.ExecutionCondition, ctx ExecutionContext) bool {
	switch cond.Kind {
	case types.ConditionWhen:
		return ce.expr.Evaluate(cond.Expression, ctx.Variables)
	case types.ConditionTag:
		for _, t := range cond.Tags {
			if ctx.hasTag(t) {
				return true
			}
		}
		return false
	case types.ConditionSkipTag:
		for _, t := range cond.Tags {
			if ctx.hasTag(t) {
				return false
			}
		}
		return true
	case types.ConditionHost:
		return strings.Contains(ctx.CurrentHost, cond.Pattern)
	case types.ConditionCheckMode:
		return cond.Enabled == ctx.CheckMode
	default:
		return false
	}
}

// EvaluateAll reports whether every condition in conds holds (conjunction),
// matching how a downstream executor gates a task on its compiled
// condition list.
func (ce *ConditionEvaluator) EvaluateAll(conds []types.ExecutionCondition, ctx ExecutionContext) bool {
	for _, c := range conds {
		if !ce.Evaluate(c, ctx) {
			return false
		}
	}
	return true
}
