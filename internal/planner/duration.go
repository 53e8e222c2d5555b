package planner

import (
	"time"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

var baseDurations = map[string]time.Duration{
	"debug":       100 * time.Millisecond,
	"assert":      100 * time.Millisecond,
	"fail":        100 * time.Millisecond,
	"meta":        100 * time.Millisecond,
	"pause":       0,
	"prompt":      0,
	"vars_prompt": 0,
	"file":        1 * time.Second,
	"lineinfile":  1 * time.Second,
	"user":        1 * time.Second,
	"group":       1 * time.Second,
	"cron":        1 * time.Second,
	"copy":        2 * time.Second,
	"template":    2 * time.Second,
	"fetch":       2 * time.Second,
	"shell":       3 * time.Second,
	"command":     3 * time.Second,
	"raw":         3 * time.Second,
	"service":     5 * time.Second,
	"systemd":     5 * time.Second,
	"package":     30 * time.Second,
	"yum":         30 * time.Second,
	"apt":         30 * time.Second,
}

const unknownModuleDuration = 5 * time.Second

// EstimateTaskDuration estimates a single task's duration: a base
// duration from the module's fixed table, then a complexity multiplier.
func EstimateTaskDuration(t types.Task) time.Duration {
	base, ok := baseDurations[t.Module]
	if !ok {
		base = unknownModuleDuration
	}

	multiplier := 1.0

	// Arg-count tier: use the larger tier, not a cumulative product.
	argCount := len(t.Args)
	switch {
	case argCount > 10:
		multiplier *= 1.5
	case argCount > 5:
		multiplier *= 1.2
	}

	if t.When != "" {
		multiplier *= 1.1
	}
	if len(t.Notify) > 0 {
		multiplier *= 1.1
	}

	switch t.Module {
	case "shell", "command", "raw":
		multiplier *= 1.5
	}

	if t.Module == "package" {
		if state, ok := t.StringArg("state"); ok && (state == "present" || state == "latest") {
			multiplier *= 2.0
		}
	}

	if t.Module == "copy" || t.Module == "template" {
		if _, ok := t.Args["backup"]; ok {
			multiplier *= 1.3
		}
	}

	return time.Duration(float64(base) * multiplier)
}

// EstimateBatchDuration computes a batch's duration: if any parallel
// group references tasks within the batch, the batch time is the slowest
// parallel group plus the sum of the remaining (sequential) tasks;
// otherwise it is the sum of all task durations.
func EstimateBatchDuration(batch types.ExecutionBatch) time.Duration {
	durations := make(map[string]time.Duration, len(batch.Tasks))
	for _, t := range batch.Tasks {
		if t.Duration != nil {
			durations[t.ID] = *t.Duration
		}
	}

	if len(batch.ParallelSets) == 0 {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		return total
	}

	inParallelGroup := make(map[string]bool)
	var maxGroup time.Duration
	for _, group := range batch.ParallelSets {
		var groupMax time.Duration
		for _, id := range group.TaskIDs {
			inParallelGroup[id] = true
			if d := durations[id]; d > groupMax {
				groupMax = d
			}
		}
		if groupMax > maxGroup {
			maxGroup = groupMax
		}
	}

	var sequential time.Duration
	for id, d := range durations {
		if !inParallelGroup[id] {
			sequential += d
		}
	}

	return maxGroup + sequential
}

// EstimatePlayDuration computes a play's total duration, which
// depends on its execution strategy.
func EstimatePlayDuration(strategy types.ExecutionStrategy, batches []types.ExecutionBatch) time.Duration {
	var sum time.Duration
	var max time.Duration
	for _, b := range batches {
		d := EstimateBatchDuration(b)
		sum += d
		if d > max {
			max = d
		}
	}

	switch strategy.Kind {
	case types.StrategyFree:
		return max
	case types.StrategyRolling:
		return time.Duration(float64(sum) * 0.8)
	case types.StrategyBinaryHybrid, types.StrategyBinaryOnly:
		return 10*time.Second + time.Duration(float64(sum)*0.3)
	default: // Linear and anything else
		return sum
	}
}
