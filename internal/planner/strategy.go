package planner

import (
	"fmt"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// PlanBatches runs the Strategy Planner: given an ordered TaskPlan
// list and the play's resolved host list, produces ordered ExecutionBatch
// values with inter-batch dependencies appropriate to the strategy.
//
// This is the single canonical batch-construction path; earlier drafts of
// the upstream tool this was grounded on duplicated this logic in two
// places (a strategy-specific planner and a general execution-plan
// assembler) with subtly different Rolling semantics — this module keeps
// only one.
func PlanBatches(strategy types.ExecutionStrategy, tasks []types.TaskPlan, hosts []string) []types.ExecutionBatch {
	switch strategy.Kind {
	case types.StrategyFree:
		return planFree(tasks, hosts)
	case types.StrategyRolling:
		return planRolling(strategy.BatchSize, tasks, hosts)
	case types.StrategyHostPinned:
		return planHostPinned(tasks, hosts)
	case types.StrategyBinaryHybrid, types.StrategyBinaryOnly:
		return planComposite(tasks, hosts)
	default: // Linear
		return planLinear(tasks, hosts)
	}
}

func batchID(i int) string { return fmt.Sprintf("batch-%d", i) }

func withHosts(t types.TaskPlan, hosts []string) types.TaskPlan {
	t.Hosts = hosts
	return t
}

func planLinear(tasks []types.TaskPlan, hosts []string) []types.ExecutionBatch {
	batches := make([]types.ExecutionBatch, 0, len(tasks))
	for i, t := range tasks {
		b := types.ExecutionBatch{
			ID:    batchID(i),
			Hosts: hosts,
			Tasks: []types.TaskPlan{withHosts(t, hosts)},
		}
		if i > 0 {
			b.Dependencies = []string{batchID(i - 1)}
		}
		batches = append(batches, b)
	}
	return batches
}

func planFree(tasks []types.TaskPlan, hosts []string) []types.ExecutionBatch {
	var parallel []types.TaskPlan
	var sequential []types.TaskPlan
	for _, t := range tasks {
		if t.CanRunParallel {
			parallel = append(parallel, withHosts(t, hosts))
		} else {
			sequential = append(sequential, withHosts(t, hosts))
		}
	}

	var batches []types.ExecutionBatch
	idx := 0
	var lastID string

	if len(parallel) > 0 {
		pb := types.ExecutionBatch{ID: batchID(idx), Hosts: hosts, Tasks: parallel}
		batches = append(batches, pb)
		lastID = pb.ID
		idx++
	}

	for _, t := range sequential {
		b := types.ExecutionBatch{ID: batchID(idx), Hosts: hosts, Tasks: []types.TaskPlan{t}}
		if lastID != "" {
			b.Dependencies = []string{lastID}
		}
		batches = append(batches, b)
		lastID = b.ID
		idx++
	}

	return batches
}

func planRolling(window int, tasks []types.TaskPlan, hosts []string) []types.ExecutionBatch {
	if len(tasks) == 0 || len(hosts) == 0 {
		return nil
	}
	if window <= 0 {
		window = len(hosts)
	}

	var windows [][]string
	for i := 0; i < len(hosts); i += window {
		end := i + window
		if end > len(hosts) {
			end = len(hosts)
		}
		windows = append(windows, hosts[i:end])
	}

	batches := make([]types.ExecutionBatch, 0, len(windows))
	for i, w := range windows {
		rewritten := make([]types.TaskPlan, len(tasks))
		for j, t := range tasks {
			tc := t
			tc.Hosts = w
			rewritten[j] = tc
		}
		b := types.ExecutionBatch{ID: batchID(i), Hosts: w, Tasks: rewritten}
		if i > 0 {
			b.Dependencies = []string{batchID(i - 1)}
		}
		batches = append(batches, b)
	}
	return batches
}

func planHostPinned(tasks []types.TaskPlan, hosts []string) []types.ExecutionBatch {
	batches := make([]types.ExecutionBatch, 0, len(hosts))
	for i, h := range hosts {
		pinned := make([]types.TaskPlan, len(tasks))
		for j, t := range tasks {
			tc := t
			tc.Hosts = []string{h}
			pinned[j] = tc
		}
		batches = append(batches, types.ExecutionBatch{
			ID:    batchID(i),
			Hosts: []string{h},
			Tasks: pinned,
		})
	}
	return batches
}

func planComposite(tasks []types.TaskPlan, hosts []string) []types.ExecutionBatch {
	if len(tasks) == 0 {
		return nil
	}
	withH := make([]types.TaskPlan, len(tasks))
	for i, t := range tasks {
		withH[i] = withHosts(t, hosts)
	}
	return []types.ExecutionBatch{{
		ID:    batchID(0),
		Hosts: hosts,
		Tasks: withH,
	}}
}
