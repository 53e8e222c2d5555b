package planner

import (
	"github.com/rustle-plan/rustle-plan/internal/graph"
	"github.com/rustle-plan/rustle-plan/internal/types"
)

// FindParallelGroups computes the ParallelGroup list for a batch: the
// parallel-safe tasks in the batch that have no dependency path between any
// pair of them, using the play's full dependency graph. A supplemented
// feature (see SPEC_FULL.md) — spec.md defines ParallelGroup but leaves its
// construction to the implementation.
func FindParallelGroups(deps *graph.Graph, batch types.ExecutionBatch) []types.ParallelGroup {
	var candidates []string
	for _, t := range batch.Tasks {
		if t.CanRunParallel {
			candidates = append(candidates, t.ID)
		}
	}
	if len(candidates) < 2 {
		return nil
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if deps.HasPath(a, b) || deps.HasPath(b, a) {
				// Not mutually unordered; fall back to no grouping for
				// this batch rather than a partial, order-sensitive split.
				return nil
			}
		}
	}

	return []types.ParallelGroup{{TaskIDs: candidates}}
}
