package output

import (
	"fmt"
	"io"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// WriteDOT renders a Graphviz "digraph execution_plan" for the plan: one
// subgraph cluster per play, one node per task keyed by task ID and
// labeled by task name, and one directed edge per task dependency.
func WriteDOT(plan *types.ExecutionPlan, w io.Writer) error {
	if plan == nil {
		return fmt.Errorf("nil execution plan")
	}

	fmt.Fprintln(w, "digraph execution_plan {")
	fmt.Fprintln(w, "  rankdir=LR;")

	for i, play := range plan.Plays {
		fmt.Fprintf(w, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(w, "    label=%q;\n", play.Name)

		for _, batch := range play.Batches {
			for _, task := range batch.Tasks {
				fmt.Fprintf(w, "    %q [label=%q];\n", task.ID, task.Name)
			}
		}
		fmt.Fprintln(w, "  }")
	}

	for _, play := range plan.Plays {
		for _, batch := range play.Batches {
			for _, task := range batch.Tasks {
				for _, dep := range task.Dependencies {
					fmt.Fprintf(w, "  %q -> %q;\n", dep, task.ID)
				}
			}
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}
