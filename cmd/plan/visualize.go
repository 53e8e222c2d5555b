package plan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustle-plan/rustle-plan/internal/output"
	"github.com/rustle-plan/rustle-plan/internal/types"
)

// VisualizeOptions holds the flags for the "visualize" command.
type VisualizeOptions struct {
	PlanFile   string
	OutputFile string
}

// NewVisualizeCmd creates the "visualize" subcommand: renders a saved plan
// as a Graphviz DOT digraph, one cluster per play.
func NewVisualizeCmd() *cobra.Command {
	opts := &VisualizeOptions{}

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render a saved execution plan as a Graphviz DOT graph",
		Long: `Render an execution plan's task dependency structure as a DOT digraph,
with one subgraph per play and one edge per task dependency. Pipe the
output through "dot -Tpng" (or similar) to render an image.`,
		Example: `  rustle-plan visualize -f plan.json | dot -Tpng -o plan.png
  rustle-plan visualize -f plan.json --output-file plan.dot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PlanFile == "" && len(args) > 0 {
				opts.PlanFile = args[0]
			}
			return runVisualize(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PlanFile, "file", "f", "", "Plan file to visualize (JSON)")
	cmd.Flags().StringVar(&opts.OutputFile, "output-file", "", "Write the DOT graph to a file instead of stdout")

	return cmd
}

func runVisualize(opts *VisualizeOptions) error {
	if opts.PlanFile == "" {
		return fmt.Errorf("a plan file is required: pass -f/--file or a positional path")
	}

	executionPlan, err := loadPlanFile(opts.PlanFile)
	if err != nil {
		return err
	}

	target := os.Stdout
	if opts.OutputFile != "" {
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return &types.IOError{Cause: fmt.Errorf("%s: %w", opts.OutputFile, err)}
		}
		defer f.Close()
		target = f
	}

	return output.WriteDOT(executionPlan, target)
}
