package plan

import (
	"github.com/spf13/cobra"
)

// NewOptimizeCmd creates the "optimize" subcommand. It re-plans the same
// input document with the risk/duration reordering pass forced on, sharing
// every other flag with "plan" rather than re-implementing batch assembly.
func NewOptimizeCmd() *cobra.Command {
	opts := &PlanOptions{Optimize: true}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Generate a plan with the risk/duration optimize pass applied",
		Long: `Equivalent to "plan --optimize": generates an execution plan after sorting
each play's tasks by ascending risk level (Low before Critical), breaking
ties by ascending estimated duration, before the tasks are grouped into
batches.`,
		Example: `  rustle-plan optimize -f input.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.InputFile == "" && len(args) > 0 {
				opts.InputFile = args[0]
			}
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "file", "f", "", "Input document (playbook + inventory JSON)")
	cmd.Flags().StringVar(&opts.OutputFile, "output-file", "", "Save the plan to a file instead of stdout")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "Execution strategy: linear, free, rolling[:N], host_pinned, binary_hybrid, binary_only")
	cmd.Flags().StringVar(&opts.Limit, "limit", "", "Restrict target hosts to those matching this pattern")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "Only include tasks matching these tags")
	cmd.Flags().StringSliceVar(&opts.SkipTags, "skip-tags", nil, "Exclude tasks matching these tags")
	cmd.Flags().IntVar(&opts.Forks, "forks", 0, "Maximum parallel SSH connections (0 = use config default)")
	cmd.Flags().IntVar(&opts.BinaryThreshold, "binary-threshold", 0, "Minimum group size considered for binary deployment (0 = use config default)")
	cmd.Flags().BoolVar(&opts.ForceBinary, "force-binary", false, "Force binary deployment wherever suitable, ignoring threshold")
	cmd.Flags().BoolVar(&opts.ForceSSH, "force-ssh", false, "Disable binary deployment entirely")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Overwrite an existing --output-file without prompting")

	return cmd
}
