package plan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustle-plan/rustle-plan/internal/cli"
	"github.com/rustle-plan/rustle-plan/internal/config"
	"github.com/rustle-plan/rustle-plan/internal/output"
)

// ShowOptions holds the flags for the "show" command.
type ShowOptions struct {
	PlanFile string
	Play     string
	cli.PaginationFlags
}

// NewShowCmd creates the "show" subcommand: lists the tasks of a saved
// execution plan, one row per task, with pagination over the flattened list.
func NewShowCmd() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the tasks in a saved execution plan",
		Long: `Print a flattened, paginated task listing from a saved execution plan,
showing each task's play, batch, ID, name, module, risk level, and estimated
duration.`,
		Example: `  rustle-plan show -f plan.json
  rustle-plan show -f plan.json --play play-0 --page 2 --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PlanFile == "" && len(args) > 0 {
				opts.PlanFile = args[0]
			}
			return runShow(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PlanFile, "file", "f", "", "Plan file to show (JSON)")
	cmd.Flags().StringVar(&opts.Play, "play", "", "Restrict the listing to a single play ID")
	cli.AddPaginationFlags(cmd, &opts.PaginationFlags)

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions) error {
	cfg, err := config.Load(cmd, "")
	if err != nil {
		return err
	}

	if opts.PlanFile == "" {
		return fmt.Errorf("a plan file is required: pass -f/--file or a positional path")
	}

	executionPlan, err := loadPlanFile(opts.PlanFile)
	if err != nil {
		return err
	}

	page, err := opts.PaginationFlags.Validate()
	if err != nil {
		return fmt.Errorf("invalid pagination options: %w", err)
	}

	rows := [][]string{}
	for _, play := range executionPlan.Plays {
		if opts.Play != "" && play.ID != opts.Play {
			continue
		}
		for _, batch := range play.Batches {
			for _, task := range batch.Tasks {
				duration := "-"
				if task.Duration != nil {
					duration = task.Duration.String()
				}
				rows = append(rows, []string{
					play.ID,
					batch.ID,
					task.ID,
					task.Name,
					task.Module,
					string(task.RiskLevel),
					duration,
				})
			}
		}
	}

	start := (page.Page - 1) * page.Limit
	end := start + page.Limit
	if opts.All {
		start, end = 0, len(rows)
	}
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	formatter := output.NewFormatter(cfg.Output, os.Stdout)
	return formatter.Format(output.TableData{
		Headers: []string{"Play", "Batch", "Task", "Name", "Module", "Risk", "Duration"},
		Rows:    rows[start:end],
	})
}
