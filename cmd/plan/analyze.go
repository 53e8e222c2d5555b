package plan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustle-plan/rustle-plan/internal/config"
	"github.com/rustle-plan/rustle-plan/internal/output"
	"github.com/rustle-plan/rustle-plan/internal/planner"
	"github.com/rustle-plan/rustle-plan/internal/types"
)

// AnalyzeOptions holds the flags for the "analyze" command.
type AnalyzeOptions struct {
	PlanFile string
}

// NewAnalyzeCmd creates the "analyze" subcommand: re-runs the Binary
// Suitability Analyzer over a saved plan's tasks and reports, per task,
// whether it is eligible for binary deployment and why not when rejected.
func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report binary-deployment suitability for every task in a saved plan",
		Long: `Re-evaluate a saved execution plan's tasks against the binary suitability
rules and print, for each task, whether it would be grouped for binary
deployment and the rejection reason when it would not.`,
		Example: `  rustle-plan analyze -f plan.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PlanFile == "" && len(args) > 0 {
				opts.PlanFile = args[0]
			}
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PlanFile, "file", "f", "", "Plan file to analyze (JSON)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
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

	var allTasks []types.TaskPlan
	for _, play := range executionPlan.Plays {
		for _, batch := range play.Batches {
			allTasks = append(allTasks, batch.Tasks...)
		}
	}

	analysis := planner.AnalyzeBinarySuitability(allTasks)

	grouped := make(map[string]string, len(allTasks))
	for _, g := range analysis.Groups {
		for _, t := range g.Tasks {
			grouped[t.ID] = g.ID
		}
	}

	rows := make([][]string, 0, len(allTasks))
	for _, t := range allTasks {
		if groupID, ok := grouped[t.ID]; ok {
			rows = append(rows, []string{t.ID, t.Module, "eligible", groupID})
			continue
		}
		reason := analysis.Rejections[t.ID]
		if reason == "" {
			reason = "not selected by the grouping pass"
		}
		rows = append(rows, []string{t.ID, t.Module, "rejected", reason})
	}

	formatter := output.NewFormatter(cfg.Output, os.Stdout)
	return formatter.Format(output.TableData{
		Headers: []string{"Task", "Module", "Status", "Detail"},
		Rows:    rows,
	})
}
