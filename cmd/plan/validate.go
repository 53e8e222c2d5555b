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

// ValidateOptions holds the flags for the "validate" command.
type ValidateOptions struct {
	PlanFile string
	Strict   bool
}

// NewValidateCmd creates the "validate" subcommand: runs the Validator over
// an already-generated plan file and reports structural errors/warnings.
func NewValidateCmd() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the structural validator over a saved execution plan",
		Long: `Re-check a previously generated execution plan (JSON) for internal
consistency: batch/task dependency references, host membership, and
aggregate score ranges.

Validation findings never block the plan that produced them; this command
exists to catch drift after a plan file has been hand-edited or replayed.`,
		Example: `  rustle-plan validate -f plan.json
  rustle-plan validate -f plan.json --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PlanFile == "" && len(args) > 0 {
				opts.PlanFile = args[0]
			}
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PlanFile, "file", "f", "", "Plan file to validate (JSON)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero on warnings as well as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
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

	report := planner.Validate(executionPlan)

	formatter := output.NewFormatter(cfg.Output, os.Stdout)
	if err := formatter.Format(validationTable(report)); err != nil {
		return fmt.Errorf("failed to render validation report: %w", err)
	}

	if !report.IsValid {
		return fmt.Errorf("plan failed validation: %d error(s)", len(report.Errors))
	}
	if opts.Strict && len(report.Warnings) > 0 {
		return fmt.Errorf("plan has %d warning(s) (failing due to --strict)", len(report.Warnings))
	}

	return nil
}

func validationTable(report types.ValidationReport) output.TableData {
	rows := make([][]string, 0, len(report.Errors)+len(report.Warnings))
	for _, issue := range report.Errors {
		rows = append(rows, []string{string(issue.Severity), issue.PlayID, issue.BatchID, issue.TaskID, issue.Message})
	}
	for _, issue := range report.Warnings {
		rows = append(rows, []string{string(issue.Severity), issue.PlayID, issue.BatchID, issue.TaskID, issue.Message})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{"-", "-", "-", "-", "plan is valid, no findings"})
	}
	return output.TableData{
		Headers: []string{"Severity", "Play", "Batch", "Task", "Message"},
		Rows:    rows,
	}
}
