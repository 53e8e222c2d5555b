// Package plan implements the rustle-plan command-line surface: generating,
// validating, visualizing, and inspecting execution plans.
package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rustle-plan/rustle-plan/internal/cli"
	"github.com/rustle-plan/rustle-plan/internal/config"
	"github.com/rustle-plan/rustle-plan/internal/fileutil"
	"github.com/rustle-plan/rustle-plan/internal/logging"
	"github.com/rustle-plan/rustle-plan/internal/output"
	"github.com/rustle-plan/rustle-plan/internal/planner"
	"github.com/rustle-plan/rustle-plan/internal/types"
	"github.com/rustle-plan/rustle-plan/internal/ui"
)

// PlanOptions holds the flags shared by the "plan" command.
type PlanOptions struct {
	InputFile       string
	OutputFile      string
	Strategy        string
	Limit           string
	Tags            []string
	SkipTags        []string
	Forks           int
	BinaryThreshold int
	ForceBinary     bool
	ForceSSH        bool
	CheckMode       bool
	Diff            bool
	Optimize        bool
	Yes             bool
}

// NewPlanCmd creates the "plan" subcommand.
func NewPlanCmd() *cobra.Command {
	opts := &PlanOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate an execution plan from a playbook and inventory",
		Long: `Generate a fully resolved execution plan from a rustle-plan input document
(a playbook plus inventory, serialized as JSON), without executing anything.

The plan reports per-task risk, duration estimates, dependency-ordered
batches, and binary deployment opportunities.`,
		Example: `  # Generate a plan from an input document, printed as a table
  rustle-plan plan -f input.json

  # Write the plan to a file as JSON
  rustle-plan plan -f input.json --output-file plan.json --output json

  # Force the rolling strategy with a batch size of 5
  rustle-plan plan -f input.json --strategy rolling:5`,
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
	cmd.Flags().BoolVar(&opts.CheckMode, "check", false, "Compile tasks in check (dry-run) mode")
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Request diff output from idempotent modules")
	cmd.Flags().BoolVar(&opts.Optimize, "optimize", false, "Sort each play's tasks by ascending risk then duration before batching")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Overwrite an existing --output-file without prompting")

	return cmd
}

// planWithDeadline runs PlanExecution to completion, but surfaces a
// PlanningTimeoutError if ctx expires first. PlanExecution itself is a pure,
// synchronous computation with no cancellation points of its own.
func planWithDeadline(ctx context.Context, pb types.Playbook, inv types.Inventory, opts types.PlanningOptions) (*types.ExecutionPlan, error) {
	type result struct {
		plan *types.ExecutionPlan
		err  error
	}
	done := make(chan result, 1)
	go func() {
		plan, err := planner.PlanExecution(pb, inv, opts)
		done <- result{plan, err}
	}()

	select {
	case r := <-done:
		return r.plan, r.err
	case <-ctx.Done():
		return nil, &types.PlanningTimeoutError{Detail: ctx.Err().Error()}
	}
}

func runPlan(cmd *cobra.Command, opts *PlanOptions) error {
	logger := logging.Default()

	cfg, err := config.Load(cmd, "")
	if err != nil {
		return cli.WrapWithOperation(err, "load_config", "")
	}

	ctx, cancel := config.NewContext(cmd.Context(), cfg)
	defer cancel()

	if opts.InputFile == "" {
		return fmt.Errorf("input document is required: pass -f/--file or a positional path")
	}

	raw, err := os.ReadFile(opts.InputFile)
	if err != nil {
		return &types.IOError{Cause: fmt.Errorf("%s: %w", opts.InputFile, err)}
	}

	pb, inv, err := planner.DecodeInput(raw)
	if err != nil {
		return err
	}

	planOpts := cfg.Planning
	if opts.Strategy != "" {
		strategy, err := types.ParseStrategy(opts.Strategy)
		if err != nil {
			return err
		}
		planOpts.Strategy = strategy
	}
	if opts.Limit != "" {
		planOpts.Limit = opts.Limit
	}
	if len(opts.Tags) > 0 {
		planOpts.Tags = opts.Tags
	}
	if len(opts.SkipTags) > 0 {
		planOpts.SkipTags = opts.SkipTags
	}
	if opts.Forks > 0 {
		planOpts.Forks = opts.Forks
	}
	if opts.BinaryThreshold > 0 {
		planOpts.BinaryThreshold = opts.BinaryThreshold
	}
	planOpts.ForceBinary = opts.ForceBinary
	planOpts.ForceSSH = opts.ForceSSH
	planOpts.CheckMode = opts.CheckMode
	planOpts.Diff = opts.Diff
	planOpts.Optimize = opts.Optimize

	progress := ui.NewProgressIndicator(cfg.Verbose, cfg.Quiet)
	progress.StartSpinner("Generating execution plan")

	op := logger.StartOperation(opts.InputFile, "generate_plan")
	executionPlan, err := planWithDeadline(ctx, pb, inv, planOpts)
	if err != nil {
		progress.StopSpinnerWithError("plan generation failed")
		op.Fail(err, "plan generation failed")
		return err
	}
	summary := fmt.Sprintf("%d tasks across %d play(s)", executionPlan.TotalTasks, len(executionPlan.Plays))
	progress.StopSpinner(summary)
	op.Complete(summary)

	if opts.OutputFile != "" {
		if _, statErr := os.Stat(opts.OutputFile); statErr == nil {
			nonInteractive := !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
			prompt := ui.NewConfirmationPrompt(opts.Yes, nonInteractive)
			confirmed, cErr := prompt.ConfirmDestructiveAction("overwrite", opts.OutputFile)
			if cErr != nil {
				return fmt.Errorf("%s already exists: %w", opts.OutputFile, cErr)
			}
			if !confirmed {
				return fmt.Errorf("aborted: %s already exists, pass --yes to overwrite", opts.OutputFile)
			}
		}

		// Plan files are always persisted as JSON, independent of --output,
		// so validate/show/visualize can reliably reload them later. A
		// saved plan embeds host inventories and task arguments, so it is
		// written with the same restrictive owner-only permissions as any
		// other sensitive on-disk artifact.
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(executionPlan); err != nil {
			return fmt.Errorf("failed to write plan file: %w", err)
		}

		writer := fileutil.NewSecureFileWriter()
		if err := writer.WriteFile(opts.OutputFile, buf.Bytes()); err != nil {
			return &types.IOError{Cause: fmt.Errorf("%s: %w", opts.OutputFile, err)}
		}

		confirm := output.NewFormatter(config.OutputTable, os.Stdout)
		return confirm.Format(output.TableData{
			Headers: []string{"Info"},
			Rows:    [][]string{{"Plan written to " + opts.OutputFile}},
		})
	}

	formatter := output.NewFormatter(cfg.Output, os.Stdout)
	if err := formatter.Format(executionPlan); err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	return nil
}
