package plan

import (
	"github.com/spf13/cobra"
)

// NewPlanGroupCmd creates the "plan" command group, bundling every planning
// verb (plan, validate, visualize, show, optimize, analyze) the way the
// teacher bundled its resource verbs under "infra".
func NewPlanGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and inspect execution plans",
		Long:  "Commands for generating, validating, visualizing, and inspecting execution plans.",
	}

	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewVisualizeCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewOptimizeCmd())
	cmd.AddCommand(NewAnalyzeCmd())

	return cmd
}
