package planner

import (
	"fmt"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// Validate runs the optional post-pass Validator: a non-fatal report
// of structural errors and warnings. Its contents never halt planning;
// PlanExecution has already returned by the time a caller invokes this.
func Validate(plan *types.ExecutionPlan) types.ValidationReport {
	report := types.ValidationReport{IsValid: true}

	planHosts := toSet(plan.Hosts)

	taskCount := 0
	knownTaskIDs := make(map[string]bool)
	knownBatchIDsByPlay := make(map[string]map[string]bool)

	for _, play := range plan.Plays {
		batchIDs := make(map[string]bool, len(play.Batches))
		for _, b := range play.Batches {
			batchIDs[b.ID] = true
		}
		knownBatchIDsByPlay[play.ID] = batchIDs

		for _, b := range play.Batches {
			validateBatch(&report, play, b, planHosts)
			for _, t := range b.Tasks {
				taskCount++
				knownTaskIDs[t.ID] = true
			}
		}
	}

	for _, play := range plan.Plays {
		batchIDs := knownBatchIDsByPlay[play.ID]
		for _, b := range play.Batches {
			for _, dep := range b.Dependencies {
				if !batchIDs[dep] {
					addError(&report, play.ID, b.ID, "", fmt.Sprintf("batch dependency %q not found in play", dep))
				}
			}
			for _, t := range b.Tasks {
				for _, dep := range t.Dependencies {
					if !knownTaskIDs[dep] {
						addWarning(&report, play.ID, b.ID, t.ID, fmt.Sprintf("task dependency %q not present in any batch of this play", dep))
					}
				}
			}
		}
	}

	if taskCount != plan.TotalTasks {
		addError(&report, "", "", "", fmt.Sprintf("total_tasks (%d) does not match sum of batch tasks (%d)", plan.TotalTasks, taskCount))
	}

	if plan.ParallelismScore < 0 || plan.ParallelismScore > 1 {
		addError(&report, "", "", "", fmt.Sprintf("parallelism_score out of range: %f", plan.ParallelismScore))
	}
	if plan.NetworkEfficiencyScore < 0.2 || plan.NetworkEfficiencyScore > 1 {
		addError(&report, "", "", "", fmt.Sprintf("network_efficiency_score out of range: %f", plan.NetworkEfficiencyScore))
	}

	for _, d := range plan.BinaryDeployments {
		validateBinaryDeployment(&report, d, planHosts, knownTaskIDs)
	}

	return report
}

func validateBatch(report *types.ValidationReport, play types.PlayPlan, b types.ExecutionBatch, planHosts map[string]bool) {
	if len(b.Hosts) == 0 {
		addError(report, play.ID, b.ID, "", "batch has no target hosts")
	}
	for _, h := range b.Hosts {
		if !planHosts[h] {
			addError(report, play.ID, b.ID, "", fmt.Sprintf("batch host %q not in plan host list", h))
		}
	}
}

func validateBinaryDeployment(report *types.ValidationReport, d types.BinaryDeployment, planHosts map[string]bool, knownTaskIDs map[string]bool) {
	for _, h := range d.TargetHosts {
		if !planHosts[h] {
			addError(report, "", "", "", fmt.Sprintf("binary deployment %q host %q not in plan host list", d.ID, h))
		}
	}
	for _, id := range d.TaskIDs {
		if !knownTaskIDs[id] {
			addError(report, "", "", "", fmt.Sprintf("binary deployment %q references unknown task %q", d.ID, id))
		}
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func addError(report *types.ValidationReport, playID, batchID, taskID, msg string) {
	report.IsValid = false
	report.Errors = append(report.Errors, types.ValidationIssue{
		Severity: types.SeverityError,
		Message:  msg,
		PlayID:   playID,
		BatchID:  batchID,
		TaskID:   taskID,
	})
}

func addWarning(report *types.ValidationReport, playID, batchID, taskID, msg string) {
	report.Warnings = append(report.Warnings, types.ValidationIssue{
		Severity: types.SeverityWarning,
		Message:  msg,
		PlayID:   playID,
		BatchID:  batchID,
		TaskID:   taskID,
	})
}
