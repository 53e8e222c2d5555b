package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// ToolVersion is stamped into every plan's metadata.
const ToolVersion = "rustle-plan-go/1.0"

// PlanExecution runs the Plan Assembler, orchestrating every other
// component over a parsed playbook and inventory to produce a fully
// resolved ExecutionPlan. This is the package's single public entry point;
// nothing is mutated after it returns.
func PlanExecution(pb types.Playbook, inv types.Inventory, opts types.PlanningOptions) (*types.ExecutionPlan, error) {
	hosts, err := filterHosts(inv.Hosts, opts.Limit)
	if err != nil {
		return nil, err
	}

	var playPlans []types.PlayPlan
	var deployments []types.BinaryDeployment

	canonicalTasks := 0
	parallelTasks := 0
	batchTaskCount := 0
	var totalDuration time.Duration
	haveDuration := false

	for playIdx, play := range pb.Plays {
		playHosts := resolvePlayHosts(play.Hosts, hosts)

		filtered := filterTasksByTags(play.Tasks, opts.Tags, opts.SkipTags)

		depGraph, _, err := AnalyzeDependencies(filtered)
		if err != nil {
			return nil, err
		}

		taskPlans := buildTaskPlans(filtered, opts.CheckMode)

		if opts.Optimize {
			stableSortByRiskThenDuration(taskPlans)
		}

		batches := PlanBatches(opts.Strategy, taskPlans, playHosts)
		for i := range batches {
			batches[i].ParallelSets = FindParallelGroups(depGraph, batches[i])
			d := EstimateBatchDuration(batches[i])
			batches[i].Duration = &d
			batchTaskCount += len(batches[i].Tasks)
		}

		for _, tp := range taskPlans {
			canonicalTasks++
			if tp.CanRunParallel {
				parallelTasks++
			}
		}

		if !opts.ForceSSH {
			suitability := AnalyzeBinarySuitability(taskPlans)
			planDeployments := PlanBinaryDeployments(suitability.Groups, hosts, inv, opts.BinaryThreshold, WithForceBinary(opts.ForceBinary))
			deployments = append(deployments, planDeployments...)
		}

		handlers := make([]types.HandlerPlan, 0, len(play.Handlers))
		for _, h := range play.Handlers {
			handlers = append(handlers, types.HandlerPlan{
				ID:         h.ID,
				Name:       h.Name,
				Module:     h.Module,
				Args:       h.Args,
				Conditions: CompileHandlerConditions(h),
			})
		}

		playDuration := EstimatePlayDuration(opts.Strategy, batches)
		if opts.Strategy.Kind != types.StrategyBinaryOnly {
			totalDuration += playDuration
			haveDuration = true
		}

		playPlans = append(playPlans, types.PlayPlan{
			ID:       fmt.Sprintf("play-%d", playIdx),
			Name:     play.Name,
			Strategy: opts.Strategy,
			Hosts:    playHosts,
			Batches:  batches,
			Handlers: handlers,
		})
	}

	deployments = optimizeDeployments(deployments)

	var estDuration *time.Duration
	if haveDuration {
		estDuration = &totalDuration
	}

	var estCompile *time.Duration
	if len(deployments) > 0 {
		d := EstimateCompilationTime(deployments)
		estCompile = &d
	}

	parallelismScore := 0.0
	if canonicalTasks > 0 {
		parallelismScore = float64(parallelTasks) / float64(canonicalTasks)
	}

	binaryTaskCount := distinctDeployedTaskCount(deployments)
	networkEfficiencyScore := 1.0
	if canonicalTasks > 0 {
		networkEfficiencyScore = (float64(binaryTaskCount)/float64(canonicalTasks))*0.8 + 0.2
	}

	playbookHash, err := HashPlaybook(pb)
	if err != nil {
		return nil, err
	}
	inventoryHash, err := HashInventory(inv)
	if err != nil {
		return nil, err
	}

	plan := &types.ExecutionPlan{
		Metadata: types.PlanMetadata{
			CreatedAt:       time.Now().UTC(),
			ToolVersion:     ToolVersion,
			RunID:           uuid.NewString(),
			PlaybookHash:    playbookHash,
			InventoryHash:   inventoryHash,
			PlanningOptions: opts,
		},
		Plays:                  playPlans,
		BinaryDeployments:      deployments,
		TotalTasks:             batchTaskCount,
		EstimatedDuration:      estDuration,
		EstimatedCompileTime:   estCompile,
		ParallelismScore:       parallelismScore,
		NetworkEfficiencyScore: networkEfficiencyScore,
		Hosts:                  hosts,
	}

	return plan, nil
}

func filterHosts(allHosts []string, limit string) ([]string, error) {
	if limit == "" || limit == "all" {
		return allHosts, nil
	}
	var out []string
	for _, h := range allHosts {
		if strings.Contains(h, limit) {
			out = append(out, h)
		}
	}
	if len(out) == 0 {
		return nil, &types.InvalidHostPatternError{Pattern: limit, Reason: "matched zero hosts"}
	}
	return out, nil
}

func resolvePlayHosts(playHosts, filteredHosts []string) []string {
	for _, h := range playHosts {
		if h == "all" {
			return filteredHosts
		}
	}
	present := make(map[string]bool, len(playHosts))
	for _, h := range playHosts {
		present[h] = true
	}
	var out []string
	for _, h := range filteredHosts {
		if present[h] {
			out = append(out, h)
		}
	}
	return out
}

func filterTasksByTags(tasks []types.Task, tags, skipTags []string) []types.Task {
	var out []types.Task
	for _, t := range tasks {
		if t.HasAnyTag(skipTags) {
			continue
		}
		if len(tags) > 0 && !t.HasAnyTag(tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func buildTaskPlans(tasks []types.Task, checkMode bool) []types.TaskPlan {
	plans := make([]types.TaskPlan, 0, len(tasks))
	for i, t := range tasks {
		risk := ClassifyRisk(t.Module)
		duration := EstimateTaskDuration(t)
		plans = append(plans, types.TaskPlan{
			ID:             t.ID,
			Name:           t.Name,
			Module:         t.Module,
			Args:           t.Args,
			Hosts:          nil, // resolved by the Strategy Planner per batch
			Dependencies:   t.Dependencies,
			Conditions:     CompileTaskConditions(t, checkMode),
			Tags:           t.Tags,
			Notify:         t.Notify,
			ExecutionOrder: i,
			CanRunParallel: CanRunParallel(t.Module),
			Duration:       &duration,
			RiskLevel:      risk,
		})
	}
	return plans
}

// stableSortByRiskThenDuration implements the optimize pass:
// Low<Medium<High<Critical, ties broken by ascending duration.
func stableSortByRiskThenDuration(tasks []types.TaskPlan) {
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && taskLess(tasks[j], tasks[j-1]); j-- {
			tasks[j], tasks[j-1] = tasks[j-1], tasks[j]
		}
	}
}

func taskLess(a, b types.TaskPlan) bool {
	if a.RiskLevel != b.RiskLevel {
		return a.RiskLevel.Less(b.RiskLevel)
	}
	ad, bd := time.Duration(0), time.Duration(0)
	if a.Duration != nil {
		ad = *a.Duration
	}
	if b.Duration != nil {
		bd = *b.Duration
	}
	return ad < bd
}

func distinctDeployedTaskCount(deployments []types.BinaryDeployment) int {
	seen := make(map[string]bool)
	for _, d := range deployments {
		for _, id := range d.TaskIDs {
			seen[id] = true
		}
	}
	return len(seen)
}
