package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

func simplePlaybook() types.Playbook {
	return types.Playbook{
		Name: "site",
		Plays: []types.Play{
			{
				Name:  "web",
				Hosts: []string{"all"},
				Tasks: []types.Task{
					{ID: "t1", Name: "install nginx", Module: "package", Args: types.Vars{"name": "nginx", "state": "present"}},
					{ID: "t2", Name: "start nginx", Module: "service", Args: types.Vars{"name": "nginx", "state": "started"}, Dependencies: []string{"t1"}},
				},
			},
		},
	}
}

func simpleInventory() types.Inventory {
	return types.Inventory{
		Hosts:  []string{"web1", "web2"},
		Groups: map[string][]string{"all": {"web1", "web2"}},
	}
}

func TestPlanExecution_Basic(t *testing.T) {
	opts := types.DefaultPlanningOptions()
	opts.ForceSSH = true // deterministic SSH-only batches for this assertion

	plan, err := PlanExecution(simplePlaybook(), simpleInventory(), opts)
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Equal(t, ToolVersion, plan.Metadata.ToolVersion)
	assert.NotEmpty(t, plan.Metadata.RunID)
	assert.NotEmpty(t, plan.Metadata.PlaybookHash)
	assert.NotEmpty(t, plan.Metadata.InventoryHash)
	assert.Equal(t, 2, plan.TotalTasks)
	assert.Empty(t, plan.BinaryDeployments)
	require.Len(t, plan.Plays, 1)
	assert.ElementsMatch(t, []string{"web1", "web2"}, plan.Hosts)
}

func TestPlanExecution_RespectsDependencyOrder(t *testing.T) {
	opts := types.DefaultPlanningOptions()
	opts.Strategy = types.Linear()
	opts.ForceSSH = true

	plan, err := PlanExecution(simplePlaybook(), simpleInventory(), opts)
	require.NoError(t, err)

	batches := plan.Plays[0].Batches
	require.Len(t, batches, 2)
	assert.Equal(t, "t1", batches[0].Tasks[0].ID)
	assert.Equal(t, "t2", batches[1].Tasks[0].ID)
	assert.Equal(t, []string{batches[0].ID}, batches[1].Dependencies)
}

func TestPlanExecution_LimitFiltersHosts(t *testing.T) {
	opts := types.DefaultPlanningOptions()
	opts.Limit = "web1"
	opts.ForceSSH = true

	plan, err := PlanExecution(simplePlaybook(), simpleInventory(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"web1"}, plan.Hosts)
}

func TestPlanExecution_LimitMatchingNothingErrors(t *testing.T) {
	opts := types.DefaultPlanningOptions()
	opts.Limit = "nonexistent"

	_, err := PlanExecution(simplePlaybook(), simpleInventory(), opts)
	require.Error(t, err)
	var hostErr *types.InvalidHostPatternError
	assert.ErrorAs(t, err, &hostErr)
}

func TestPlanExecution_TagFiltering(t *testing.T) {
	pb := types.Playbook{
		Plays: []types.Play{
			{
				Name:  "web",
				Hosts: []string{"all"},
				Tasks: []types.Task{
					{ID: "t1", Module: "package", Args: types.Vars{"name": "nginx"}, Tags: []string{"install"}},
					{ID: "t2", Module: "service", Args: types.Vars{"name": "nginx"}, Tags: []string{"start"}},
				},
			},
		},
	}

	opts := types.DefaultPlanningOptions()
	opts.Tags = []string{"start"}
	opts.ForceSSH = true

	plan, err := PlanExecution(pb, simpleInventory(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.TotalTasks)
}

func TestPlanExecution_CircularDependencyPropagates(t *testing.T) {
	pb := types.Playbook{
		Plays: []types.Play{
			{
				Name:  "cyclic",
				Hosts: []string{"all"},
				Tasks: []types.Task{
					{ID: "t1", Module: "debug", Dependencies: []string{"t2"}},
					{ID: "t2", Module: "debug", Dependencies: []string{"t1"}},
				},
			},
		},
	}

	_, err := PlanExecution(pb, simpleInventory(), types.DefaultPlanningOptions())
	require.Error(t, err)
	var cycleErr *types.CircularDependencyError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestPlanExecution_BinaryOnlyExcludesDurationFromTotal(t *testing.T) {
	pb := types.Playbook{
		Plays: []types.Play{
			{
				Name:  "binary",
				Hosts: []string{"all"},
				Tasks: []types.Task{
					{ID: "t1", Module: "copy", Args: types.Vars{"src": "/a", "dest": "/b"}, Tags: []string{"x"}},
					{ID: "t2", Module: "template", Tags: []string{"x"}},
				},
			},
		},
	}
	opts := types.DefaultPlanningOptions()
	opts.Strategy = types.BinaryOnly()
	opts.BinaryThreshold = 2

	plan, err := PlanExecution(pb, simpleInventory(), opts)
	require.NoError(t, err)
	assert.Nil(t, plan.EstimatedDuration)
}

func TestPlanExecution_DeterministicHashesAcrossRuns(t *testing.T) {
	opts := types.DefaultPlanningOptions()
	opts.ForceSSH = true

	pb := simplePlaybook()
	inv := simpleInventory()

	plan1, err := PlanExecution(pb, inv, opts)
	require.NoError(t, err)
	plan2, err := PlanExecution(pb, inv, opts)
	require.NoError(t, err)

	assert.Equal(t, plan1.Metadata.PlaybookHash, plan2.Metadata.PlaybookHash)
	assert.Equal(t, plan1.Metadata.InventoryHash, plan2.Metadata.InventoryHash)
	assert.NotEqual(t, plan1.Metadata.RunID, plan2.Metadata.RunID, "run id is intentionally non-deterministic")
}

func TestPlanExecution_OptimizeSortsByRiskThenDuration(t *testing.T) {
	pb := types.Playbook{
		Plays: []types.Play{
			{
				Name:  "mixed",
				Hosts: []string{"all"},
				Tasks: []types.Task{
					{ID: "t1", Module: "shell"},   // critical
					{ID: "t2", Module: "debug"},   // low
					{ID: "t3", Module: "service"}, // high
				},
			},
		},
	}
	opts := types.DefaultPlanningOptions()
	opts.Strategy = types.Linear()
	opts.Optimize = true
	opts.ForceSSH = true

	plan, err := PlanExecution(pb, simpleInventory(), opts)
	require.NoError(t, err)

	batches := plan.Plays[0].Batches
	require.Len(t, batches, 3)
	assert.Equal(t, "t2", batches[0].Tasks[0].ID, "low risk sorts first")
	assert.Equal(t, "t3", batches[1].Tasks[0].ID, "high risk sorts second")
	assert.Equal(t, "t1", batches[2].Tasks[0].ID, "critical risk sorts last")
}

func TestValidate_IntegrationWithPlanExecution(t *testing.T) {
	opts := types.DefaultPlanningOptions()
	opts.ForceSSH = true

	plan, err := PlanExecution(simplePlaybook(), simpleInventory(), opts)
	require.NoError(t, err)

	report := Validate(plan)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Errors)
}
