package plan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

func TestNewValidateCmd_Flags(t *testing.T) {
	cmd := NewValidateCmd()
	require.NotNil(t, cmd)
	assert.NotNil(t, cmd.Flags().Lookup("file"))
	assert.NotNil(t, cmd.Flags().Lookup("strict"))
}

func TestRunValidate_MissingFile(t *testing.T) {
	isolateHome(t)
	err := runValidate(NewValidateCmd(), &ValidateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a plan file is required")
}

func TestRunValidate_ValidPlan(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	writeFile(t, path, fixturePlanJSON)

	err := runValidate(NewValidateCmd(), &ValidateOptions{PlanFile: path})
	assert.NoError(t, err)
}

func TestRunValidate_InvalidPlanReturnsError(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	writeFile(t, path, `{"hosts": ["h1"], "total_tasks": 99}`)

	err := runValidate(NewValidateCmd(), &ValidateOptions{PlanFile: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestRunValidate_StrictFailsOnWarnings(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	writeFile(t, path, `{
		"hosts": ["h1"],
		"total_tasks": 1,
		"parallelism_score": 0.5,
		"network_efficiency_score": 0.5,
		"plays": [{
			"id": "play-0",
			"batches": [{
				"id": "batch-0",
				"hosts": ["h1"],
				"tasks": [{"id": "t1", "hosts": ["h1"], "dependencies": ["ghost-task"]}]
			}]
		}]
	}`)

	err := runValidate(NewValidateCmd(), &ValidateOptions{PlanFile: path, Strict: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--strict")
}

func TestValidationTable_EmptyReportShowsPlaceholderRow(t *testing.T) {
	table := validationTable(types.ValidationReport{IsValid: true})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "plan is valid, no findings", table.Rows[0][4])
}
