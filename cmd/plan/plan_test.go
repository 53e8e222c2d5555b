package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

const minimalInput = `{
	"plays": [
		{"name": "web", "hosts": ["h1"], "tasks": [
			{"id": "t1", "name": "install nginx", "module": "package", "args": {"name": "nginx"}}
		]}
	]
}`

func TestNewPlanCmd_Flags(t *testing.T) {
	cmd := NewPlanCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "plan", cmd.Use)

	for _, name := range []string{"file", "output-file", "strategy", "limit", "tags", "skip-tags", "forks", "binary-threshold", "force-binary", "force-ssh", "check", "diff", "optimize"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "expected --%s flag", name)
	}
}

func TestRunPlan_MissingInputFile(t *testing.T) {
	isolateHome(t)
	opts := &PlanOptions{}
	cmd := NewPlanCmd()

	err := runPlan(cmd, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input document is required")
}

func TestRunPlan_NonexistentFile(t *testing.T) {
	isolateHome(t)
	opts := &PlanOptions{InputFile: filepath.Join(t.TempDir(), "missing.json")}
	cmd := NewPlanCmd()

	err := runPlan(cmd, opts)
	require.Error(t, err)
	var ioErr *types.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestRunPlan_WritesOutputFile(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	outputPath := filepath.Join(dir, "plan.json")
	writeFile(t, inputPath, minimalInput)

	opts := &PlanOptions{InputFile: inputPath, OutputFile: outputPath, ForceSSH: true}
	cmd := NewPlanCmd()

	err := runPlan(cmd, opts)
	require.NoError(t, err)

	raw, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var plan types.ExecutionPlan
	require.NoError(t, json.Unmarshal(raw, &plan))
	assert.Equal(t, 1, plan.TotalTasks)
}

func TestRunPlan_ExistingOutputFileRequiresYesWhenNonInteractive(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	outputPath := filepath.Join(dir, "plan.json")
	writeFile(t, inputPath, minimalInput)
	writeFile(t, outputPath, "stale plan")

	opts := &PlanOptions{InputFile: inputPath, OutputFile: outputPath, ForceSSH: true}
	cmd := NewPlanCmd()

	err := runPlan(cmd, opts)
	require.Error(t, err, "overwriting an existing plan file without --yes must be refused under go test's non-interactive stdin")
	assert.Contains(t, err.Error(), "already exists")

	raw, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)
	assert.Equal(t, "stale plan", string(raw), "the stale file must be left untouched when the overwrite is refused")
}

func TestRunPlan_YesFlagOverwritesExistingOutputFile(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	outputPath := filepath.Join(dir, "plan.json")
	writeFile(t, inputPath, minimalInput)
	writeFile(t, outputPath, "stale plan")

	opts := &PlanOptions{InputFile: inputPath, OutputFile: outputPath, ForceSSH: true, Yes: true}
	cmd := NewPlanCmd()

	err := runPlan(cmd, opts)
	require.NoError(t, err)

	raw, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)

	var plan types.ExecutionPlan
	require.NoError(t, json.Unmarshal(raw, &plan))
	assert.Equal(t, 1, plan.TotalTasks)
}

func TestRunPlan_InvalidStrategyFlag(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	writeFile(t, inputPath, minimalInput)

	opts := &PlanOptions{InputFile: inputPath, Strategy: "not-a-strategy"}
	cmd := NewPlanCmd()

	err := runPlan(cmd, opts)
	require.Error(t, err)
}

func TestRunPlan_LimitMatchingNothingPropagatesError(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	writeFile(t, inputPath, minimalInput)

	opts := &PlanOptions{InputFile: inputPath, Limit: "nonexistent-host"}
	cmd := NewPlanCmd()

	err := runPlan(cmd, opts)
	require.Error(t, err)
	var hostErr *types.InvalidHostPatternError
	assert.ErrorAs(t, err, &hostErr)
}
