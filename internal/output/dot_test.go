package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustle-plan/rustle-plan/internal/config"
	"github.com/rustle-plan/rustle-plan/internal/types"
)

func samplePlan() *types.ExecutionPlan {
	return &types.ExecutionPlan{
		Plays: []types.PlayPlan{
			{
				ID:   "play-0",
				Name: "webservers",
				Batches: []types.ExecutionBatch{
					{
						ID: "batch-0",
						Tasks: []types.TaskPlan{
							{ID: "task-1", Name: "install nginx"},
							{ID: "task-2", Name: "start nginx", Dependencies: []string{"task-1"}},
						},
					},
				},
			},
		},
		Hosts:      []string{"web1"},
		TotalTasks: 2,
	}
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDOT(samplePlan(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "digraph execution_plan {")
	assert.Contains(t, out, "cluster_0")
	assert.Contains(t, out, `"task-1" [label="install nginx"]`)
	assert.Contains(t, out, `"task-1" -> "task-2"`)
}

func TestWriteDOT_NilPlan(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDOT(nil, &buf)
	assert.Error(t, err)
}

func TestWriteBinary(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBinary(samplePlan(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"total_tasks\":2")
}

func TestFormatter_DOTFormat(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(config.OutputDOT, &buf)

	err := formatter.Format(samplePlan())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "digraph execution_plan")
}

func TestFormatter_DOTFormat_WrongType(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(config.OutputDOT, &buf)

	err := formatter.Format("not a plan")
	assert.Error(t, err)
}

func TestFormatter_BinaryFormat(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(config.OutputBinary, &buf)

	err := formatter.Format(samplePlan())
	require.NoError(t, err)
	assert.NotEmpty(t, buf.String())
}
