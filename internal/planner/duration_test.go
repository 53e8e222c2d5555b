package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

func TestEstimateTaskDuration(t *testing.T) {
	tests := []struct {
		name string
		task types.Task
		want time.Duration
	}{
		{"debug base duration", types.Task{Module: "debug"}, 100 * time.Millisecond},
		{"copy base duration", types.Task{Module: "copy"}, 2 * time.Second},
		{"unknown module uses fallback", types.Task{Module: "totally_custom"}, 5 * time.Second},
		{"shell gets multiplier", types.Task{Module: "shell"}, time.Duration(float64(3*time.Second) * 1.5)},
		{
			name: "package present doubles",
			task: types.Task{Module: "package", Args: types.Vars{"state": "present"}},
			want: time.Duration(float64(30*time.Second) * 2.0),
		},
		{
			name: "package absent does not double",
			task: types.Task{Module: "package", Args: types.Vars{"state": "absent"}},
			want: 30 * time.Second,
		},
		{
			name: "copy with backup gets multiplier",
			task: types.Task{Module: "copy", Args: types.Vars{"backup": true}},
			want: time.Duration(float64(2*time.Second) * 1.3),
		},
		{
			name: "when clause adds multiplier",
			task: types.Task{Module: "copy", When: "x == 1"},
			want: time.Duration(float64(2*time.Second) * 1.1),
		},
		{
			name: "notify adds multiplier",
			task: types.Task{Module: "copy", Notify: []string{"restart service"}},
			want: time.Duration(float64(2*time.Second) * 1.1),
		},
		{
			name: "many args tier",
			task: types.Task{Module: "copy", Args: types.Vars{
				"a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "f": 6, "g": 7, "h": 8, "i": 9, "j": 10, "k": 11,
			}},
			want: time.Duration(float64(2*time.Second) * 1.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTaskDuration(tt.task))
		})
	}
}

func TestEstimateBatchDuration(t *testing.T) {
	d1 := 1 * time.Second
	d2 := 2 * time.Second
	d3 := 3 * time.Second

	t.Run("no parallel sets sums all durations", func(t *testing.T) {
		batch := types.ExecutionBatch{
			Tasks: []types.TaskPlan{
				{ID: "t1", Duration: &d1},
				{ID: "t2", Duration: &d2},
			},
		}
		assert.Equal(t, 3*time.Second, EstimateBatchDuration(batch))
	})

	t.Run("parallel group takes max plus sequential sum", func(t *testing.T) {
		batch := types.ExecutionBatch{
			Tasks: []types.TaskPlan{
				{ID: "t1", Duration: &d1},
				{ID: "t2", Duration: &d2},
				{ID: "t3", Duration: &d3},
			},
			ParallelSets: []types.ParallelGroup{
				{TaskIDs: []string{"t1", "t2"}},
			},
		}
		// max(t1,t2)=2s, plus sequential t3=3s => 5s
		assert.Equal(t, 5*time.Second, EstimateBatchDuration(batch))
	})

	t.Run("nil durations treated as zero", func(t *testing.T) {
		batch := types.ExecutionBatch{
			Tasks: []types.TaskPlan{{ID: "t1"}},
		}
		assert.Equal(t, time.Duration(0), EstimateBatchDuration(batch))
	})
}

func TestEstimatePlayDuration(t *testing.T) {
	d := 2 * time.Second
	batches := []types.ExecutionBatch{
		{Tasks: []types.TaskPlan{{ID: "t1", Duration: &d}}},
		{Tasks: []types.TaskPlan{{ID: "t2", Duration: &d}}},
	}

	t.Run("linear sums batch durations", func(t *testing.T) {
		assert.Equal(t, 4*time.Second, EstimatePlayDuration(types.Linear(), batches))
	})

	t.Run("free takes the slowest batch", func(t *testing.T) {
		assert.Equal(t, 2*time.Second, EstimatePlayDuration(types.Free(), batches))
	})

	t.Run("rolling discounts the sum", func(t *testing.T) {
		want := time.Duration(float64(4*time.Second) * 0.8)
		assert.Equal(t, want, EstimatePlayDuration(types.Rolling(2), batches))
	})

	t.Run("binary hybrid adds fixed overhead and discounts", func(t *testing.T) {
		want := 10*time.Second + time.Duration(float64(4*time.Second)*0.3)
		assert.Equal(t, want, EstimatePlayDuration(types.BinaryHybrid(), batches))
	})
}
