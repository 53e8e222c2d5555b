package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevel_Less(t *testing.T) {
	tests := []struct {
		name string
		a, b RiskLevel
		want bool
	}{
		{"low < medium", RiskLow, RiskMedium, true},
		{"medium < high", RiskMedium, RiskHigh, true},
		{"high < critical", RiskHigh, RiskCritical, true},
		{"low < critical", RiskLow, RiskCritical, true},
		{"equal is not less", RiskMedium, RiskMedium, false},
		{"reverse is not less", RiskHigh, RiskMedium, false},
		{"unknown level ranks as medium", RiskLevel("bogus"), RiskHigh, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Less(tt.b))
		})
	}
}

func TestDefaultPlanningOptions(t *testing.T) {
	opts := DefaultPlanningOptions()
	assert.Equal(t, BinaryHybrid(), opts.Strategy)
	assert.Equal(t, 50, opts.Forks)
	assert.Equal(t, 5, opts.BinaryThreshold)
	assert.False(t, opts.ForceBinary)
	assert.False(t, opts.ForceSSH)
}

func TestTaskPlan_StringArg(t *testing.T) {
	tests := []struct {
		name    string
		tp      TaskPlan
		key     string
		wantVal string
		wantOK  bool
	}{
		{"present string", TaskPlan{Args: Vars{"state": "present"}}, "state", "present", true},
		{"present non-string", TaskPlan{Args: Vars{"count": 3}}, "count", "", false},
		{"missing key", TaskPlan{Args: Vars{"state": "present"}}, "other", "", false},
		{"nil args", TaskPlan{}, "state", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.tp.StringArg(tt.key)
			assert.Equal(t, tt.wantVal, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
