package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_StringArg(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		key     string
		wantVal string
		wantOK  bool
	}{
		{"present string", Task{Args: Vars{"state": "present"}}, "state", "present", true},
		{"present non-string", Task{Args: Vars{"count": 3}}, "count", "", false},
		{"missing key", Task{Args: Vars{"state": "present"}}, "other", "", false},
		{"nil args", Task{}, "state", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.task.StringArg(tt.key)
			assert.Equal(t, tt.wantVal, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestTask_HasAnyTag(t *testing.T) {
	tests := []struct {
		name string
		task Task
		set  []string
		want bool
	}{
		{"matches one of several", Task{Tags: []string{"deploy", "web"}}, []string{"web", "db"}, true},
		{"no overlap", Task{Tags: []string{"deploy"}}, []string{"db"}, false},
		{"empty set never matches", Task{Tags: []string{"deploy"}}, nil, false},
		{"empty task tags never matches", Task{}, []string{"deploy"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.HasAnyTag(tt.set))
		})
	}
}
