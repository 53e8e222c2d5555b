package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressionEvaluator_Evaluate(t *testing.T) {
	e := NewExpressionEvaluator()

	tests := []struct {
		name string
		expr string
		vars map[string]any
		want bool
	}{
		{"empty expression is false", "", nil, false},
		{"literal true comparison", "1 == 1", nil, true},
		{"literal false comparison", "1 == 2", nil, false},
		{"resolved variable comparison true", "ansible_os_family == 'Debian'", map[string]any{"ansible_os_family": "Debian"}, true},
		{"resolved variable comparison false", "ansible_os_family == 'Debian'", map[string]any{"ansible_os_family": "RedHat"}, false},
		{"numeric comparison", "count > 5", map[string]any{"count": 10.0}, true},
		{"unresolvable variable falls back to true", "undeclared_fact == 'x'", nil, true},
		{"unparseable expression falls back to true", "{{ jinja_style }}", nil, true},
		{"boolean variable", "is_enabled", map[string]any{"is_enabled": true}, true},
		{"boolean variable false", "is_enabled", map[string]any{"is_enabled": false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(tt.expr, tt.vars))
		})
	}
}
