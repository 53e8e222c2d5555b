package plan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// loadPlanFile reads and decodes a previously saved *types.ExecutionPlan.
// Plans are always saved as JSON regardless of the --output format used at
// generation time (see cmd/plan/plan.go: --output only controls rendering,
// not the on-disk representation used by validate/show/visualize).
func loadPlanFile(path string) (*types.ExecutionPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.IOError{Cause: fmt.Errorf("%s: %w", path, err)}
	}

	var executionPlan types.ExecutionPlan
	if err := json.Unmarshal(raw, &executionPlan); err != nil {
		return nil, &types.SerializationError{Cause: err}
	}
	return &executionPlan, nil
}
