package output

import (
	"encoding/json"
	"io"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// WriteBinary emits the plan's "binary" output mode. Per the current
// on-wire contract this is the same JSON encoding as OutputJSON, written
// as raw bytes without the pretty-printed indentation — a placeholder
// ahead of a future compact encoding (msgpack/flatbuffers candidates,
// neither pulled in yet since nothing else in this tree exercises them).
func WriteBinary(plan *types.ExecutionPlan, w io.Writer) error {
	return json.NewEncoder(w).Encode(plan)
}
