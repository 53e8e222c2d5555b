package planner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// contentHash produces a stable hex digest of v's canonical JSON encoding.
// encoding/json sorts map keys on marshal, so re-ordering of map entries in
// the input does not alter the hash.
func contentHash(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", &types.SerializationError{Cause: err}
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// HashPlaybook computes the playbook content hash stamped into PlanMetadata.
func HashPlaybook(pb types.Playbook) (string, error) { return contentHash(pb) }

// HashInventory computes the inventory content hash stamped into PlanMetadata.
func HashInventory(inv types.Inventory) (string, error) { return contentHash(inv) }
