package plan

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile writes contents to path, failing the test on error. Every
// subcommand test that reaches config.Load isolates HOME via isolateHome so
// it never picks up a real ~/.rustle-plan/config.yaml.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// isolateHome points HOME at a fresh temp directory for the duration of a
// test, so config.Load's default YAML lookup never reads a real config file.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

// fixturePlanJSON is a minimal, structurally valid saved plan: one play, one
// batch, one task, referencing only hosts present in the top-level list.
const fixturePlanJSON = `{
	"metadata": {"tool_version": "rustle-plan-go/1.0"},
	"hosts": ["h1"],
	"total_tasks": 1,
	"parallelism_score": 0.5,
	"network_efficiency_score": 0.5,
	"plays": [
		{
			"id": "play-0",
			"name": "web",
			"hosts": ["h1"],
			"batches": [
				{
					"id": "batch-0",
					"hosts": ["h1"],
					"tasks": [
						{"id": "t1", "name": "install nginx", "module": "package", "hosts": ["h1"], "risk_level": "high"}
					]
				}
			]
		}
	]
}`
