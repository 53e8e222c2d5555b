package plan

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalyzeCmd_Flags(t *testing.T) {
	cmd := NewAnalyzeCmd()
	require.NotNil(t, cmd)
	assert.NotNil(t, cmd.Flags().Lookup("file"))
}

func TestRunAnalyze_MissingFile(t *testing.T) {
	isolateHome(t)
	err := runAnalyze(NewAnalyzeCmd(), &AnalyzeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a plan file is required")
}

func TestRunAnalyze_ReportsRejection(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	// A single "package" task never clears the binary suitability grouping
	// floor on its own, so analyze should report it rejected, not eligible.
	writeFile(t, path, fixturePlanJSON)

	stdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	runErr := runAnalyze(NewAnalyzeCmd(), &AnalyzeOptions{PlanFile: path})
	_ = w.Close()
	os.Stdout = stdout
	out, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.NoError(t, runErr)
	assert.Contains(t, string(out), "rejected")
	assert.Contains(t, string(out), "insufficient network operations")
}
