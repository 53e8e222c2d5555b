package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

func TestAnalyzeDependencies_Explicit(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1"},
		{ID: "t2", Dependencies: []string{"t1"}},
		{ID: "t3", Dependencies: []string{"t2"}},
	}

	g, order, err := AnalyzeDependencies(tasks)
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Len(t, order, 3)

	index := make(map[string]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	assert.Less(t, index["t1"], index["t2"])
	assert.Less(t, index["t2"], index["t3"])
}

func TestAnalyzeDependencies_UnknownDependency(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Dependencies: []string{"missing"}},
	}

	_, _, err := AnalyzeDependencies(tasks)
	require.Error(t, err)
	var unknownErr *types.UnknownTaskDependencyError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "missing", unknownErr.TaskID)
}

func TestAnalyzeDependencies_Cycle(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Dependencies: []string{"t2"}},
		{ID: "t2", Dependencies: []string{"t1"}},
	}

	_, _, err := AnalyzeDependencies(tasks)
	require.Error(t, err)
	var cycleErr *types.CircularDependencyError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestAnalyzeDependencies_ImplicitFileOutput(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Module: "template", Args: types.Vars{"dest": "/etc/app.conf"}},
		{ID: "t2", Module: "service", Args: types.Vars{"src": "/etc/app.conf"}},
	}

	g, order, err := AnalyzeDependencies(tasks)
	require.NoError(t, err)
	assert.True(t, g.HasPath("t2", "t1"))
	index := make(map[string]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	assert.Less(t, index["t1"], index["t2"])
}

func TestAnalyzeDependencies_ImplicitServicePackage(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Module: "package", Args: types.Vars{"name": "nginx"}},
		{ID: "t2", Module: "service", Args: types.Vars{"name": "nginx"}},
	}

	g, _, err := AnalyzeDependencies(tasks)
	require.NoError(t, err)
	assert.True(t, g.HasPath("t2", "t1"))
}

func TestAnalyzeDependencies_ImplicitLineInFile(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Module: "file", Args: types.Vars{"path": "/etc/app.conf"}},
		{ID: "t2", Module: "lineinfile", Args: types.Vars{"path": "/etc/app.conf"}},
	}

	g, _, err := AnalyzeDependencies(tasks)
	require.NoError(t, err)
	assert.True(t, g.HasPath("t2", "t1"))
}

func TestAnalyzeDependencies_ExplicitEdgeSuppressesImplicit(t *testing.T) {
	// t2 explicitly depends on t1 already; the implicit service/package
	// inference must not duplicate an edge in either direction.
	tasks := []types.Task{
		{ID: "t1", Module: "package", Args: types.Vars{"name": "nginx"}},
		{ID: "t2", Module: "service", Args: types.Vars{"name": "nginx"}, Dependencies: []string{"t1"}},
	}

	g, order, err := AnalyzeDependencies(tasks)
	require.NoError(t, err)
	assert.Equal(t, 1, g.EdgeCount())
	require.Len(t, order, 2)
}

func TestAnalyzeDependencies_NoImplicitWithoutMatch(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Module: "copy", Args: types.Vars{"dest": "/a"}},
		{ID: "t2", Module: "copy", Args: types.Vars{"src": "/b"}},
	}

	g, _, err := AnalyzeDependencies(tasks)
	require.NoError(t, err)
	assert.Equal(t, 0, g.EdgeCount())
}
