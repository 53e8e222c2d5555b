package planner

import (
	"github.com/rustle-plan/rustle-plan/internal/graph"
	"github.com/rustle-plan/rustle-plan/internal/types"
)

// AnalyzeDependencies builds the dependency DAG over a task list:
// explicit edges from task.dependencies, plus three kinds of inferred
// implicit edges where no explicit edge already links the pair. Returns the
// topological order (dependencies first) or a CircularDependencyError /
// UnknownTaskDependencyError.
func AnalyzeDependencies(tasks []types.Task) (*graph.Graph, []string, error) {
	g := graph.New()
	byID := make(map[string]types.Task, len(tasks))
	for _, t := range tasks {
		g.AddNode(t.ID)
		byID[t.ID] = t
	}

	// Explicit edges: task depends on each of its declared dependency ids.
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := byID[dep]; !ok {
				return nil, nil, &types.UnknownTaskDependencyError{TaskID: dep}
			}
			if err := g.AddEdge(&graph.Edge{From: t.ID, To: dep, Type: graph.EdgeExplicit}); err != nil {
				return nil, nil, err
			}
		}
	}

	// Implicit edges: only added when no explicit edge (either direction)
	// already connects the pair.
	for _, a := range tasks {
		for _, b := range tasks {
			if a.ID == b.ID {
				continue
			}
			if g.HasEdgeEitherDirection(a.ID, b.ID) {
				continue
			}

			if edge, ok := inferImplicitEdge(a, b); ok {
				// edge.From already depends on edge.To per inferImplicitEdge;
				// skip if that direction now duplicates an edge added by an
				// earlier pair in this same loop.
				if g.HasEdgeEitherDirection(edge.From, edge.To) {
					continue
				}
				if err := g.AddEdge(edge); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		if has, cycle := g.HasCycle(); has {
			return nil, nil, &types.CircularDependencyError{Cycle: cycle}
		}
		return nil, nil, err
	}

	return g, order, nil
}

// inferImplicitEdge checks the three implicit-dependency rules for
// the ordered pair (a, b) and, if one fires, returns the edge with B
// depending on A (B consumes what A produced).
func inferImplicitEdge(a, b types.Task) (*graph.Edge, bool) {
	// FileOutput: A's dest == B's src.
	if aDest, ok := a.StringArg("dest"); ok && aDest != "" {
		if bSrc, ok := b.StringArg("src"); ok && bSrc == aDest {
			return &graph.Edge{From: b.ID, To: a.ID, Type: graph.EdgeFileOutput, Reason: "file output consumed as src"}, true
		}
	}

	// ServicePackage: A=package, B=service, matching name.
	if a.Module == "package" && b.Module == "service" {
		if aName, ok := a.StringArg("name"); ok {
			if bName, ok := b.StringArg("name"); ok && aName == bName {
				return &graph.Edge{From: b.ID, To: a.ID, Type: graph.EdgeServicePkg, Reason: "service depends on its package"}, true
			}
		}
	}

	// FileOutput (again): A=file, B=lineinfile, matching path.
	if a.Module == "file" && b.Module == "lineinfile" {
		if aPath, ok := a.StringArg("path"); ok {
			if bPath, ok := b.StringArg("path"); ok && aPath == bPath {
				return &graph.Edge{From: b.ID, To: a.ID, Type: graph.EdgeLineInFile, Reason: "lineinfile edits file-managed path"}, true
			}
		}
	}

	return nil, false
}
