// Package graph implements a small mutex-protected directed graph used by
// the dependency analyzer to detect cycles and produce a topological order
// over task ids.
package graph

import (
	"fmt"
	"sync"
)

// EdgeType labels why an edge exists, mirroring the dependency analyzer's
// explicit-vs-inferred distinction.
type EdgeType string

const (
	EdgeExplicit   EdgeType = "explicit"
	EdgeFileOutput EdgeType = "file_output"
	EdgeServicePkg EdgeType = "service_package"
	EdgeLineInFile EdgeType = "file_lineinfile"
)

// Edge is a directed dependency: From depends on To (To must run first).
type Edge struct {
	From   string
	To     string
	Type   EdgeType
	Reason string
}

// Graph is a directed graph over string node ids, safe for concurrent reads
// and writes via an embedded RWMutex.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]bool
	// out[n] = edges where n is From (n depends on out[n][i].To)
	out map[string][]*Edge
	// in[n] = edges where n is To (in[n][i].From depends on n)
	in map[string][]*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
	}
}

// AddNode registers a node id. Idempotent.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return fmt.Errorf("graph: node id cannot be empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[id] = true
	return nil
}

// HasNode reports whether id has been added.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// AddEdge adds a directed edge from -> to (from depends on to). Both nodes
// must already exist.
func (g *Graph) AddEdge(e *Edge) error {
	if e == nil {
		return fmt.Errorf("graph: edge cannot be nil")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.nodes[e.From] {
		return fmt.Errorf("graph: unknown node %q", e.From)
	}
	if !g.nodes[e.To] {
		return fmt.Errorf("graph: unknown node %q", e.To)
	}
	if e.From == e.To {
		return fmt.Errorf("graph: self-loop on %q", e.From)
	}
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
	return nil
}

// HasEdgeEitherDirection reports whether any edge connects a and b in either
// direction, regardless of type. Used by implicit-dependency inference,
// which only fires when no explicit edge already links the pair.
func (g *Graph) HasEdgeEitherDirection(a, b string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, e := range g.out[a] {
		if e.To == b {
			return true
		}
	}
	for _, e := range g.out[b] {
		if e.To == a {
			return true
		}
	}
	return false
}

// Dependencies returns the ids that node depends on.
func (g *Graph) Dependencies(node string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	edges := g.out[node]
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.To
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, edges := range g.out {
		n += len(edges)
	}
	return n
}

// HasPath reports whether there is a directed path from -> to (from depends,
// transitively, on to). Grounded on the upstream DependencyGraph::has_path
// behavior, used by parallel-group detection to confirm two tasks are
// unordered before grouping them.
func (g *Graph) HasPath(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if from == to {
		return true
	}
	visited := make(map[string]bool)
	var walk func(string) bool
	walk = func(n string) bool {
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, e := range g.out[n] {
			if e.To == to {
				return true
			}
			if walk(e.To) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// HasCycle detects whether the graph contains a cycle, returning a witness
// path (the repeated node first and last) when one is found.
func (g *Graph) HasCycle() (bool, []string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	parent := make(map[string]string)

	var visit func(string) (bool, []string)
	visit = func(id string) (bool, []string) {
		visited[id] = true
		recStack[id] = true

		for _, e := range g.out[id] {
			dep := e.To
			if !visited[dep] {
				parent[dep] = id
				if has, cycle := visit(dep); has {
					return true, cycle
				}
			} else if recStack[dep] {
				cycle := []string{dep}
				current := id
				for current != dep {
					cycle = append([]string{current}, cycle...)
					p, ok := parent[current]
					if !ok {
						break
					}
					current = p
				}
				cycle = append([]string{dep}, cycle...)
				return true, cycle
			}
		}

		recStack[id] = false
		return false, nil
	}

	// Deterministic iteration order keeps witness selection reproducible.
	for _, id := range g.sortedNodeIDs() {
		if !visited[id] {
			if has, cycle := visit(id); has {
				return true, cycle
			}
		}
	}
	return false, nil
}

// TopologicalSort returns node ids such that every node appears after all
// nodes it depends on (Kahn's algorithm). Returns an error if the graph has
// a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	inDegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		inDegree[id] = len(g.out[id])
	}

	var queue []string
	for _, id := range g.sortedNodeIDs() {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		var unlocked []string
		for _, e := range g.in[current] {
			inDegree[e.From]--
			if inDegree[e.From] == 0 {
				unlocked = append(unlocked, e.From)
			}
		}
		queue = append(queue, unlocked...)
	}

	if len(order) != len(g.nodes) {
		has, cycle := g.hasCycleLocked()
		if has {
			return nil, fmt.Errorf("graph: cycle detected: %v", cycle)
		}
		return nil, fmt.Errorf("graph: topological sort failed to order all nodes")
	}
	return order, nil
}

func (g *Graph) hasCycleLocked() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	parent := make(map[string]string)

	var visit func(string) (bool, []string)
	visit = func(id string) (bool, []string) {
		visited[id] = true
		recStack[id] = true
		for _, e := range g.out[id] {
			dep := e.To
			if !visited[dep] {
				parent[dep] = id
				if has, cycle := visit(dep); has {
					return true, cycle
				}
			} else if recStack[dep] {
				cycle := []string{dep}
				current := id
				for current != dep {
					cycle = append([]string{current}, cycle...)
					p, ok := parent[current]
					if !ok {
						break
					}
					current = p
				}
				cycle = append([]string{dep}, cycle...)
				return true, cycle
			}
		}
		recStack[id] = false
		return false, nil
	}

	for _, id := range g.sortedNodeIDs() {
		if !visited[id] {
			if has, cycle := visit(id); has {
				return true, cycle
			}
		}
	}
	return false, nil
}

// sortedNodeIDs returns node ids in insertion-independent, deterministic
// (lexicographic) order. Callers must hold g.mu.
func (g *Graph) sortedNodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	// simple insertion sort; graphs here are small (tasks per play)
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
