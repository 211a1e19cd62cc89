package depgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// ErrCycleDetected indicates a circular dependency among agents.
var ErrCycleDetected = errors.New("circular dependency detected")

// CycleError reports the exact dependency cycle found. It matches
// ErrCycleDetected under errors.Is.
type CycleError struct {
	// Nodes is the cycle path, first node repeated at the end.
	Nodes []string
}

// Error formats the cycle as "a -> b -> a".
func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Nodes, " -> "))
}

// Is lets callers match a CycleError against the ErrCycleDetected sentinel.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}

// Graph is a directed acyclic dependency graph over a plan's agents.
// Node order is the agents' declaration order; that order breaks ties in the
// topological sort, so identical plans always produce identical merge orders.
type Graph struct {
	// order holds agent IDs in declaration order.
	order []string
	// edges maps agent ID to the IDs it depends on.
	edges map[string][]string
}

// Build constructs the graph from agents with populated dependencies.
// Self-loops, references to unknown agents, and cycles are hard errors.
func Build(agents []*models.Agent) (*Graph, error) {
	g := &Graph{edges: make(map[string][]string, len(agents))}

	known := make(map[string]bool, len(agents))
	for _, a := range agents {
		if known[a.ID] {
			return nil, fmt.Errorf("duplicate agent %q", a.ID)
		}
		known[a.ID] = true
		g.order = append(g.order, a.ID)
		g.edges[a.ID] = nil
	}

	for _, a := range agents {
		for _, dep := range a.Dependencies {
			if dep == a.ID {
				return nil, &CycleError{Nodes: []string{a.ID, a.ID}}
			}
			if !known[dep] {
				return nil, fmt.Errorf("agent %q depends on unknown agent %q", a.ID, dep)
			}
			g.edges[a.ID] = append(g.edges[a.ID], dep)
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, cycle
	}
	return g, nil
}

// findCycle runs a DFS with coloring and returns the first cycle found.
func (g *Graph) findCycle() *CycleError {
	// 0 = unvisited, 1 = visiting, 2 = done.
	state := make(map[string]int, len(g.order))

	var cycle *CycleError
	var visit func(id string, path []string) bool
	visit = func(id string, path []string) bool {
		if state[id] == 2 {
			return false
		}
		if state[id] == 1 {
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle = &CycleError{Nodes: append(append([]string{}, path[start:]...), id)}
			return true
		}

		state[id] = 1
		for _, dep := range g.edges[id] {
			if visit(dep, append(path, id)) {
				return true
			}
		}
		state[id] = 2
		return false
	}

	for _, id := range g.order {
		if state[id] == 0 && visit(id, nil) {
			return cycle
		}
	}
	return nil
}

// TopologicalSort returns agent IDs so that every dependency appears
// strictly before its dependents. When several agents are simultaneously
// unblocked, declaration order decides; no further optimization is applied.
func (g *Graph) TopologicalSort() []string {
	indegree := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))
	for _, id := range g.order {
		indegree[id] = len(g.edges[id])
		for _, dep := range g.edges[id] {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	emitted := make(map[string]bool, len(g.order))
	result := make([]string, 0, len(g.order))

	for len(result) < len(g.order) {
		progressed := false
		for _, id := range g.order {
			if emitted[id] || indegree[id] != 0 {
				continue
			}
			emitted[id] = true
			result = append(result, id)
			for _, dep := range dependents[id] {
				indegree[dep]--
			}
			progressed = true
		}
		if !progressed {
			// Unreachable for graphs produced by Build, which rejects cycles.
			break
		}
	}

	return result
}

// Size returns the number of agents in the graph.
func (g *Graph) Size() int {
	return len(g.order)
}

// Dependencies returns the IDs the given agent depends on.
func (g *Graph) Dependencies(id string) []string {
	return g.edges[id]
}
