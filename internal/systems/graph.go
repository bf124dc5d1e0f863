// Package systems resolves a System set's declared soft ordering into a
// concrete run order via a topological sort, grounded on the same
// Kahn's-algorithm shape used for dependency resolution in the
// AKJUS-bsc-erigon and prysmaticlabs-prysm DAG-adjacent code in the
// retrieval pack, adapted here to a small in-memory graph instead of a
// blockchain's state graph.
package systems

import "fmt"

// System is one unit of per-frame work a Graph can order and the World's
// Update loop can run (spec §12 "build-graph resolver", named only at its
// seam in the distilled spec).
type System interface {
	// Name uniquely identifies the system within a Graph.
	Name() string
	// After lists the names of systems that must run before this one. A
	// name with no matching System in the Graph is ignored, so systems can
	// declare a soft preference for an optional system without requiring it.
	After() []string
	// OnUpdate runs the system's work for one frame.
	OnUpdate()
}

// Graph holds a System set and resolves it into a run order.
type Graph struct {
	systems []System
	byName  map[string]System
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{byName: make(map[string]System)}
}

// Add registers s with the graph. Registering two systems under the same
// Name panics: that is a programming error, not a runtime condition to
// recover from.
func (g *Graph) Add(s System) {
	if _, exists := g.byName[s.Name()]; exists {
		panic(fmt.Sprintf("systems: duplicate system name %q", s.Name()))
	}
	g.systems = append(g.systems, s)
	g.byName[s.Name()] = s
}

// CycleError reports that After() declarations formed a cycle, naming every
// system left unresolved when Kahn's algorithm could make no further
// progress.
type CycleError struct {
	Remaining []string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("systems: dependency cycle among %v", e.Remaining)
}

// Resolve returns g's systems in an order satisfying every After()
// declaration. For determinism, ready systems are taken first-in first-out:
// the queue starts with the unconstrained systems in Add order, and a
// system's dependents join it in Add order once it runs. Returns CycleError if the declarations are
// contradictory.
func (g *Graph) Resolve() ([]System, error) {
	indegree := make(map[string]int, len(g.systems))
	dependents := make(map[string][]string, len(g.systems))

	for _, s := range g.systems {
		if _, ok := indegree[s.Name()]; !ok {
			indegree[s.Name()] = 0
		}
		for _, dep := range s.After() {
			if _, ok := g.byName[dep]; !ok {
				continue
			}
			indegree[s.Name()]++
			dependents[dep] = append(dependents[dep], s.Name())
		}
	}

	var ready []string
	for _, s := range g.systems {
		if indegree[s.Name()] == 0 {
			ready = append(ready, s.Name())
		}
	}

	var order []string
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, dep := range dependents[name] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(g.systems) {
		resolved := make(map[string]bool, len(order))
		for _, n := range order {
			resolved[n] = true
		}
		var remaining []string
		for _, s := range g.systems {
			if !resolved[s.Name()] {
				remaining = append(remaining, s.Name())
			}
		}
		return nil, CycleError{Remaining: remaining}
	}

	out := make([]System, len(order))
	for i, name := range order {
		out[i] = g.byName[name]
	}
	return out, nil
}
