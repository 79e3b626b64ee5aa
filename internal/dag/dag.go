package dag

import (
	"fmt"
	"sort"
	"strings"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// AddEdge records that `dependentID` depends on `dependencyID`. Both nodes
// must exist. Self-references are rejected since a package cannot require
// itself.
func (g *Graph) AddEdge(dependentID, dependencyID string) error {
	if dependentID == dependencyID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", dependentID, dependencyID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	from, ok := g.nodes[dependentID]
	if !ok {
		return fmt.Errorf("node not found: %s", dependentID)
	}
	to, ok := g.nodes[dependencyID]
	if !ok {
		return fmt.Errorf("node not found: %s", dependencyID)
	}

	from.deps[dependencyID] = to
	to.dependents[dependentID] = from
	return nil
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.dependents), nil
}

// DetectCycles checks the graph for any cycles. The returned error names the
// nodes on the cycle in traversal order.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			start := 0
			for i, id := range stack {
				if id == n.id {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, stack[start:]...), n.id)
			return fmt.Errorf("cycle detected: %s", strings.Join(cycle, " -> "))
		}

		temporary[n.id] = true
		stack = append(stack, n.id)
		for _, depID := range sortedKeys(n.deps) {
			if err := visit(n.deps[depID]); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range sortedKeys(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// TopologicalOrder returns every node ID ordered so that each node comes
// after all of its dependencies. Ties are broken alphabetically, which makes
// the order stable across runs.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	remaining := make(map[string]int, len(g.nodes))
	var ready []string
	for id, n := range g.nodes {
		remaining[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Strings(ready)
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for depID := range g.nodes[id].dependents {
			remaining[depID]--
			if remaining[depID] == 0 {
				ready = append(ready, depID)
			}
		}
	}
	return order, nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
