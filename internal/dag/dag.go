// Package dag provides the directed acyclic graph over constructs implied by
// the structural paths. It supports cycle detection and Kahn topological
// sorting with a deterministic order fixed by node insertion sequence.
package dag

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycle indicates the structural paths form a cycle.
var ErrCycle = errors.New("dag: cycle detected")

// Graph is a directed graph keyed by construct name. Adjacency is kept as
// parent and child lists per node; insertion order of nodes and edges is
// preserved so traversals are deterministic.
type Graph struct {
	order    []string
	nodes    map[string]bool
	children map[string][]string // source -> targets
	parents  map[string][]string // target -> sources
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]bool),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddNode adds a node if not already present.
func (g *Graph) AddNode(name string) {
	if g.nodes[name] {
		return
	}
	g.nodes[name] = true
	g.order = append(g.order, name)
}

// AddEdge adds a directed edge from source to target. Both nodes must already
// exist; self-loops and duplicate edges are rejected.
func (g *Graph) AddEdge(source, target string) error {
	if !g.nodes[source] {
		return fmt.Errorf("dag: source node %q does not exist", source)
	}
	if !g.nodes[target] {
		return fmt.Errorf("dag: target node %q does not exist", target)
	}
	if source == target {
		return fmt.Errorf("dag: self-loop on %q", source)
	}
	for _, t := range g.children[source] {
		if t == target {
			return fmt.Errorf("dag: duplicate edge %s -> %s", source, target)
		}
	}
	g.children[source] = append(g.children[source], target)
	g.parents[target] = append(g.parents[target], source)
	return nil
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(name string) bool { return g.nodes[name] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// Parents returns the sources of incoming edges for a node, in edge insertion
// order.
func (g *Graph) Parents(name string) []string { return g.parents[name] }

// Children returns the targets of outgoing edges for a node.
func (g *Graph) Children(name string) []string { return g.children[name] }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string { return append([]string(nil), g.order...) }

// TopoSort returns the nodes in topological order using Kahn's algorithm:
// repeatedly emit a node with in-degree zero and decrement its children.
// Ties resolve by node insertion order. If fewer nodes are emitted than
// exist, the remainder form at least one cycle and ErrCycle is returned with
// the participating nodes named.
func (g *Graph) TopoSort() ([]string, error) {
	indeg := make(map[string]int, len(g.order))
	for _, n := range g.order {
		indeg[n] = len(g.parents[n])
	}

	var queue []string
	for _, n := range g.order {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		sorted = append(sorted, n)
		for _, child := range g.children[n] {
			indeg[child]--
			if indeg[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(sorted) != len(g.order) {
		var stuck []string
		for _, n := range g.order {
			if indeg[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w involving %v", ErrCycle, stuck)
	}
	return sorted, nil
}
