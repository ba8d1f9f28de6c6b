// Package adjacency builds the undirected room-adjacency graph that egress
// reachability and corridor rules run over. Nodes are space IDs; an edge
// means a door connects the two spaces. The builder derives edges from
// door/opening geometry against space footprints.
package adjacency

import (
	"sort"
)

// Graph is an undirected graph over space IDs. It is populated by the
// builder and treated as immutable afterwards; it is not safe for
// concurrent mutation.
type Graph struct {
	adj       map[string]map[string]bool
	edgeCount int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]bool)}
}

// AddNode registers a node. Adding an existing node is a no-op, so isolated
// rooms show up in the node set without needing edges.
func (g *Graph) AddNode(id string) {
	if _, exists := g.adj[id]; !exists {
		g.adj[id] = make(map[string]bool)
	}
}

// AddEdge links two nodes symmetrically. Self-loops are ignored and
// duplicate edges collapse, so re-running a build over the same doors yields
// an identical edge set.
func (g *Graph) AddEdge(a, b string) {
	if a == b {
		return
	}
	g.AddNode(a)
	g.AddNode(b)
	if g.adj[a][b] {
		return
	}
	g.adj[a][b] = true
	g.adj[b][a] = true
	g.edgeCount++
}

// HasNode reports whether the node is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, exists := g.adj[id]
	return exists
}

// HasEdge reports whether the two nodes are linked.
func (g *Graph) HasEdge(a, b string) bool {
	return g.adj[a][b]
}

// Neighbors returns the nodes adjacent to id, sorted.
func (g *Graph) Neighbors(id string) []string {
	nbrs := g.adj[id]
	if len(nbrs) == 0 {
		return nil
	}
	out := make([]string, 0, len(nbrs))
	for n := range nbrs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Degree returns the number of nodes adjacent to id.
func (g *Graph) Degree(id string) int {
	return len(g.adj[id])
}

// Nodes returns all node IDs, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.adj))
	for id := range g.adj {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}
