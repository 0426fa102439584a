// Package graph provides the immutable directed multigraph that the
// centrality engines query. Nodes carry opaque integer labels taken from
// the trust records; edges carry the integer rating and are never merged.
package graph

import (
	"fmt"
	"strings"
)

// Record is one rated directed edge of the trust network.
type Record struct {
	Source int
	Target int
	Rating int
}

// Edge is a directed edge between two node indices.
type Edge struct {
	ID     int // position in insertion order
	From   int // source node index
	To     int // target node index
	Weight int
}

// Direction selects which edges a traversal follows.
type Direction int

const (
	Outgoing   Direction = iota // follow edges From → To
	Incoming                    // follow edges To → From
	Undirected                  // follow edges both ways
)

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "outgoing"
	case Incoming:
		return "incoming"
	case Undirected:
		return "undirected"
	default:
		return "unknown"
	}
}

// ParseDirection returns the Direction named by s, as produced by String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "outgoing", "out":
		return Outgoing, nil
	case "incoming", "in":
		return Incoming, nil
	case "undirected", "both":
		return Undirected, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want incoming, outgoing or undirected)", s)
	}
}

// Graph is a directed multigraph with integer node labels and integer
// edge weights. Node indices are dense, assigned in first-seen order.
// A Graph is never mutated after New returns, so it is safe for
// concurrent readers.
type Graph struct {
	labels []int       // index → label
	index  map[int]int // label → index
	edges  []Edge

	// out/in hold edge IDs per node in insertion order.
	out [][]int
	in  [][]int

	// succ/pred hold distinct neighbour indices per node in first-seen
	// order. Parallel edges collapse here.
	succ [][]int
	pred [][]int
	both [][]int
}

// Option configures graph construction.
type Option func(*Graph)

// WithNodes registers labels as nodes before any record is read, so they
// take the first indices and exist even when no record mentions them.
func WithNodes(labels ...int) Option {
	return func(g *Graph) {
		for _, l := range labels {
			g.register(l)
		}
	}
}

// New builds a Graph from records. Each record registers its source and
// target on first appearance and adds exactly one edge, so EdgeCount
// always equals len(records).
func New(records []Record, opts ...Option) *Graph {
	g := &Graph{
		index: make(map[int]int),
		edges: make([]Edge, 0, len(records)),
	}
	for _, opt := range opts {
		opt(g)
	}
	seenSucc := make(map[[2]int]bool, len(records))
	for _, r := range records {
		from := g.register(r.Source)
		to := g.register(r.Target)
		id := len(g.edges)
		g.edges = append(g.edges, Edge{ID: id, From: from, To: to, Weight: r.Rating})
		g.out[from] = append(g.out[from], id)
		g.in[to] = append(g.in[to], id)

		pair := [2]int{from, to}
		if !seenSucc[pair] {
			seenSucc[pair] = true
			g.succ[from] = append(g.succ[from], to)
			g.pred[to] = append(g.pred[to], from)
		}
	}
	g.both = make([][]int, len(g.labels))
	for i := range g.labels {
		g.both[i] = mergeNeighbors(g.succ[i], g.pred[i])
	}
	return g
}

// mergeNeighbors returns succ followed by the members of pred that are
// not already in succ.
func mergeNeighbors(succ, pred []int) []int {
	if len(pred) == 0 {
		return succ
	}
	if len(succ) == 0 {
		return pred
	}
	seen := make(map[int]bool, len(succ))
	merged := make([]int, 0, len(succ)+len(pred))
	for _, v := range succ {
		seen[v] = true
		merged = append(merged, v)
	}
	for _, v := range pred {
		if !seen[v] {
			merged = append(merged, v)
		}
	}
	return merged
}

// register returns the index for label, creating the node if needed.
func (g *Graph) register(label int) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	i := len(g.labels)
	g.index[label] = i
	g.labels = append(g.labels, label)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.succ = append(g.succ, nil)
	g.pred = append(g.pred, nil)
	return i
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.labels)
}

// EdgeCount returns the number of edges, parallel edges included.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns node labels in first-seen order. The slice is a copy.
func (g *Graph) Nodes() []int {
	out := make([]int, len(g.labels))
	copy(out, g.labels)
	return out
}

// Label returns the external label of node index i.
func (g *Graph) Label(i int) int {
	return g.labels[i]
}

// Index returns the node index for label and whether it exists.
func (g *Graph) Index(label int) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id int) Edge {
	return g.edges[id]
}

// Out returns the outgoing edges of node i in insertion order.
func (g *Graph) Out(i int) []Edge {
	return g.collect(g.out[i])
}

// In returns the incoming edges of node i in insertion order.
func (g *Graph) In(i int) []Edge {
	return g.collect(g.in[i])
}

// OutDegree returns the number of outgoing edges of node i.
func (g *Graph) OutDegree(i int) int {
	return len(g.out[i])
}

// InDegree returns the number of incoming edges of node i.
func (g *Graph) InDegree(i int) int {
	return len(g.in[i])
}

func (g *Graph) collect(ids []int) []Edge {
	edges := make([]Edge, len(ids))
	for k, id := range ids {
		edges[k] = g.edges[id]
	}
	return edges
}

// Successors returns the distinct targets of node i's outgoing edges.
// The returned slice must not be modified.
func (g *Graph) Successors(i int) []int {
	return g.succ[i]
}

// Predecessors returns the distinct sources of node i's incoming edges.
// The returned slice must not be modified.
func (g *Graph) Predecessors(i int) []int {
	return g.pred[i]
}

// Neighbors returns the distinct nodes reachable from i in one step along
// dir. For Undirected, successors come first, followed by predecessors
// that are not also successors. The returned slice must not be modified.
func (g *Graph) Neighbors(i int, dir Direction) []int {
	switch dir {
	case Incoming:
		return g.pred[i]
	case Undirected:
		return g.both[i]
	default:
		return g.succ[i]
	}
}
