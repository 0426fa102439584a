package centrality

import "github.com/papapumpkin/trustgraph/internal/graph"

// ClosenessOptions configures Closeness.
type ClosenessOptions struct {
	// Direction selects the distances measured for node v: Incoming uses
	// distances from every u that reaches v, Outgoing uses distances from
	// v to every node it reaches, Undirected ignores edge direction.
	Direction graph.Direction

	// Improved scales each score by (r-1)/(N-1), where r is the number of
	// nodes in v's reachable set (v included) and N the graph size, so
	// nodes in small components are not overrated.
	Improved bool
}

// DefaultClosenessOptions returns incoming-direction closeness with the
// improved normalization.
func DefaultClosenessOptions() ClosenessOptions {
	return ClosenessOptions{
		Direction: graph.Incoming,
		Improved:  true,
	}
}

// Closeness computes closeness centrality for every node from one
// unweighted BFS per node. A node that reaches nothing (or that nothing
// reaches, for Incoming) scores 0.
//
// The result is sorted by score descending; ties keep first-seen order.
func Closeness(g *graph.Graph, opts ClosenessOptions) []Score {
	n := g.Len()
	if n == 0 {
		return []Score{}
	}

	// Searching along Incoming edges from v yields the distances of every
	// node that reaches v.
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, n)
	values := make([]float64, n)
	labels := make([]int, n)

	for v := 0; v < n; v++ {
		labels[v] = g.Label(v)

		queue = append(queue[:0], v)
		dist[v] = 0
		total := 0
		for head := 0; head < len(queue); head++ {
			u := queue[head]
			for _, w := range g.Neighbors(u, opts.Direction) {
				if dist[w] < 0 {
					dist[w] = dist[u] + 1
					total += dist[w]
					queue = append(queue, w)
				}
			}
		}
		reached := len(queue)
		for _, u := range queue {
			dist[u] = -1
		}

		values[v] = closenessValue(reached, total, n, opts.Improved)
	}
	return rankStable(labels, values)
}

// closenessValue converts a BFS summary into a closeness score.
func closenessValue(reached, total, n int, improved bool) float64 {
	if reached <= 1 || total == 0 {
		return 0
	}
	c := float64(reached-1) / float64(total)
	if improved {
		if n <= 1 {
			return 0
		}
		c *= float64(reached-1) / float64(n-1)
	}
	return c
}
