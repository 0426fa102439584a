package centrality

import (
	"sync"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

// BetweennessOptions configures BetweennessCentrality.
type BetweennessOptions struct {
	// Endpoints counts the source and target of every shortest path
	// toward their own scores.
	Endpoints bool

	// Normalized divides scores by n(n-1) when Endpoints is set and by
	// (n-1)(n-2) otherwise.
	Normalized bool

	// Undirected treats every edge as traversable in both directions.
	// Unnormalized undirected scores are halved so each unordered pair
	// counts once.
	Undirected bool

	// Workers splits the source nodes into that many contiguous chunks
	// processed concurrently. Values below 1 mean 1. Output is
	// deterministic for a fixed worker count.
	Workers int
}

// DefaultBetweennessOptions returns endpoint-inclusive, normalized,
// directed, single-worker options.
func DefaultBetweennessOptions() BetweennessOptions {
	return BetweennessOptions{
		Endpoints:  true,
		Normalized: true,
		Workers:    1,
	}
}

// Betweenness computes betweenness centrality for every node using
// Brandes' algorithm over the unweighted topology. Parallel edges count
// once and weights are ignored. Nodes that never sit between two others
// score exactly 0.
//
// The result is sorted by score descending; ties keep first-seen order.
func Betweenness(g *graph.Graph, opts BetweennessOptions) []Score {
	n := g.Len()
	cb := make([]float64, n)
	if n == 0 {
		return []Score{}
	}

	dir := graph.Outgoing
	if opts.Undirected {
		dir = graph.Undirected
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	if workers == 1 {
		ws := newBrandesWorkspace(n)
		for s := 0; s < n; s++ {
			ws.bfs(g, s, dir)
			ws.accumulate(s, opts.Endpoints, cb)
		}
	} else {
		partials := make([][]float64, workers)
		chunk := (n + workers - 1) / workers
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			lo, hi := w*chunk, min((w+1)*chunk, n)
			partials[w] = make([]float64, n)
			wg.Add(1)
			go func(part []float64, lo, hi int) {
				defer wg.Done()
				ws := newBrandesWorkspace(n)
				for s := lo; s < hi; s++ {
					ws.bfs(g, s, dir)
					ws.accumulate(s, opts.Endpoints, part)
				}
			}(partials[w], lo, hi)
		}
		wg.Wait()
		for _, part := range partials {
			for i, v := range part {
				cb[i] += v
			}
		}
	}

	if scale, ok := betweennessScale(n, opts); ok {
		for i := range cb {
			cb[i] *= scale
		}
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = g.Label(i)
	}
	return rankStable(labels, cb)
}

// betweennessScale returns the factor raw scores are multiplied by and
// whether any rescaling applies.
func betweennessScale(n int, opts BetweennessOptions) (float64, bool) {
	nf := float64(n)
	switch {
	case opts.Normalized && opts.Endpoints:
		if n < 2 {
			return 1, false
		}
		return 1 / (nf * (nf - 1)), true
	case opts.Normalized:
		if n <= 2 {
			return 1, false
		}
		return 1 / ((nf - 1) * (nf - 2)), true
	case opts.Undirected:
		return 0.5, true
	default:
		return 1, false
	}
}

// brandesWorkspace holds the per-source arrays of Brandes' algorithm.
// Arrays are sized once and reset only at the entries a search touched.
type brandesWorkspace struct {
	dist  []int
	sigma []float64
	delta []float64
	pred  [][]int
	stack []int
	queue []int
}

func newBrandesWorkspace(n int) *brandesWorkspace {
	ws := &brandesWorkspace{
		dist:  make([]int, n),
		sigma: make([]float64, n),
		delta: make([]float64, n),
		pred:  make([][]int, n),
		stack: make([]int, 0, n),
		queue: make([]int, 0, n),
	}
	for i := range ws.dist {
		ws.dist[i] = -1
	}
	return ws
}

// reset clears the entries touched by the previous search.
func (ws *brandesWorkspace) reset() {
	for _, v := range ws.stack {
		ws.dist[v] = -1
		ws.sigma[v] = 0
		ws.delta[v] = 0
		ws.pred[v] = ws.pred[v][:0]
	}
	ws.stack = ws.stack[:0]
	ws.queue = ws.queue[:0]
}

// bfs performs the BFS phase of Brandes' algorithm from source s. It
// leaves the visit order in stack, shortest-path counts in sigma and
// predecessor lists in pred.
func (ws *brandesWorkspace) bfs(g *graph.Graph, s int, dir graph.Direction) {
	ws.reset()
	ws.sigma[s] = 1
	ws.dist[s] = 0
	ws.queue = append(ws.queue, s)

	for head := 0; head < len(ws.queue); head++ {
		v := ws.queue[head]
		ws.stack = append(ws.stack, v)
		for _, w := range g.Neighbors(v, dir) {
			if ws.dist[w] < 0 {
				ws.dist[w] = ws.dist[v] + 1
				ws.queue = append(ws.queue, w)
			}
			if ws.dist[w] == ws.dist[v]+1 {
				ws.sigma[w] += ws.sigma[v]
				ws.pred[w] = append(ws.pred[w], v)
			}
		}
	}
}

// accumulate performs the back-propagation phase, adding pair
// dependencies from source s into cb.
func (ws *brandesWorkspace) accumulate(s int, endpoints bool, cb []float64) {
	for i := len(ws.stack) - 1; i >= 0; i-- {
		w := ws.stack[i]
		for _, v := range ws.pred[w] {
			ws.delta[v] += (ws.sigma[v] / ws.sigma[w]) * (1 + ws.delta[w])
		}
		if w != s {
			cb[w] += ws.delta[w]
			if endpoints {
				cb[w]++
			}
		}
	}
	if endpoints {
		cb[s] += float64(len(ws.stack) - 1)
	}
}
