package centrality

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

// ErrInvalidOptions is returned when engine options are out of range.
var ErrInvalidOptions = errors.New("centrality: invalid options")

// PageRankOptions configures the iterative PageRank algorithm.
type PageRankOptions struct {
	Damping       float64 // damping factor; typically 0.85
	Epsilon       float64 // convergence threshold on the max per-node change
	MaxIterations int     // upper bound on iterations
}

// DefaultPageRankOptions returns damping 0.85, epsilon 1e-6 and at most
// 100 iterations.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:       0.85,
		Epsilon:       1e-6,
		MaxIterations: 100,
	}
}

// Validate reports whether the options describe a terminating iteration.
func (o PageRankOptions) Validate() error {
	if !(o.Damping > 0 && o.Damping < 1) {
		return fmt.Errorf("%w: damping must be in (0, 1), got %v", ErrInvalidOptions, o.Damping)
	}
	if !(o.Epsilon > 0) {
		return fmt.Errorf("%w: epsilon must be > 0, got %v", ErrInvalidOptions, o.Epsilon)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be > 0, got %d", ErrInvalidOptions, o.MaxIterations)
	}
	return nil
}

// PageRankResult is the ranking produced by PageRank along with how the
// iteration ended.
type PageRankResult struct {
	Scores     []Score
	Iterations int
	Converged  bool
}

// linkGraph is the edge-list view PageRank iterates over. Unlike
// graph.Graph's neighbour lists it keeps every record as its own link.
type linkGraph struct {
	labels []int
	src    []int
	dst    []int
	outDeg []int
}

func newLinkGraph(records []graph.Record) linkGraph {
	lg := linkGraph{
		src: make([]int, len(records)),
		dst: make([]int, len(records)),
	}
	index := make(map[int]int)
	register := func(label int) int {
		if i, ok := index[label]; ok {
			return i
		}
		i := len(lg.labels)
		index[label] = i
		lg.labels = append(lg.labels, label)
		lg.outDeg = append(lg.outDeg, 0)
		return i
	}
	for k, r := range records {
		u := register(r.Source)
		v := register(r.Target)
		lg.src[k] = u
		lg.dst[k] = v
		lg.outDeg[u]++
	}
	return lg
}

// PageRank computes PageRank over the links implied by records. Repeated
// ratings between the same pair are separate links: each carries
// rank(u)/outDegree(u) where outDegree counts every record u issued, so a
// target rated three times by u receives three shares.
//
// Dangling nodes (no outgoing records) redistribute their rank uniformly
// across all nodes, and the final vector is normalized to sum to 1.
// Iteration stops once the largest per-node change drops below
// opts.Epsilon or after opts.MaxIterations rounds.
//
// Scores are sorted descending with ties broken by ascending label.
func PageRank(records []graph.Record, opts PageRankOptions) (PageRankResult, error) {
	if err := opts.Validate(); err != nil {
		return PageRankResult{}, err
	}

	lg := newLinkGraph(records)
	n := len(lg.labels)
	if n == 0 {
		return PageRankResult{Scores: []Score{}, Converged: true}, nil
	}

	nf := float64(n)
	d := opts.Damping
	base := (1.0 - d) / nf

	rank := make([]float64, n)
	next := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / nf
	}

	res := PageRankResult{}
	for iter := 0; iter < opts.MaxIterations; iter++ {
		var danglingSum float64
		for i, deg := range lg.outDeg {
			if deg == 0 {
				danglingSum += rank[i]
			}
		}
		share := base + d*danglingSum/nf
		for i := range next {
			next[i] = share
		}
		for k, u := range lg.src {
			next[lg.dst[k]] += d * rank[u] / float64(lg.outDeg[u])
		}

		maxDelta := 0.0
		for i := range rank {
			if delta := math.Abs(next[i] - rank[i]); delta > maxDelta {
				maxDelta = delta
			}
		}

		rank, next = next, rank
		res.Iterations = iter + 1
		if maxDelta < opts.Epsilon {
			res.Converged = true
			break
		}
	}

	if total := floats.Sum(rank); total > 0 {
		floats.Scale(1/total, rank)
	}

	res.Scores = make([]Score, n)
	for i, label := range lg.labels {
		res.Scores[i] = Score{Label: label, Value: sanitize(rank[i])}
	}
	sort.Slice(res.Scores, func(i, j int) bool {
		a, b := res.Scores[i], res.Scores[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Label < b.Label
	})
	return res, nil
}
