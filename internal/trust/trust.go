// Package trust aggregates raw ratings into network-wide and per-group
// trust averages.
package trust

import (
	"gonum.org/v1/gonum/stat"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

// NetworkAverage returns the mean rating over all records, or 0 when there
// are none.
func NetworkAverage(records []graph.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	ratings := make([]float64, len(records))
	for i, r := range records {
		ratings[i] = float64(r.Rating)
	}
	return stat.Mean(ratings, nil)
}

// GroupAverage returns the mean, over the given nodes, of each node's mean
// incoming rating. A node listed more than once contributes once per
// listing. Nodes nobody rated are skipped; rated reports how many listings
// contributed. The average is 0 when rated is 0.
func GroupAverage(records []graph.Record, nodes []int) (avg float64, rated int) {
	want := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		want[n] = true
	}

	sums := make(map[int]int, len(nodes))
	counts := make(map[int]int, len(nodes))
	for _, r := range records {
		if want[r.Target] {
			sums[r.Target] += r.Rating
			counts[r.Target]++
		}
	}

	means := make([]float64, 0, len(nodes))
	for _, n := range nodes {
		if counts[n] == 0 {
			continue
		}
		means = append(means, float64(sums[n])/float64(counts[n]))
	}
	if len(means) == 0 {
		return 0, 0
	}
	return stat.Mean(means, nil), len(means)
}

// GroupSummary is the trust average of one named group.
type GroupSummary struct {
	Name    string  `json:"name"`
	Size    int     `json:"size"`
	Rated   int     `json:"rated"`
	Average float64 `json:"average"`
}

// Summarize computes GroupAverage for every group, in the order given.
func Summarize(records []graph.Record, groups []Group) []GroupSummary {
	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		avg, rated := GroupAverage(records, g.Nodes)
		out = append(out, GroupSummary{
			Name:    g.Name,
			Size:    len(g.Nodes),
			Rated:   rated,
			Average: avg,
		})
	}
	return out
}
