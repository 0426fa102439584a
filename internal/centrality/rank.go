// Package centrality implements the graph-structural metrics computed over
// a trust network: degree statistics, PageRank, betweenness and closeness.
// Every engine is a pure function over an immutable graph.Graph (or, for
// PageRank, the raw record list) and returns the complete ranking; callers
// decide how much of it to show.
package centrality

import (
	"math"
	"sort"
)

// Score is one node's value for a single metric.
type Score struct {
	Label int     `json:"node"`
	Value float64 `json:"score"`
}

// sanitize maps values that cannot be ordered or displayed to zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// rankStable pairs labels with values and sorts them by value descending.
// Equal values keep their input order, which callers pass in first-seen
// node order.
func rankStable(labels []int, values []float64) []Score {
	scores := make([]Score, len(labels))
	for i, l := range labels {
		scores[i] = Score{Label: l, Value: sanitize(values[i])}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})
	return scores
}

// ValueOf returns the score recorded for label, or false if absent.
func ValueOf(scores []Score, label int) (float64, bool) {
	for _, s := range scores {
		if s.Label == label {
			return s.Value, true
		}
	}
	return 0, false
}
