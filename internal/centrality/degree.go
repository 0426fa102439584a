package centrality

import (
	"sort"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

// DegreeStat holds the degree statistics of a single node. Mean weights
// are the summed rating divided by the edge count in that direction and
// are exactly 0 when the node has no edges in that direction.
type DegreeStat struct {
	Label         int     `json:"node"`
	InDegree      int     `json:"in_degree"`
	OutDegree     int     `json:"out_degree"`
	InWeight      int     `json:"in_weight"`
	OutWeight     int     `json:"out_weight"`
	MeanInWeight  float64 `json:"mean_in_weight"`
	MeanOutWeight float64 `json:"mean_out_weight"`
}

// Degree computes per-node degree statistics and returns two complete
// views of them: byIn sorted by unweighted in-degree descending and byOut
// sorted by unweighted out-degree descending. Both sorts are stable over
// first-seen node order.
func Degree(g *graph.Graph) (byIn, byOut []DegreeStat) {
	n := g.Len()
	stats := make([]DegreeStat, n)
	for i := 0; i < n; i++ {
		st := DegreeStat{
			Label:     g.Label(i),
			InDegree:  g.InDegree(i),
			OutDegree: g.OutDegree(i),
		}
		for _, e := range g.In(i) {
			st.InWeight += e.Weight
		}
		for _, e := range g.Out(i) {
			st.OutWeight += e.Weight
		}
		st.MeanInWeight = meanWeight(st.InWeight, st.InDegree)
		st.MeanOutWeight = meanWeight(st.OutWeight, st.OutDegree)
		stats[i] = st
	}

	byIn = make([]DegreeStat, n)
	copy(byIn, stats)
	sort.SliceStable(byIn, func(i, j int) bool {
		return byIn[i].InDegree > byIn[j].InDegree
	})

	byOut = make([]DegreeStat, n)
	copy(byOut, stats)
	sort.SliceStable(byOut, func(i, j int) bool {
		return byOut[i].OutDegree > byOut[j].OutDegree
	})
	return byIn, byOut
}

// meanWeight returns sum/count, or 0 when count is 0.
func meanWeight(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
