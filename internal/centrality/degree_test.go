package centrality

import (
	"reflect"
	"testing"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

func TestDegree_ThreeCycle(t *testing.T) {
	t.Parallel()
	g := graph.New([]graph.Record{
		{Source: 1, Target: 2, Rating: 1},
		{Source: 2, Target: 3, Rating: 2},
		{Source: 3, Target: 1, Rating: 3},
	})

	byIn, byOut := Degree(g)
	want := []DegreeStat{
		{Label: 1, InDegree: 1, OutDegree: 1, InWeight: 3, OutWeight: 1, MeanInWeight: 3.0, MeanOutWeight: 1.0},
		{Label: 2, InDegree: 1, OutDegree: 1, InWeight: 1, OutWeight: 2, MeanInWeight: 1.0, MeanOutWeight: 2.0},
		{Label: 3, InDegree: 1, OutDegree: 1, InWeight: 2, OutWeight: 3, MeanInWeight: 2.0, MeanOutWeight: 3.0},
	}
	if !reflect.DeepEqual(byIn, want) {
		t.Errorf("byIn = %+v\nwant %+v", byIn, want)
	}
	if !reflect.DeepEqual(byOut, want) {
		t.Errorf("byOut = %+v\nwant %+v", byOut, want)
	}
}

func TestDegree_Empty(t *testing.T) {
	t.Parallel()
	byIn, byOut := Degree(graph.New(nil))
	if len(byIn) != 0 || len(byOut) != 0 {
		t.Errorf("empty graph: byIn=%v byOut=%v, want both empty", byIn, byOut)
	}
}

func TestDegree_ZeroCountMeansZero(t *testing.T) {
	t.Parallel()
	g := graph.New([]graph.Record{{Source: 1, Target: 2, Rating: -7}}, graph.WithNodes(9))

	byIn, _ := Degree(g)
	stats := make(map[int]DegreeStat)
	for _, st := range byIn {
		stats[st.Label] = st
	}
	if st := stats[1]; st.MeanInWeight != 0 || st.MeanOutWeight != -7 {
		t.Errorf("node 1 means = in %v out %v, want 0 and -7", st.MeanInWeight, st.MeanOutWeight)
	}
	if st := stats[9]; st != (DegreeStat{Label: 9}) {
		t.Errorf("isolated node 9 = %+v, want all zero", st)
	}
}

func TestDegree_MeanTimesCountIsSum(t *testing.T) {
	t.Parallel()
	byIn, _ := Degree(graph.New(randomRecords(7, 60, 400)))

	for _, st := range byIn {
		if st.InDegree == 0 {
			if st.MeanInWeight != 0 {
				t.Errorf("node %d: zero in-degree but mean %v", st.Label, st.MeanInWeight)
			}
			continue
		}
		got := st.MeanInWeight * float64(st.InDegree)
		if diff := got - float64(st.InWeight); diff > 1e-9 || diff < -1e-9 {
			t.Errorf("node %d: mean*count = %v, sum = %d", st.Label, got, st.InWeight)
		}
	}
}

func TestDegree_StableTies(t *testing.T) {
	t.Parallel()
	// First-seen order: 5, 3, 8, 1. 3 and 1 share in-degree 2; 5 and 8
	// share in-degree 0 and out-degree 2.
	g := graph.New([]graph.Record{
		{Source: 5, Target: 3, Rating: 1},
		{Source: 8, Target: 1, Rating: 1},
		{Source: 5, Target: 1, Rating: 1},
		{Source: 8, Target: 3, Rating: 1},
	})

	byIn, byOut := Degree(g)
	labels := func(stats []DegreeStat) []int {
		out := make([]int, len(stats))
		for i, st := range stats {
			out[i] = st.Label
		}
		return out
	}
	if got, want := labels(byIn), []int{3, 1, 5, 8}; !reflect.DeepEqual(got, want) {
		t.Errorf("byIn order = %v, want %v", got, want)
	}
	if got, want := labels(byOut), []int{5, 8, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("byOut order = %v, want %v", got, want)
	}
}

func TestDegree_ParallelEdgesCounted(t *testing.T) {
	t.Parallel()
	g := graph.New([]graph.Record{
		{Source: 1, Target: 2, Rating: 10},
		{Source: 1, Target: 2, Rating: -4},
	})
	byIn, _ := Degree(g)
	if byIn[0].Label != 2 || byIn[0].InDegree != 2 || byIn[0].MeanInWeight != 3 {
		t.Errorf("byIn[0] = %+v, want node 2 with in-degree 2 and mean 3", byIn[0])
	}
}
