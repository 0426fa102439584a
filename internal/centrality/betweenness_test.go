package centrality

import (
	"math"
	"reflect"
	"testing"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

func TestBetweenness_FiveNodeUndirected(t *testing.T) {
	t.Parallel()
	g := graph.New(fiveNodeRecords())
	opts := BetweennessOptions{Endpoints: true, Normalized: true, Undirected: true}

	scores := Betweenness(g, opts)
	assertScores(t, scores, map[int]float64{0: 0.4, 1: 0.5, 2: 0.45, 3: 0.5, 4: 0.75})
	assertSortedDesc(t, scores)
}

func TestBetweenness_Path(t *testing.T) {
	t.Parallel()
	// 1 → 2 → 3, with a parallel 1 → 2 that must not add a second path.
	g := graph.New([]graph.Record{
		{Source: 1, Target: 2, Rating: 1},
		{Source: 1, Target: 2, Rating: 9},
		{Source: 2, Target: 3, Rating: 1},
	})

	tests := []struct {
		name string
		opts BetweennessOptions
		want map[int]float64
	}{
		{"raw", BetweennessOptions{}, map[int]float64{1: 0, 2: 1, 3: 0}},
		{"normalized", BetweennessOptions{Normalized: true}, map[int]float64{1: 0, 2: 0.5, 3: 0}},
		// Endpoints: 1 reaches 2 nodes, 2 reaches 1; targets gain 1 per source.
		{"endpoints", BetweennessOptions{Endpoints: true}, map[int]float64{1: 2, 2: 3, 3: 2}},
		{"undirected raw", BetweennessOptions{Undirected: true}, map[int]float64{1: 0, 2: 1, 3: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertScores(t, Betweenness(g, tt.opts), tt.want)
		})
	}
}

func TestBetweenness_DisconnectedAndIsolated(t *testing.T) {
	t.Parallel()
	g := graph.New([]graph.Record{
		{Source: 1, Target: 2}, {Source: 2, Target: 3},
		{Source: 10, Target: 11},
	}, graph.WithNodes(99))

	scores := Betweenness(g, BetweennessOptions{Normalized: true})
	for _, s := range scores {
		if math.IsNaN(s.Value) {
			t.Fatalf("node %d is NaN", s.Label)
		}
	}
	got := byLabel(scores)
	if got[99] != 0 || got[10] != 0 || got[11] != 0 {
		t.Errorf("isolated/endpoint nodes = %v, want 0", got)
	}
	if got[2] <= 0 {
		t.Errorf("node 2 = %v, want > 0", got[2])
	}
}

func TestBetweenness_SmallGraphs(t *testing.T) {
	t.Parallel()
	if got := Betweenness(graph.New(nil), DefaultBetweennessOptions()); len(got) != 0 {
		t.Errorf("empty graph = %v, want empty", got)
	}
	single := Betweenness(graph.New(nil, graph.WithNodes(4)), DefaultBetweennessOptions())
	if !reflect.DeepEqual(single, []Score{{Label: 4, Value: 0}}) {
		t.Errorf("single node = %v, want [{4 0}]", single)
	}
}

func TestBetweenness_StableTies(t *testing.T) {
	t.Parallel()
	// Star with hub 0: every leaf scores 0, so leaves keep first-seen order.
	g := graph.New([]graph.Record{
		{Source: 7, Target: 0}, {Source: 0, Target: 5}, {Source: 0, Target: 9}, {Source: 3, Target: 0},
	})
	scores := Betweenness(g, BetweennessOptions{})
	var order []int
	for _, s := range scores {
		order = append(order, s.Label)
	}
	if want := []int{0, 7, 5, 9, 3}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestBetweenness_WorkersAgree(t *testing.T) {
	t.Parallel()
	g := graph.New(randomRecords(11, 80, 320))

	seq := byLabel(Betweenness(g, BetweennessOptions{Normalized: true, Workers: 1}))
	par := Betweenness(g, BetweennessOptions{Normalized: true, Workers: 4})
	again := Betweenness(g, BetweennessOptions{Normalized: true, Workers: 4})

	if !reflect.DeepEqual(par, again) {
		t.Error("parallel runs with the same worker count differ")
	}
	for label, v := range byLabel(par) {
		if math.Abs(v-seq[label]) > 1e-9 {
			t.Errorf("node %d: workers=4 %v, workers=1 %v", label, v, seq[label])
		}
	}
}

func TestBetweenness_Idempotent(t *testing.T) {
	t.Parallel()
	g := graph.New(randomRecords(12, 60, 240))
	a := Betweenness(g, DefaultBetweennessOptions())
	b := Betweenness(g, DefaultBetweennessOptions())
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same graph differ")
	}
}
