package centrality

import (
	"reflect"
	"testing"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

func TestCloseness_FiveNode(t *testing.T) {
	t.Parallel()
	g := graph.New(fiveNodeRecords())

	tests := []struct {
		name string
		opts ClosenessOptions
		want map[int]float64
	}{
		{
			name: "undirected improved",
			opts: ClosenessOptions{Direction: graph.Undirected, Improved: true},
			want: map[int]float64{0: 1.0 / 2, 1: 2.0 / 3, 2: 4.0 / 7, 3: 2.0 / 3, 4: 4.0 / 5},
		},
		{
			name: "incoming improved",
			opts: ClosenessOptions{Direction: graph.Incoming, Improved: true},
			want: map[int]float64{0: 0, 1: 0, 2: 1.0 / 4, 3: 1.0 / 3, 4: 4.0 / 5},
		},
		{
			name: "incoming raw",
			opts: ClosenessOptions{Direction: graph.Incoming},
			want: map[int]float64{0: 0, 1: 0, 2: 1, 3: 2.0 / 3, 4: 4.0 / 5},
		},
		{
			// 1 reaches 2, 4 (distance 1) and 3 (distance 2).
			name: "outgoing improved",
			opts: ClosenessOptions{Direction: graph.Outgoing, Improved: true},
			want: map[int]float64{0: 1.0 / 4, 1: 9.0 / 16, 2: 2.0 / 3 * 2.0 / 4, 3: 1.0 / 4, 4: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			scores := Closeness(g, tt.opts)
			assertScores(t, scores, tt.want)
			assertSortedDesc(t, scores)
		})
	}
}

func TestCloseness_IsolatedIsZero(t *testing.T) {
	t.Parallel()
	g := graph.New(nil, graph.WithNodes(1))
	got := Closeness(g, DefaultClosenessOptions())
	if !reflect.DeepEqual(got, []Score{{Label: 1, Value: 0}}) {
		t.Errorf("single node = %v, want [{1 0}]", got)
	}
	if got := Closeness(graph.New(nil), DefaultClosenessOptions()); len(got) != 0 {
		t.Errorf("empty graph = %v, want empty", got)
	}
}

func TestCloseness_SmallComponentPenalized(t *testing.T) {
	t.Parallel()
	// Component A: 1 → 2 (two nodes). Component B: 3 → 4 → 5 and 3 → 5.
	g := graph.New([]graph.Record{
		{Source: 1, Target: 2},
		{Source: 3, Target: 4}, {Source: 4, Target: 5}, {Source: 3, Target: 5},
	})

	raw := byLabel(Closeness(g, ClosenessOptions{Direction: graph.Incoming}))
	improved := byLabel(Closeness(g, ClosenessOptions{Direction: graph.Incoming, Improved: true}))

	if raw[2] != 1 {
		t.Errorf("raw closeness of 2 = %v, want 1", raw[2])
	}
	if improved[2] >= improved[5] {
		t.Errorf("improved: node 2 = %v, node 5 = %v; want the small component ranked lower", improved[2], improved[5])
	}
}

func TestCloseness_Idempotent(t *testing.T) {
	t.Parallel()
	g := graph.New(randomRecords(21, 90, 270))
	a := Closeness(g, DefaultClosenessOptions())
	b := Closeness(g, DefaultClosenessOptions())
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same graph differ")
	}
}
