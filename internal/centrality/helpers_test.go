package centrality

import (
	"math"
	"math/rand"
	"testing"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

const tolerance = 1e-3

// fiveNodeRecords is the path/star graph 0-4, 1-2, 2-3, 3-4, 1-4.
func fiveNodeRecords() []graph.Record {
	return []graph.Record{
		{Source: 0, Target: 4, Rating: 1},
		{Source: 1, Target: 2, Rating: 1},
		{Source: 2, Target: 3, Rating: 1},
		{Source: 3, Target: 4, Rating: 1},
		{Source: 1, Target: 4, Rating: 1},
	}
}

// randomRecords returns a reproducible random multigraph with ratings in
// [-10, 10].
func randomRecords(seed int64, nodes, edges int) []graph.Record {
	rnd := rand.New(rand.NewSource(seed))
	records := make([]graph.Record, edges)
	for i := range records {
		records[i] = graph.Record{
			Source: rnd.Intn(nodes) * 3,
			Target: rnd.Intn(nodes) * 3,
			Rating: rnd.Intn(21) - 10,
		}
	}
	return records
}

func byLabel(scores []Score) map[int]float64 {
	m := make(map[int]float64, len(scores))
	for _, s := range scores {
		m[s.Label] = s.Value
	}
	return m
}

func assertScores(t *testing.T, scores []Score, want map[int]float64) {
	t.Helper()
	if len(scores) != len(want) {
		t.Fatalf("got %d scores, want %d", len(scores), len(want))
	}
	got := byLabel(scores)
	for label, w := range want {
		g, ok := got[label]
		if !ok {
			t.Errorf("node %d missing from result", label)
			continue
		}
		if math.Abs(g-w) > tolerance {
			t.Errorf("node %d = %.6f, want %.6f", label, g, w)
		}
	}
}

func assertSortedDesc(t *testing.T, scores []Score) {
	t.Helper()
	for i := 1; i < len(scores); i++ {
		if scores[i].Value > scores[i-1].Value {
			t.Fatalf("scores not sorted at %d: %v > %v", i, scores[i].Value, scores[i-1].Value)
		}
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"nan", math.NaN(), 0},
		{"+inf", math.Inf(1), 0},
		{"-inf", math.Inf(-1), 0},
		{"finite", 0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.in); got != tt.want {
				t.Errorf("sanitize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRankStable_NaNNeverLeaks(t *testing.T) {
	t.Parallel()
	scores := rankStable([]int{1, 2, 3, 4}, []float64{math.NaN(), 0.5, math.Inf(1), 0.5})

	want := []Score{{2, 0.5}, {4, 0.5}, {1, 0}, {3, 0}}
	for i, s := range scores {
		if math.IsNaN(s.Value) {
			t.Fatalf("NaN leaked at position %d", i)
		}
		if s != want[i] {
			t.Errorf("scores[%d] = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestValueOf(t *testing.T) {
	t.Parallel()
	scores := []Score{{Label: 5, Value: 0.5}}
	if v, ok := ValueOf(scores, 5); !ok || v != 0.5 {
		t.Errorf("ValueOf(5) = %v, %v; want 0.5, true", v, ok)
	}
	if _, ok := ValueOf(scores, 6); ok {
		t.Error("ValueOf(6) found a missing label")
	}
}
