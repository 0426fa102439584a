package centrality

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

func sumScores(scores []Score) float64 {
	var total float64
	for _, s := range scores {
		total += s.Value
	}
	return total
}

func TestPageRank_SumsToOne(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		records []graph.Record
	}{
		{"five node", fiveNodeRecords()},
		{"random sparse", randomRecords(1, 200, 300)},
		{"random dense", randomRecords(2, 30, 900)},
		{"cycle", []graph.Record{{Source: 1, Target: 2}, {Source: 2, Target: 3}, {Source: 3, Target: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := PageRank(tt.records, DefaultPageRankOptions())
			if err != nil {
				t.Fatalf("PageRank: %v", err)
			}
			if total := sumScores(res.Scores); math.Abs(total-1) > 1e-6 {
				t.Errorf("sum of scores = %.9f, want 1", total)
			}
			assertSortedDesc(t, res.Scores)
		})
	}
}

func TestPageRank_Empty(t *testing.T) {
	t.Parallel()
	res, err := PageRank(nil, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	if len(res.Scores) != 0 {
		t.Errorf("Scores = %v, want empty", res.Scores)
	}
}

func TestPageRank_SingleNode(t *testing.T) {
	t.Parallel()
	res, err := PageRank([]graph.Record{{Source: 7, Target: 7, Rating: 3}}, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	if len(res.Scores) != 1 || res.Scores[0].Label != 7 || math.Abs(res.Scores[0].Value-1) > 1e-12 {
		t.Errorf("Scores = %+v, want [{7 1}]", res.Scores)
	}
}

func TestPageRank_DanglingRedistribution(t *testing.T) {
	t.Parallel()
	// 1 → 2 only; 2 is dangling. Solving the stationary equations with
	// uniform dangling redistribution gives r2 = 0.925/1.425.
	opts := DefaultPageRankOptions()
	opts.Epsilon = 1e-12
	opts.MaxIterations = 1000
	res, err := PageRank([]graph.Record{{Source: 1, Target: 2, Rating: 1}}, opts)
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	if !res.Converged {
		t.Fatalf("did not converge in %d iterations", res.Iterations)
	}
	want2 := 0.925 / 1.425
	assertScores(t, res.Scores, map[int]float64{1: 1 - want2, 2: want2})
	if res.Scores[0].Label != 2 {
		t.Errorf("top node = %d, want 2", res.Scores[0].Label)
	}
}

func TestPageRank_DuplicateEdgesCompound(t *testing.T) {
	t.Parallel()
	single, err := PageRank([]graph.Record{
		{Source: 1, Target: 2}, {Source: 1, Target: 3},
	}, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	s := byLabel(single.Scores)
	if s[2] != s[3] {
		t.Errorf("single edges: node 2 = %v, node 3 = %v; want equal", s[2], s[3])
	}

	repeated, err := PageRank([]graph.Record{
		{Source: 1, Target: 2}, {Source: 1, Target: 2}, {Source: 1, Target: 3},
	}, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	r := byLabel(repeated.Scores)
	if !(r[2] > r[3]) {
		t.Errorf("repeated edge: node 2 = %v, node 3 = %v; want node 2 higher", r[2], r[3])
	}
}

func TestPageRank_TiesByLabel(t *testing.T) {
	t.Parallel()
	// Symmetric 2-cycle: both nodes score 0.5, so ascending label decides.
	res, err := PageRank([]graph.Record{
		{Source: 20, Target: 10}, {Source: 10, Target: 20},
	}, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	if res.Scores[0].Label != 10 || res.Scores[1].Label != 20 {
		t.Errorf("order = %+v, want label 10 before 20", res.Scores)
	}
}

func TestPageRank_IterationCap(t *testing.T) {
	t.Parallel()
	opts := DefaultPageRankOptions()
	opts.MaxIterations = 2
	opts.Epsilon = 1e-300
	res, err := PageRank(randomRecords(3, 50, 200), opts)
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	if res.Converged {
		t.Error("Converged = true, want false at the cap")
	}
	if res.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", res.Iterations)
	}
	if total := sumScores(res.Scores); math.Abs(total-1) > 1e-6 {
		t.Errorf("sum of scores = %.9f, want 1 even when capped", total)
	}
}

func TestPageRank_InvalidOptions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		opts PageRankOptions
	}{
		{"zero damping", PageRankOptions{Damping: 0, Epsilon: 1e-6, MaxIterations: 10}},
		{"damping one", PageRankOptions{Damping: 1, Epsilon: 1e-6, MaxIterations: 10}},
		{"nan damping", PageRankOptions{Damping: math.NaN(), Epsilon: 1e-6, MaxIterations: 10}},
		{"zero epsilon", PageRankOptions{Damping: 0.85, Epsilon: 0, MaxIterations: 10}},
		{"zero iterations", PageRankOptions{Damping: 0.85, Epsilon: 1e-6, MaxIterations: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PageRank(fiveNodeRecords(), tt.opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("got %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestPageRank_Idempotent(t *testing.T) {
	t.Parallel()
	records := randomRecords(4, 120, 500)
	a, err := PageRank(records, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	b, err := PageRank(records, DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same records differ")
	}
}
