package analysis

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"github.com/papapumpkin/trustgraph/internal/centrality"
	"github.com/papapumpkin/trustgraph/internal/graph"
	"github.com/papapumpkin/trustgraph/internal/telemetry"
	"github.com/papapumpkin/trustgraph/internal/trust"
)

// sampleRecords is two components: a rated 4-cycle with a chord, and a
// lone pair.
func sampleRecords() []graph.Record {
	return []graph.Record{
		{Source: 1, Target: 2, Rating: 5},
		{Source: 2, Target: 3, Rating: 3},
		{Source: 3, Target: 4, Rating: 4},
		{Source: 4, Target: 1, Rating: 2},
		{Source: 2, Target: 4, Rating: 1},
		{Source: 50, Target: 60, Rating: -10},
	}
}

func TestRun_Summary(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.Groups = []trust.Group{{Name: "core", Nodes: []int{1, 4}}}

	res, err := Run(context.Background(), sampleRecords(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := Summary{
		Nodes:            6,
		Edges:            6,
		Components:       2,
		LargestComponent: 4,
		NetworkTrust:     5.0 / 6,
		// node 1: 2, node 4: (4+1)/2.
		Groups: []trust.GroupSummary{{Name: "core", Size: 2, Rated: 2, Average: 2.25}},
	}
	got := res.Summary
	if math.Abs(got.NetworkTrust-want.NetworkTrust) > 1e-12 {
		t.Errorf("NetworkTrust = %v, want %v", got.NetworkTrust, want.NetworkTrust)
	}
	got.NetworkTrust = want.NetworkTrust
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summary = %+v\nwant %+v", got, want)
	}
}

func TestRun_AllRankingsComplete(t *testing.T) {
	t.Parallel()
	res, err := Run(context.Background(), sampleRecords(), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, m := range Metrics {
		if got := len(res.Scores(m)); got != 6 {
			t.Errorf("%s: %d scores, want 6", m, got)
		}
		if _, ok := res.Durations[m]; !ok {
			t.Errorf("%s: no duration recorded", m)
		}
	}
	if res.Graph == nil || res.Graph.Len() != 6 {
		t.Error("Result.Graph not populated")
	}
	if !res.PageRankConverged || res.PageRankIterations == 0 {
		t.Errorf("pagerank converged=%v iterations=%d", res.PageRankConverged, res.PageRankIterations)
	}
}

func TestRun_MatchesEngines(t *testing.T) {
	t.Parallel()
	records := sampleRecords()
	res, err := Run(context.Background(), records, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	g := graph.New(records)
	byIn, byOut := centrality.Degree(g)
	pr, err := centrality.PageRank(records, centrality.DefaultPageRankOptions())
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}

	checks := []struct {
		name      string
		got, want any
	}{
		{"in-degree", res.InDegree, byIn},
		{"out-degree", res.OutDegree, byOut},
		{"pagerank", res.PageRank, pr.Scores},
		{"betweenness", res.Betweenness, centrality.Betweenness(g, centrality.DefaultBetweennessOptions())},
		{"closeness", res.Closeness, centrality.Closeness(g, centrality.DefaultClosenessOptions())},
	}
	for _, c := range checks {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("%s differs from direct engine call", c.name)
		}
	}
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()
	res, err := Run(context.Background(), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Summary.Nodes != 0 || res.Summary.Components != 0 || res.Summary.LargestComponent != 0 {
		t.Errorf("Summary = %+v, want zero counts", res.Summary)
	}
	for _, m := range Metrics {
		if len(res.Scores(m)) != 0 {
			t.Errorf("%s not empty", m)
		}
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.PageRank.Damping = 1.5
	_, err := Run(context.Background(), sampleRecords(), opts)
	if !errors.Is(err, centrality.ErrInvalidOptions) {
		t.Errorf("got %v, want ErrInvalidOptions", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, sampleRecords(), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRun_EmitsTelemetry(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.RunID = "run-1"
	opts.Events = telemetry.NewWriterEmitter(&buf)
	opts.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Run(context.Background(), sampleRecords(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	counts := make(map[string]int)
	var kinds []string
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var evt telemetry.Event
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			t.Fatalf("invalid event line %q: %v", sc.Text(), err)
		}
		if evt.RunID != "run-1" {
			t.Errorf("event %s has run %q", evt.Kind, evt.RunID)
		}
		counts[evt.Kind]++
		kinds = append(kinds, evt.Kind)
	}

	if len(kinds) == 0 || kinds[0] != telemetry.KindRunStart || kinds[len(kinds)-1] != telemetry.KindRunDone {
		t.Errorf("event order = %v, want run_start first and run_done last", kinds)
	}
	if counts[telemetry.KindMetricStart] != 4 || counts[telemetry.KindMetricDone] != 4 {
		t.Errorf("metric events = %v, want 4 starts and 4 dones", counts)
	}
}

func TestResult_ScoresDegree(t *testing.T) {
	t.Parallel()
	res := &Result{
		InDegree:  []centrality.DegreeStat{{Label: 3, InDegree: 7}, {Label: 1, InDegree: 2}},
		OutDegree: []centrality.DegreeStat{{Label: 1, OutDegree: 4}, {Label: 3}},
	}
	if got, want := res.Scores(MetricInDegree), []centrality.Score{{Label: 3, Value: 7}, {Label: 1, Value: 2}}; !reflect.DeepEqual(got, want) {
		t.Errorf("in-degree scores = %v, want %v", got, want)
	}
	if got, want := res.Scores(MetricOutDegree), []centrality.Score{{Label: 1, Value: 4}, {Label: 3, Value: 0}}; !reflect.DeepEqual(got, want) {
		t.Errorf("out-degree scores = %v, want %v", got, want)
	}
	if res.Scores(Metric("bogus")) != nil {
		t.Error("unknown metric should yield nil")
	}
}

func TestParseMetric(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"pagerank", MetricPageRank, false},
		{"In-Degree", MetricInDegree, false},
		{" out_degree ", MetricOutDegree, false},
		{"closeness", MetricCloseness, false},
		{"eigenvector", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMetric(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMetric) {
					t.Errorf("got %v, want ErrUnknownMetric", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMetric(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}
