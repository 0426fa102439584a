// Package analysis runs every centrality engine over one snapshot of the
// trust network and gathers the rankings into a single Result.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/papapumpkin/trustgraph/internal/centrality"
	"github.com/papapumpkin/trustgraph/internal/graph"
	"github.com/papapumpkin/trustgraph/internal/telemetry"
	"github.com/papapumpkin/trustgraph/internal/trust"
)

// Options configures a run. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	PageRank    centrality.PageRankOptions
	Betweenness centrality.BetweennessOptions
	Closeness   centrality.ClosenessOptions

	// Groups are summarized into Summary.Groups.
	Groups []trust.Group

	// RunID tags log lines and telemetry events. Empty means one is
	// derived from the start time.
	RunID string

	Logger *slog.Logger       // nil discards
	Events *telemetry.Emitter // nil disables
}

// DefaultOptions returns the default engine options with no groups.
func DefaultOptions() Options {
	return Options{
		PageRank:    centrality.DefaultPageRankOptions(),
		Betweenness: centrality.DefaultBetweennessOptions(),
		Closeness:   centrality.DefaultClosenessOptions(),
	}
}

// Summary describes the analyzed network as a whole.
type Summary struct {
	Nodes            int                  `json:"nodes"`
	Edges            int                  `json:"edges"`
	Components       int                  `json:"components"`
	LargestComponent int                  `json:"largest_component"`
	NetworkTrust     float64              `json:"network_trust"`
	Groups           []trust.GroupSummary `json:"groups,omitempty"`
}

// Result holds the complete rankings of one run. Truncation to a top-K is
// left to whoever presents it.
type Result struct {
	RunID   string    `json:"run_id"`
	Started time.Time `json:"started"`
	Summary Summary   `json:"summary"`

	InDegree  []centrality.DegreeStat `json:"in_degree"`
	OutDegree []centrality.DegreeStat `json:"out_degree"`

	PageRank           []centrality.Score `json:"pagerank"`
	PageRankIterations int                `json:"pagerank_iterations"`
	PageRankConverged  bool               `json:"pagerank_converged"`

	Betweenness []centrality.Score `json:"betweenness"`
	Closeness   []centrality.Score `json:"closeness"`

	Durations map[Metric]time.Duration `json:"-"`

	// Graph is the snapshot the rankings were computed from.
	Graph *graph.Graph `json:"-"`
}

// Scores returns the ranking for m as label/value pairs. Degree rankings
// report the unweighted degree as the value. Unknown metrics yield nil.
func (r *Result) Scores(m Metric) []centrality.Score {
	switch m {
	case MetricInDegree:
		return degreeScores(r.InDegree, func(d centrality.DegreeStat) int { return d.InDegree })
	case MetricOutDegree:
		return degreeScores(r.OutDegree, func(d centrality.DegreeStat) int { return d.OutDegree })
	case MetricPageRank:
		return r.PageRank
	case MetricBetweenness:
		return r.Betweenness
	case MetricCloseness:
		return r.Closeness
	default:
		return nil
	}
}

func degreeScores(stats []centrality.DegreeStat, degree func(centrality.DegreeStat) int) []centrality.Score {
	out := make([]centrality.Score, len(stats))
	for i, d := range stats {
		out[i] = centrality.Score{Label: d.Label, Value: float64(degree(d))}
	}
	return out
}

// Run builds the graph from records and runs the degree, PageRank,
// betweenness and closeness engines concurrently. Engine options are
// validated before any work starts. A context canceled before or during
// the fan-out returns ctx.Err().
func Run(ctx context.Context, records []graph.Record, opts Options) (*Result, error) {
	if err := opts.PageRank.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	started := time.Now()
	runID := opts.RunID
	if runID == "" {
		runID = started.UTC().Format("20060102T150405.000")
	}
	logger = logger.With("run", runID)
	emit := func(kind string, metric Metric, data any) {
		evt := telemetry.Event{Kind: kind, RunID: runID, Metric: string(metric), Data: data}
		if err := opts.Events.Emit(evt); err != nil {
			logger.Warn("telemetry emit failed", "kind", kind, "err", err)
		}
	}

	emit(telemetry.KindRunStart, "", map[string]int{"records": len(records)})

	g := graph.New(records)
	comps := g.Components()
	res := &Result{
		RunID:   runID,
		Started: started,
		Graph:   g,
		Summary: Summary{
			Nodes:        g.Len(),
			Edges:        g.EdgeCount(),
			Components:   len(comps),
			NetworkTrust: trust.NetworkAverage(records),
			Groups:       trust.Summarize(records, opts.Groups),
		},
		Durations: make(map[Metric]time.Duration, len(Metrics)),
	}
	if len(comps) > 0 {
		res.Summary.LargestComponent = len(comps[0])
	}
	logger.Info("graph built", "nodes", g.Len(), "edges", g.EdgeCount(), "components", len(comps))
	emit(telemetry.KindGraphBuilt, "", res.Summary)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	engine := func(metric Metric, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emit(telemetry.KindMetricStart, metric, nil)
			t0 := time.Now()
			err := fn()
			elapsed := time.Since(t0)

			mu.Lock()
			res.Durations[metric] = elapsed
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", metric, err)
			}
			mu.Unlock()

			logger.Debug("engine finished", "metric", string(metric), "elapsed", elapsed, "err", err)
			emit(telemetry.KindMetricDone, metric, map[string]any{"elapsed_ms": elapsed.Milliseconds()})
		}()
	}

	engine(MetricInDegree, func() error {
		res.InDegree, res.OutDegree = centrality.Degree(g)
		return nil
	})
	engine(MetricPageRank, func() error {
		pr, err := centrality.PageRank(records, opts.PageRank)
		if err != nil {
			return err
		}
		res.PageRank = pr.Scores
		res.PageRankIterations = pr.Iterations
		res.PageRankConverged = pr.Converged
		if !pr.Converged {
			logger.Warn("pagerank hit iteration cap", "iterations", pr.Iterations)
		}
		return nil
	})
	engine(MetricBetweenness, func() error {
		res.Betweenness = centrality.Betweenness(g, opts.Betweenness)
		return nil
	})
	engine(MetricCloseness, func() error {
		res.Closeness = centrality.Closeness(g, opts.Closeness)
		return nil
	})
	wg.Wait()

	// Degree runs once for both views.
	res.Durations[MetricOutDegree] = res.Durations[MetricInDegree]

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		emit(telemetry.KindRunFailed, "", map[string]string{"error": firstErr.Error()})
		return nil, firstErr
	}

	total := time.Since(started)
	logger.Info("analysis complete", "elapsed", total, "pagerank_iterations", res.PageRankIterations)
	emit(telemetry.KindRunDone, "", map[string]any{"elapsed_ms": total.Milliseconds()})
	return res, nil
}
