package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/config"
	"github.com/papapumpkin/trustgraph/internal/graph"
	"github.com/papapumpkin/trustgraph/internal/ingest"
	"github.com/papapumpkin/trustgraph/internal/telemetry"
	"github.com/papapumpkin/trustgraph/internal/trust"
	"github.com/papapumpkin/trustgraph/internal/ui"
)

// errNoInput is returned by commands that need a record source when none
// was configured.
var errNoInput = errors.New("no input: set --input, input in .trustgraph.yaml, or TRUSTGRAPH_INPUT")

// pipeline holds everything one analysis run needs besides the records.
// It is built once per command and reused by every rerun in watch mode.
type pipeline struct {
	cfg     config.Config
	ingest  ingest.Options
	opts    analysis.Options
	logger  *slog.Logger
	printer *ui.Printer
	events  *telemetry.Emitter
}

// newPipeline validates cfg, loads the groups file and opens the events
// sink. Close releases the sink.
func newPipeline(cfg config.Config, logger *slog.Logger, printer *ui.Printer) (*pipeline, error) {
	if cfg.Input == "" {
		return nil, errNoInput
	}
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return nil, err
	}
	closeness, err := cfg.ClosenessOptions()
	if err != nil {
		return nil, err
	}

	var groups []trust.Group
	if cfg.GroupsFile != "" {
		groups, err = trust.LoadGroups(cfg.GroupsFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("groups loaded", "file", cfg.GroupsFile, "count", len(groups))
	}

	var events *telemetry.Emitter
	if cfg.Events != "" {
		events, err = telemetry.NewEmitter(cfg.Events)
		if err != nil {
			return nil, err
		}
	}

	return &pipeline{
		cfg:    cfg,
		ingest: ingest.Options{Delimiter: delim, HasHeader: cfg.HasHeader},
		opts: analysis.Options{
			PageRank:    cfg.PageRankOptions(),
			Betweenness: cfg.BetweennessOptions(),
			Closeness:   closeness,
			Groups:      groups,
			Logger:      logger,
			Events:      events,
		},
		logger:  logger,
		printer: printer,
		events:  events,
	}, nil
}

// Close releases the events sink.
func (p *pipeline) Close() error {
	return p.events.Close()
}

// load reads the configured record source.
func (p *pipeline) load(ctx context.Context) ([]graph.Record, error) {
	records, err := ingest.Load(ctx, p.cfg.Input, p.ingest)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("records loaded", "input", p.cfg.Input, "records", len(records))
	return records, nil
}

// run loads the records and analyzes them.
func (p *pipeline) run(ctx context.Context) (*analysis.Result, error) {
	records, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	res, err := analysis.Run(ctx, records, p.opts)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", p.cfg.Input, err)
	}
	p.printer.RunDone(res.RunID, res.Summary.Nodes, res.Summary.Edges, time.Since(res.Started))
	return res, nil
}
