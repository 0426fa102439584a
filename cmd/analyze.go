package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/report"
	"github.com/papapumpkin/trustgraph/internal/store"
	"github.com/papapumpkin/trustgraph/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank the nodes of a trust network by every centrality metric",
	Long: `Reads the trust records, builds the network and prints the top-K nodes
by unweighted in-degree, unweighted out-degree, PageRank, betweenness and
closeness centrality, followed by the network and group trust averages.

With --db the full rankings are also saved to a SQLite results store, and
with --dot the subgraph induced by the top-K nodes is rendered with
Graphviz.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

// outputKeys maps the output flags shared by analyze and watch to config
// keys.
var outputKeys = map[string]string{
	"top":        "top_k",
	"format":     "output.format",
	"groups":     "groups_file",
	"db":         "output.db",
	"dot":        "output.dot",
	"dot-format": "output.dot_format",
	"events":     "events",
}

func init() {
	addInputFlags(analyzeCmd)
	addOutputFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// addOutputFlags registers the flags listed in outputKeys.
func addOutputFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntP("top", "k", 38, "number of nodes to show per metric (0 for all)")
	fs.StringP("format", "f", "table", "output format: "+strings.Join(report.FormatNames(), ", "))
	fs.StringP("groups", "g", "", "TOML file of named node groups to average trust over")
	fs.String("db", "", "SQLite file to save the run to")
	fs.String("dot", "", "render the top-K subgraph to this file")
	fs.String("dot-format", "svg", "graph render format: "+strings.Join(report.DOTFormats, ", "))
	fs.String("events", "", "append JSONL telemetry events to this file")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, withKeys(inputKeys, outputKeys))
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	printer := ui.New(cmd.ErrOrStderr())

	strategy, err := report.ForFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, logger, printer)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	res, err := p.run(ctx)
	if err != nil {
		return err
	}
	return publish(ctx, cmd.OutOrStdout(), p, strategy, res)
}

// publish writes res to every configured sink: the report to w, then the
// results store and the graph render when enabled.
func publish(ctx context.Context, w io.Writer, p *pipeline, strategy report.Strategy, res *analysis.Result) error {
	cfg := p.cfg
	if err := strategy.Render(w, res, cfg.TopK); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if cfg.Output.DB != "" {
		if err := saveRun(ctx, cfg.Output.DB, cfg.Input, res); err != nil {
			return err
		}
		p.printer.Saved(res.RunID, cfg.Output.DB)
	}

	if cfg.Output.DOT != "" {
		if err := report.RenderDOT(res, cfg.TopK, cfg.Output.DOTFormat, cfg.Output.DOT); err != nil {
			return err
		}
		p.printer.Rendered(cfg.Output.DOT)
	}
	return nil
}

func saveRun(ctx context.Context, path, input string, res *analysis.Result) error {
	s, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveRun(ctx, input, res)
}
