package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/ingest"
	"github.com/papapumpkin/trustgraph/internal/tui"
	"github.com/papapumpkin/trustgraph/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the rankings in an interactive terminal viewer",
	Long: `Runs the analysis and opens a full-screen viewer with one tab per
ranking and one for trust averages. With --watch the analysis reruns and
the viewer refreshes whenever the input file changes.`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	addInputFlags(viewCmd)
	viewCmd.Flags().StringP("groups", "g", "", "TOML file of named node groups to average trust over")
	viewCmd.Flags().String("events", "", "append JSONL telemetry events to this file")
	viewCmd.Flags().BoolP("watch", "w", false, "rerun the analysis when the input file changes")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, withKeys(inputKeys, map[string]string{
		"groups": "groups_file",
		"events": "events",
	}))
	if err != nil {
		return err
	}
	follow, _ := cmd.Flags().GetBool("watch")
	if follow && ingest.IsRemote(cfg.Input) {
		return fmt.Errorf("%w: %s", errRemoteWatch, cfg.Input)
	}

	// The viewer owns the terminal, so log lines are dropped unless
	// verbose, where they go to stderr behind the alternate screen.
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if !cfg.Verbose {
		logger = newLogger(io.Discard, false)
	}

	p, err := newPipeline(cfg, logger, ui.New(io.Discard))
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	res, err := p.run(ctx)
	if err != nil {
		return err
	}

	prog := tui.NewProgram(cfg.Input, res)
	if follow {
		w, err := startWatcher(cfg.Input)
		if err != nil {
			return err
		}
		defer w.Stop()

		rerun := resultSender(ctx, p,
			func(r *analysis.Result) { prog.Send(tui.MsgResult{Result: r}) },
			func(err error) { prog.Send(tui.MsgError{Err: err}) })
		go func() {
			_ = watchLoop(ctx, w.Changes, p, rerun)
		}()
	}

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
