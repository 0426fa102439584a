package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/ingest"
	"github.com/papapumpkin/trustgraph/internal/report"
	"github.com/papapumpkin/trustgraph/internal/telemetry"
	"github.com/papapumpkin/trustgraph/internal/ui"
	"github.com/papapumpkin/trustgraph/internal/watch"
)

// errRemoteWatch is returned when asked to watch a URL.
var errRemoteWatch = errors.New("only local files can be watched")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis whenever the input file changes",
	Long: `Runs the analysis once, then watches the input file and repeats the
full analysis each time the file settles after a change. Every run is
rendered like analyze and, with --db, saved as a separate run. Stops on
interrupt.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addInputFlags(watchCmd)
	addOutputFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, withKeys(inputKeys, outputKeys))
	if err != nil {
		return err
	}
	if ingest.IsRemote(cfg.Input) {
		return fmt.Errorf("%w: %s", errRemoteWatch, cfg.Input)
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

	w, err := startWatcher(cfg.Input)
	if err != nil {
		return err
	}
	defer w.Stop()

	out := cmd.OutOrStdout()
	rerun := func() error {
		res, err := p.run(ctx)
		if err != nil {
			return err
		}
		return publish(ctx, out, p, strategy, res)
	}

	if err := rerun(); err != nil {
		return err
	}
	printer.Watching(w.File)
	return watchLoop(ctx, w.Changes, p, rerun)
}

// startWatcher begins watching file.
func startWatcher(file string) (*watch.Watcher, error) {
	w, err := watch.NewWatcher(file)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("watch %s: %w", file, err)
	}
	return w, nil
}

// watchLoop calls rerun for every settled modification until ctx is done
// or changes is closed. A failed rerun is logged and the loop keeps
// watching, since the file may be mid-edit.
func watchLoop(ctx context.Context, changes <-chan watch.Change, p *pipeline, rerun func() error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if err := p.events.Emit(telemetry.Event{
				Kind: telemetry.KindInputChange,
				Data: map[string]string{"file": c.File, "change": c.Kind.String()},
			}); err != nil {
				p.logger.Warn("telemetry emit failed", "err", err)
			}
			if c.Kind == watch.ChangeRemoved {
				p.printer.Removed(c.File)
				continue
			}
			p.printer.Changed(c.File)
			if err := rerun(); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				p.printer.Error(err.Error())
			}
		}
	}
}

// resultSender adapts a function receiving results to the rerun shape
// watchLoop expects.
func resultSender(ctx context.Context, p *pipeline, send func(*analysis.Result), fail func(error)) func() error {
	return func() error {
		res, err := p.run(ctx)
		if err != nil {
			fail(err)
			return err
		}
		send(res)
		return nil
	}
}
