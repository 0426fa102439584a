// Package ui prints short, human-facing progress lines for the CLI. Log
// records go through log/slog; ui covers the lines a person watching the
// terminal reads.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/papapumpkin/trustgraph/internal/ansi"
)

// Printer writes status lines to w, colored when Color is set.
type Printer struct {
	w     io.Writer
	Color bool
}

// New returns a Printer on w. Color is enabled when w is a terminal.
func New(w io.Writer) *Printer {
	p := &Printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.Color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

func (p *Printer) style(s string, codes ...string) string {
	if !p.Color {
		return s
	}
	return ansi.Wrap(s, codes...)
}

// Info prints a dimmed informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.style(msg, ansi.Dim))
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.style("error:", ansi.Red, ansi.Bold), msg)
}

// RunDone reports a finished analysis.
func (p *Printer) RunDone(runID string, nodes, edges int, elapsed time.Duration) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.style("✓ run", ansi.Green, ansi.Bold),
		runID,
		p.style(fmt.Sprintf("(%d nodes, %d edges, %s)", nodes, edges, elapsed.Round(time.Millisecond)), ansi.Dim))
}

// Saved reports a run written to the results store.
func (p *Printer) Saved(runID, db string) {
	fmt.Fprintf(p.w, "%s %s → %s\n", p.style("◆ saved", ansi.Cyan), runID, db)
}

// Rendered reports a graph written to a file.
func (p *Printer) Rendered(path string) {
	fmt.Fprintf(p.w, "%s %s\n", p.style("◆ rendered", ansi.Cyan), path)
}

// Watching reports that the watcher is waiting for changes to file.
func (p *Printer) Watching(file string) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.style("● watching", ansi.Magenta, ansi.Bold), file, p.style("(ctrl+c to stop)", ansi.Dim))
}

// Changed reports a settled change of the watched file.
func (p *Printer) Changed(file string) {
	fmt.Fprintf(p.w, "\n%s %s\n", p.style("── changed", ansi.Magenta, ansi.Bold), file)
}

// Removed reports that the watched file disappeared.
func (p *Printer) Removed(file string) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.style("⚠ removed", ansi.Yellow, ansi.Bold), file, p.style("waiting for it to reappear", ansi.Dim))
}
