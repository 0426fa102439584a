package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/trustgraph/internal/telemetry"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "View the JSONL telemetry events of analysis runs",
	Long: `Reads and formats the telemetry file written by analyze, watch or view
with --events.

With --follow (-f), watches the file for new events (like tail -f), which
pairs well with a running watch command.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().String("events", "", "telemetry file (default: events from config)")
	eventsCmd.Flags().String("run", "", "only show events of this run")
	eventsCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"events": "events"})
	if err != nil {
		return err
	}
	if cfg.Events == "" {
		return fmt.Errorf("events: no telemetry file: set --events or events in config")
	}
	follow, _ := cmd.Flags().GetBool("follow")
	runID, _ := cmd.Flags().GetString("run")
	path := cfg.Events

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("events: open %s: %w", path, err)
	}
	defer f.Close()

	out := eventPrinter{w: cmd.OutOrStdout(), runID: runID}

	// Print all existing events.
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		out.print(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("events: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}

	return tailFollow(out, f, path)
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(out eventPrinter, f *os.File, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("events: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("events: watch %s: %w", path, err)
	}

	reader := bufio.NewReader(f)
	for event := range watcher.Events {
		if event.Op&fsnotify.Write == 0 {
			continue
		}
		// Read all new lines available.
		for {
			line, err := reader.ReadString('\n')
			line = strings.TrimSpace(line)
			if line != "" {
				out.print(line)
			}
			if err != nil {
				break
			}
		}
	}
	return nil
}

// eventPrinter prints decoded events, optionally only those of one run.
type eventPrinter struct {
	w     io.Writer
	runID string
}

// print decodes a JSONL line and prints a human-readable representation.
func (p eventPrinter) print(line string) {
	w := p.w
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if p.runID != "" && evt.RunID != p.runID {
		return
	}

	ts := evt.Timestamp.Format(time.TimeOnly)
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", ts))
	parts = append(parts, evt.Kind)

	if evt.RunID != "" {
		parts = append(parts, fmt.Sprintf("run=%s", evt.RunID))
	}
	if evt.Metric != "" {
		parts = append(parts, fmt.Sprintf("metric=%s", evt.Metric))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
