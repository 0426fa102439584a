package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/report"
	"github.com/papapumpkin/trustgraph/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show a run saved in the results store",
	Long: `Reads a results store written by analyze --db and prints the stored
rankings of one run: the latest run unless --run names another. --metric
limits the output to one ranking. --delete removes the named run instead.`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("db", "", "SQLite results store")
	runsCmd.Flags().String("run", "", "run ID (default: latest)")
	runsCmd.Flags().StringP("metric", "m", "", "only show this metric")
	runsCmd.Flags().IntP("top", "k", 38, "number of nodes to show per metric (0 for all)")
	runsCmd.Flags().Bool("delete", false, "delete the run given by --run")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"db": "output.db", "top": "top_k"})
	if err != nil {
		return err
	}
	if cfg.Output.DB == "" {
		return fmt.Errorf("no results store: set --db or output.db")
	}
	runID, _ := cmd.Flags().GetString("run")
	del, _ := cmd.Flags().GetBool("delete")
	metricName, _ := cmd.Flags().GetString("metric")

	metrics := analysis.Metrics
	if metricName != "" {
		m, err := analysis.ParseMetric(metricName)
		if err != nil {
			return err
		}
		metrics = []analysis.Metric{m}
	}

	ctx := cmd.Context()
	s, err := store.Open(ctx, cfg.Output.DB)
	if err != nil {
		return err
	}
	defer s.Close()

	if del {
		if runID == "" {
			return fmt.Errorf("--delete needs --run")
		}
		if err := s.DeleteRun(ctx, runID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", runID)
		return nil
	}

	var run store.Run
	if runID == "" {
		run, err = s.LatestRun(ctx)
	} else {
		run, err = s.GetRun(ctx, runID)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printRunHeader(out, run)
	for _, m := range metrics {
		scores, err := s.TopScores(ctx, run.ID, m, cfg.TopK)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Top %d Nodes by %s:\n", len(scores), m.Title())
		for i, sc := range scores {
			fmt.Fprintf(out, "%4d. Node %d: %.6f\n", i+1, sc.Label, sc.Value)
		}
		fmt.Fprintln(out)
	}

	if metricName != "" {
		return nil
	}
	groups, err := s.Groups(ctx, run.ID)
	if err != nil {
		return err
	}
	return report.WriteTrust(out, run.Summary.NetworkTrust, groups)
}

func printRunHeader(w io.Writer, r store.Run) {
	fmt.Fprintf(w, "Run %s (%s)\n", r.ID, r.Started.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  input:      %s\n", r.Input)
	fmt.Fprintf(w, "  nodes:      %d\n", r.Summary.Nodes)
	fmt.Fprintf(w, "  edges:      %d\n", r.Summary.Edges)
	fmt.Fprintf(w, "  components: %d (largest %d)\n", r.Summary.Components, r.Summary.LargestComponent)
	converged := "converged"
	if !r.PageRankConverged {
		converged = "iteration cap"
	}
	fmt.Fprintf(w, "  pagerank:   %d iterations, %s\n\n", r.PageRankIterations, converged)
}
