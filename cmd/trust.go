package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/trustgraph/internal/report"
	"github.com/papapumpkin/trustgraph/internal/trust"
	"github.com/papapumpkin/trustgraph/internal/ui"
)

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Print the network and per-group average trust ratings",
	Long: `Prints the mean rating over every record and, for each group in the
groups file, the mean over its members of each member's average incoming
rating. No centrality metric is computed.`,
	Args: cobra.NoArgs,
	RunE: runTrust,
}

func init() {
	addInputFlags(trustCmd)
	trustCmd.Flags().StringP("groups", "g", "", "TOML file of named node groups")
	rootCmd.AddCommand(trustCmd)
}

func runTrust(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, withKeys(inputKeys, map[string]string{"groups": "groups_file"}))
	if err != nil {
		return err
	}
	printer := ui.New(cmd.ErrOrStderr())
	p, err := newPipeline(cfg, newLogger(cmd.ErrOrStderr(), cfg.Verbose), printer)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	records, err := p.load(ctx)
	if err != nil {
		return err
	}
	return report.WriteTrust(cmd.OutOrStdout(),
		trust.NetworkAverage(records),
		trust.Summarize(records, p.opts.Groups))
}
