package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/trustgraph/internal/config"
	"github.com/papapumpkin/trustgraph/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "trustgraph",
	Short: "Centrality analysis for signed trust networks",
	Long: `trustgraph reads a weighted, signed trust network (source,target,rating
records such as the SNAP Bitcoin OTC dataset) and ranks its nodes by
in/out degree, PageRank, betweenness and closeness centrality.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .trustgraph.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".trustgraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("TRUSTGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// bindFlags binds the named flags of cmd to viper keys. Binding happens
// when the command runs, so subcommands sharing a key do not overwrite
// each other's flags.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig binds cmd's flags and returns the merged configuration.
func loadConfig(cmd *cobra.Command, keys map[string]string) (config.Config, error) {
	if err := bindFlags(cmd, keys); err != nil {
		return config.Config{}, err
	}
	return config.Load()
}

// newLogger returns a text logger on w, at Debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setupSignalContext returns a context canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			printer.Info("\nshutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// addInputFlags registers the flags that select and parse the record
// source.
func addInputFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringP("input", "i", "", "trust records: local CSV path or http(s) URL, optionally gzipped")
	fs.String("delimiter", ",", `field delimiter ("tab" for TSV)`)
	fs.Bool("header", false, "skip a header row")
}

// inputKeys maps the shared input flags to their config keys.
var inputKeys = map[string]string{
	"input":     "input",
	"delimiter": "delimiter",
	"header":    "has_header",
}

// withKeys merges flag-to-key maps.
func withKeys(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
