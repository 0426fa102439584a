package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/papapumpkin/trustgraph/internal/centrality"
	"github.com/papapumpkin/trustgraph/internal/graph"
)

// ErrInvalidConfig indicates a configuration value outside its allowed
// range.
var ErrInvalidConfig = errors.New("config: invalid value")

// PageRankConfig holds the PageRank engine settings.
type PageRankConfig struct {
	Damping       float64 `mapstructure:"damping"`
	Epsilon       float64 `mapstructure:"epsilon"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// BetweennessConfig holds the betweenness engine settings.
type BetweennessConfig struct {
	Endpoints  bool `mapstructure:"endpoints"`
	Normalized bool `mapstructure:"normalized"`
	Undirected bool `mapstructure:"undirected"`
	Workers    int  `mapstructure:"workers"`
}

// ClosenessConfig holds the closeness engine settings.
type ClosenessConfig struct {
	Direction string `mapstructure:"direction"`
	Improved  bool   `mapstructure:"improved"`
}

// OutputConfig selects where and how results are written.
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	DB        string `mapstructure:"db"`
	DOT       string `mapstructure:"dot"`
	DOTFormat string `mapstructure:"dot_format"`
}

// Config holds all runtime configuration for trustgraph.
// Values are populated from .trustgraph.yaml, TRUSTGRAPH_* env vars (a .env
// file included), and CLI flags.
type Config struct {
	Input       string            `mapstructure:"input"`
	Delimiter   string            `mapstructure:"delimiter"`
	HasHeader   bool              `mapstructure:"has_header"`
	TopK        int               `mapstructure:"top_k"`
	GroupsFile  string            `mapstructure:"groups_file"`
	PageRank    PageRankConfig    `mapstructure:"pagerank"`
	Betweenness BetweennessConfig `mapstructure:"betweenness"`
	Closeness   ClosenessConfig   `mapstructure:"closeness"`
	Output      OutputConfig      `mapstructure:"output"`
	Events      string            `mapstructure:"events"`
	Verbose     bool              `mapstructure:"verbose"`
}

// SetDefaults registers the built-in default of every key.
func SetDefaults() {
	viper.SetDefault("input", "")
	viper.SetDefault("delimiter", ",")
	viper.SetDefault("has_header", false)
	viper.SetDefault("top_k", 38)
	viper.SetDefault("groups_file", "")
	viper.SetDefault("pagerank.damping", 0.85)
	viper.SetDefault("pagerank.epsilon", 1e-6)
	viper.SetDefault("pagerank.max_iterations", 100)
	viper.SetDefault("betweenness.endpoints", true)
	viper.SetDefault("betweenness.normalized", true)
	viper.SetDefault("betweenness.undirected", false)
	viper.SetDefault("betweenness.workers", 1)
	viper.SetDefault("closeness.direction", "incoming")
	viper.SetDefault("closeness.improved", true)
	viper.SetDefault("output.format", "table")
	viper.SetDefault("output.db", "")
	viper.SetDefault("output.dot", "")
	viper.SetDefault("output.dot_format", "svg")
	viper.SetDefault("events", "")
	viper.SetDefault("verbose", false)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates the
// result.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Validate checks every value that has a restricted range.
func (c Config) Validate() error {
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if c.TopK < 0 {
		return fmt.Errorf("%w: top_k must be >= 0, got %d", ErrInvalidConfig, c.TopK)
	}
	if c.Betweenness.Workers < 0 {
		return fmt.Errorf("%w: betweenness.workers must be >= 0, got %d", ErrInvalidConfig, c.Betweenness.Workers)
	}
	if _, err := c.ClosenessOptions(); err != nil {
		return err
	}
	if err := c.PageRankOptions().Validate(); err != nil {
		return fmt.Errorf("%w: pagerank: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DelimiterRune returns the field delimiter as a rune. "tab" and "\t" both
// mean a tab character.
func (c Config) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidConfig, c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	// '#' starts a comment line in the record source.
	if r == '"' || r == '#' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: delimiter %q is not allowed", ErrInvalidConfig, c.Delimiter)
	}
	return r, nil
}

// PageRankOptions converts the pagerank section to engine options.
func (c Config) PageRankOptions() centrality.PageRankOptions {
	return centrality.PageRankOptions{
		Damping:       c.PageRank.Damping,
		Epsilon:       c.PageRank.Epsilon,
		MaxIterations: c.PageRank.MaxIterations,
	}
}

// BetweennessOptions converts the betweenness section to engine options.
func (c Config) BetweennessOptions() centrality.BetweennessOptions {
	return centrality.BetweennessOptions{
		Endpoints:  c.Betweenness.Endpoints,
		Normalized: c.Betweenness.Normalized,
		Undirected: c.Betweenness.Undirected,
		Workers:    c.Betweenness.Workers,
	}
}

// ClosenessOptions converts the closeness section to engine options.
func (c Config) ClosenessOptions() (centrality.ClosenessOptions, error) {
	dir, err := graph.ParseDirection(c.Closeness.Direction)
	if err != nil {
		return centrality.ClosenessOptions{}, fmt.Errorf("%w: closeness.direction: %v", ErrInvalidConfig, err)
	}
	return centrality.ClosenessOptions{Direction: dir, Improved: c.Closeness.Improved}, nil
}
