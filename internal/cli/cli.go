// Package cli implements the reebsmooth command-line interface.
//
// # Commands
//
//   - smooth: smooth a Reeb graph at a given ε and write the result
//   - levels: list critical values, gaps and the critical ε
//   - sweep: smooth at evenly spaced ε and print a table
//   - render: draw a (smoothed) graph with Graphviz
//   - generate: write a synthetic noisy graph
//   - serve: run the HTTP API
//   - cache: inspect or clear the result cache
//
// # Configuration
//
// Defaults come from a TOML file (see internal/config). Flags given on the
// command line override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per smoothing pass.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reebsmooth/internal/config"
	"github.com/matzehuels/reebsmooth/pkg/buildinfo"
	"github.com/matzehuels/reebsmooth/pkg/cache"
	"github.com/matzehuels/reebsmooth/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "reebsmooth"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Reebsmooth simplifies Reeb graphs by ε-smoothing",
		Long: `Reebsmooth computes the ε-smoothing of a Reeb graph: small loops and
short branches below the chosen ε collapse, larger features survive with
their critical values shifted outward by ε.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/reebsmooth/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.smoothCommand())
	root.AddCommand(c.levelsCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies --verbose.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("Loaded config", "path", cfg.Path)
	}
	return nil
}

// Execute builds the command tree and runs it with args. It is the entry
// point used by main and by tests.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Get().Version+":")
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache selects the backend: disabled, Redis, or a directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	switch {
	case noCache || cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisURL != "":
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("Cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// smoothOptions fills unset flags from the [smooth] config section.
func (c *CLI) smoothOptions(cmd *cobra.Command, eps string, prec int) pipeline.Options {
	opts := pipeline.Options{
		Epsilon:   c.Config.Smooth.Epsilon,
		Precision: c.Config.Smooth.Precision,
		MaxPasses: c.Config.Smooth.MaxPasses,
		Logger:    c.Logger,
	}
	if cmd.Flags().Changed("epsilon") {
		opts.Epsilon = eps
	}
	if cmd.Flags().Changed("precision") {
		opts.Precision = prec
	}
	return opts
}

// precision returns the --precision flag or the configured default.
func (c *CLI) precision(cmd *cobra.Command, prec int) int {
	if cmd.Flags().Changed("precision") {
		return prec
	}
	return c.Config.Smooth.Precision
}
