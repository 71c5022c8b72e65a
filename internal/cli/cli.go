// Package cli implements the electoral command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/electoral/internal/config"
	"github.com/matzehuels/electoral/pkg/buildinfo"
	"github.com/matzehuels/electoral/pkg/cache"
	"github.com/matzehuels/electoral/pkg/observability"
	"github.com/matzehuels/electoral/pkg/pipeline"
	"github.com/matzehuels/electoral/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "electoral"

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

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	source     string
}

// New creates a new CLI instance with a default logger.
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
		Use:          appName,
		Short:        "Electoral renders US presidential election results",
		Long:         `Electoral renders US presidential election results as a linked set of charts: a timeline of years, the electoral-vote bar with its brush, the popular-vote bar and a tile cartogram of the states.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/electoral/config.toml)")
	root.PersistentFlags().StringVarP(&c.source, "source", "s", "", "data source: directory, http(s) URL, mongodb:// URI or sqlite:path")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.yearsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies global flags and registers the
// debug hooks when verbose logging is on.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.source != "" {
		cfg.Data.Source = c.source
	}
	c.Config = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		registerDebugHooks(c.Logger)
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner opens the configured source and wraps it in a pipeline runner.
func (c *CLI) newRunner(ctx context.Context, noCache, refresh bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, c.Config.Cache.KeyPrefix)
	src, err := source.Open(ctx, c.Config.Data.Source, source.Options{
		Cache:   ch,
		Keyer:   keyer,
		Refresh: refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		ch.Close()
		return nil, err
	}
	runner := pipeline.NewRunner(src, ch, keyer, c.Logger)
	if ttl := c.Config.Cache.TTL.Duration; ttl > 0 {
		runner.ArtifactTTL = ttl
	}
	return runner, nil
}

// newCache builds the configured cache backend. Every backend reports hits
// and misses through the observability hooks.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.Instrument(fc), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/electoral/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if formats := splitList(s); len(formats) > 0 {
		return formats
	}
	return []string{pipeline.FormatSVG}
}

// registerDebugHooks logs every observability event at debug level.
func registerDebugHooks(l *log.Logger) {
	h := &debugHooks{logger: l.WithPrefix("hooks")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetSessionHooks(h)
}
