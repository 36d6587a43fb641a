// Package cli implements the postcard command-line interface.
//
// The main commands are:
//   - serve: Run the HTTP card service
//   - render: Render one post to a PNG, SVG or JSON file
//   - fetch: Look up posts and print them
//   - pick: Choose one of several posts interactively and render it
//   - cache: Manage the local file cache
//
// All commands read the layered configuration described in package config
// and accept --config to name a TOML file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/postcard/pkg/buildinfo"
	"github.com/matzehuels/postcard/pkg/cache"
	"github.com/matzehuels/postcard/pkg/config"
	"github.com/matzehuels/postcard/pkg/integrations"
	"github.com/matzehuels/postcard/pkg/integrations/twitter"
	"github.com/matzehuels/postcard/pkg/media"
	"github.com/matzehuels/postcard/pkg/observability"
	"github.com/matzehuels/postcard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "postcard"

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

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and HTTP hooks log through the CLI logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Postcard renders social posts as image cards",
		Long:         `Postcard fetches posts from the X/Twitter API and renders them as shareable preview cards in PNG, SVG or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (default $POSTCARD_CONFIG)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the layered configuration.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "cache", cfg.Cache.Backend, "format", cfg.Render.Format)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner wires the lookup client, media loader and cache backend into a
// pipeline runner. The caller closes the runner.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	if err := cfg.RequireBearerToken(); err != nil {
		return nil, err
	}

	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Prefix)
	}

	opts := cfg.TwitterOptions()
	opts.Logger = c.Logger
	fetcher := twitter.NewClient(opts)

	// Media shares the observed cache so image hits show up in debug logs.
	observed := cache.Observe(store)
	downloads := integrations.NewClient(observed, "", cache.TTLMedia, nil).WithTimeout(cfg.Twitter.Timeout)
	loader := media.NewLoader(downloads, keyer, c.Logger)

	runner := pipeline.NewRunner(fetcher, loader, observed, keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

// newCache opens the configured backend. noCache forces the null cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "error", err)
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	case config.BackendMongo:
		return cache.NewMongoCache(ctx, cfg.Cache.MongoURI, cfg.Cache.MongoDatabase)
	}
	return cache.NewNullCache(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/postcard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
