// Package cli implements the symgraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/buildinfo"
	"github.com/matzehuels/symgraph/pkg/cache"
	"github.com/matzehuels/symgraph/pkg/config"
	"github.com/matzehuels/symgraph/pkg/demo"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/observability"
	"github.com/matzehuels/symgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "symgraph"

	// pingTimeout bounds the Redis reachability check.
	pingTimeout = 2 * time.Second
)

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
	Config *config.Config

	configPath  string
	levelForced bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. An explicit level wins over the
// level from the config file.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelForced = true
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "symgraph builds and rewrites symbolic matrix expression graphs",
		Long:         `symgraph is a CLI for exploring symbolic matrix expression graphs: shared-subexpression extraction, sequential elimination, region expansion and Graphviz rendering of the built-in demo graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			c.installHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/symgraph/config.toml)")

	root.AddCommand(c.demoCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cseCommand())
	root.AddCommand(c.eliminateCommand())
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// configFile returns --config, or the default path.
func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file. An explicit --config must exist; the
// default file is optional.
func (c *CLI) loadConfig() error {
	path, err := c.configFile()
	if err != nil {
		return nil
	}
	var cfg *config.Config
	if c.configPath != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return err
	}
	c.Config = cfg
	if !c.levelForced {
		c.Logger.SetLevel(cfg.LogLevel())
	}
	return nil
}

func (c *CLI) installHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetGraphHooks(h)
	observability.SetRewriteHooks(h)
	observability.SetCacheHooks(h)
}

// =============================================================================
// Graph Factory
// =============================================================================

// sourceOptions selects the demo called name, or the graph file when name
// ends in .json.
func (c *CLI) sourceOptions(name string) pipeline.Options {
	opts := pipeline.Options{NoMemo: !c.Config.Graph.Memo, Logger: c.Logger}
	if pipeline.IsGraphFile(name) {
		opts.File = name
	} else {
		opts.Demo = name
	}
	return opts
}

// buildDemo builds the named demo or graph file on a builder configured
// from c.Config.
func (c *CLI) buildDemo(name string) (*demo.Graph, *expr.Builder, error) {
	b := expr.NewBuilder(expr.WithMemo(c.Config.Graph.Memo))
	g, err := pipeline.Load(b, c.sourceOptions(name))
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("built graph", "source", name, "builder", b.ID(), "nodes", b.NodeCount())
	return g, b, nil
}

// demoArgs validates a single demo name or graph file argument and
// completes demo names, falling back to files.
func demoArgs(cmd *cobra.Command) {
	cmd.Args = cobra.ExactArgs(1)
	cmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return demo.Names(), cobra.ShellCompDirectiveDefault
	}
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache returns the configured artifact cache, instrumented for logging.
// An unreachable Redis or MongoDB server falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache()
	}

	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		rc, err := c.redisCache(ctx)
		if err == nil {
			return cache.Instrument(rc)
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	case config.BackendMongo:
		mc, err := c.mongoCache(ctx)
		if err == nil {
			return cache.Instrument(mc)
		}
		c.Logger.Warn("mongodb cache unavailable, using file cache", "err", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return cache.Instrument(fc)
}

// redisCache connects to the configured Redis server.
func (c *CLI) redisCache(ctx context.Context) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(c.Config.Cache.RedisURL)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		rc.Close()
		return nil, err
	}
	c.Logger.Debug("using redis cache", "addr", rc.Addr())
	return rc, nil
}

// mongoCache connects to the configured MongoDB server.
func (c *CLI) mongoCache(ctx context.Context) (*cache.MongoCache, error) {
	mc, err := cache.NewMongoCache(ctx, c.Config.Cache.MongoURL, c.Config.Cache.MongoDatabase)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := mc.Ping(pingCtx); err != nil {
		mc.Close()
		return nil, err
	}
	c.Logger.Debug("using mongodb cache", "namespace", mc.Namespace())
	return mc, nil
}

// newRunner returns a pipeline runner over store.
func (c *CLI) newRunner(store cache.Cache) *pipeline.Runner {
	return pipeline.NewRunner(store, c.keyer(), c.Logger, c.Config.Cache.TTL.Duration)
}

// keyer returns the artifact keyer, scoped if the config asks for it.
func (c *CLI) keyer() cache.Keyer {
	if c.Config.Cache.Scope != "" {
		return cache.NewScopedKeyer(nil, c.Config.Cache.Scope)
	}
	return cache.NewDefaultKeyer()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/symgraph/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string, falling back to
// the configured defaults.
func (c *CLI) parseFormats(s string) []string {
	if s == "" {
		return c.Config.Render.Formats
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
