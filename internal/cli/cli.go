package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturegraph/pkg/buildinfo"
	"github.com/matzehuels/fixturegraph/pkg/cache"
	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "fixturegraph"

	// ledgerPrefix scopes ledger keys in shared Redis instances.
	ledgerPrefix = appName + ":"

	defaultAddr    = ":8080"
	defaultMongoDB = "fixtures"
)

// Environment variables read as flag defaults.
const (
	envMongoURI = "FIXTUREGRAPH_MONGO_URI"
	envMongoDB  = "FIXTUREGRAPH_MONGO_DB"
	envRedisURL = "FIXTUREGRAPH_REDIS_URL"
	envAddr     = "FIXTUREGRAPH_ADDR"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Fixturegraph loads test fixtures in dependency order",
		Long:         `Fixturegraph reads a manifest of fixtures and their dependencies, computes a load order in which every fixture follows the fixtures it depends on, and loads the records into MongoDB, Redis or standard output.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.ledgerCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Manifest & Ledger
// =============================================================================

func readManifest(path string) (*fixture.Manifest, error) {
	return fixture.ReadFile(path)
}

// newLedger opens the load ledger. A Redis URL selects the shared Redis
// ledger, otherwise entries are files under ledgerDir.
func (c *CLI) newLedger(ctx context.Context, disabled bool, redisURL string) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		rc, err := cache.OpenRedisCache(ctx, redisURL)
		if err != nil {
			return nil, err
		}
		return cache.NewScoped(rc, ledgerPrefix), nil
	}
	dir, err := ledgerDir()
	if err != nil {
		c.Logger.Warn("ledger disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// ledgerDir returns the ledger directory using XDG standard (~/.cache/fixturegraph/).
func ledgerDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
