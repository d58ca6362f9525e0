// Package cli implements the startpage command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/startpage/pkg/buildinfo"
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/kind"
	"github.com/matzehuels/startpage/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "startpage"

	// defaultKey is the page edited when no key is configured.
	defaultKey = "default"
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
	Kinds  *kind.Registry

	// Config is loaded by the root command's PersistentPreRunE.
	Config *Config

	configPath string
	envFile    string
	key        string
	backend    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Kinds:  kind.DefaultRegistry(),
		Config: DefaultConfig(),
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
		Short:        "Startpage is a drag-and-drop start page of shortcut tiles",
		Long:         `Startpage keeps pages of shortcut tiles grouped into containers. Tiles are rearranged by dragging them in the terminal editor or through the HTTP API, and every page is persisted to a pluggable store.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/startpage/config.toml)")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file with STARTPAGE_* overrides")
	pf.StringVarP(&c.key, "page", "p", "", "page key (default from config)")
	pf.StringVar(&c.backend, "store", "", "store backend: "+strings.Join(store.Backends, ", "))

	root.AddCommand(c.initCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := LoadConfig(c.configPath, c.envFile, c.Logger)
	if err != nil {
		return err
	}
	if c.key != "" {
		cfg.Page.Key = c.key
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if err := errors.ValidatePageKey(cfg.Page.Key); err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Store Helpers
// =============================================================================

// openStore connects to the configured backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	backend := c.Config.Store.Backend
	if backend == "" {
		backend = store.BackendFile
	}
	var sp *Spinner
	if remoteBackend(backend) {
		sp = newSpinnerWithContext(ctx, "Connecting to "+backend+"...")
		sp.Start()
	}
	s, err := store.Open(ctx, c.Config.Store, c.Logger)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store opened", "backend", backend, "page", c.Config.Page.Key)
	return s, nil
}

// loadPage loads the configured page. A corrupt page is reported and
// replaced by an empty one so the user can start over.
func (c *CLI) loadPage(ctx context.Context, s store.Store) (*document.Document, error) {
	key := c.Config.Page.Key
	doc, err := store.LoadOrNew(ctx, s, key)
	if store.IsCorrupt(err) {
		c.Logger.Warn("stored page is unreadable, starting empty", "page", key, "err", err)
		return document.New(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := c.Kinds.Check(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// savePage validates doc and persists it under the configured key.
func (c *CLI) savePage(ctx context.Context, s store.Store, doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	return s.Save(ctx, c.Config.Page.Key, doc)
}

func remoteBackend(b string) bool {
	switch b {
	case store.BackendRedis, store.BackendMongo, store.BackendPostgres, store.BackendMySQL:
		return true
	}
	return false
}
