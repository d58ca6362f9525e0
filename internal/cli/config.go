package cli

import (
	goerrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/startpage/internal/server"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/store"
)

// envPrefix prefixes every environment override.
const envPrefix = "STARTPAGE_"

// Config is the merged configuration: defaults, then the TOML file, then
// STARTPAGE_* environment variables (a .env file may provide them), then
// command-line flags.
type Config struct {
	Page   PageConfig    `toml:"page"`
	Store  store.Config  `toml:"store"`
	Server server.Config `toml:"server"`
	Editor EditorConfig  `toml:"editor"`
}

// PageConfig selects the page commands operate on.
type PageConfig struct {
	Key string `toml:"key"`
}

// EditorConfig tunes the terminal editor.
type EditorConfig struct {
	// Touch makes the editor drive gestures with touch semantics: the
	// drop target is hit-tested under the finger on every move.
	Touch bool `toml:"touch"`
	// CellWidth and CellHeight are the layout units one terminal cell
	// spans.
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	// Edit starts the editor in edit mode.
	Edit bool `toml:"edit"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Page:   PageConfig{Key: defaultKey},
		Store:  store.Config{Backend: store.BackendFile},
		Server: server.DefaultConfig(),
		Editor: EditorConfig{CellWidth: 10, CellHeight: 20, Edit: true},
	}
}

// configDir returns the config directory using the XDG standard
// (~/.config/startpage/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// LoadConfig builds the configuration. An empty path reads config.toml
// from the config directory when it exists; an explicit path must exist.
// envFile is loaded into the environment first without overriding
// variables that are already set; a missing env file is ignored.
func LoadConfig(path, envFile string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.Default()
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !goerrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load %s", envFile)
		}
	}

	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		if dir, err := configDir(); err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			for _, k := range md.Undecoded() {
				logger.Warn("unknown config key", "file", path, "key", k.String())
			}
			logger.Debug("config loaded", "file", path)
		case goerrors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays STARTPAGE_* variables.
func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PAGE":           &cfg.Page.Key,
		"STORE":          &cfg.Store.Backend,
		"STORE_DIR":      &cfg.Store.Dir,
		"DSN":            &cfg.Store.DSN,
		"REDIS_ADDR":     &cfg.Store.RedisAddr,
		"REDIS_PASSWORD": &cfg.Store.RedisPassword,
		"MONGO_URI":      &cfg.Store.MongoURI,
		"MONGO_DATABASE": &cfg.Store.MongoDatabase,
		"PREFIX":         &cfg.Store.Prefix,
		"ADDR":           &cfg.Server.Addr,
		"STATIC_DIR":     &cfg.Server.StaticDir,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%sREDIS_DB", envPrefix)
		}
		cfg.Store.RedisDB = n
	}
	if v, ok := os.LookupEnv(envPrefix + "TOUCH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%sTOUCH", envPrefix)
		}
		cfg.Editor.Touch = b
	}
	return nil
}
