// Package config loads the logicdiagram TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/logicdiagram/config.toml, falling back
// to ~/.config/logicdiagram/config.toml. A missing file yields [Default].
// Keys the file sets override the defaults; unknown keys are rejected so
// typos do not go unnoticed.
//
//	[editor]
//	enable_history = true
//	enable_snap = true
//
//	[diagram]
//	page_width = 1260
//	snap_x = 15
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/logicdiagram/solutions.db"
//
//	[server]
//	addr = "127.0.0.1:8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/errors"
)

const appName = "logicdiagram"

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Editor  Editor             `toml:"editor"`
	Diagram circuit.Properties `toml:"diagram"`
	Store   Store              `toml:"store"`
	Server  Server             `toml:"server"`
}

// Editor holds editing behavior switches.
type Editor struct {
	EnableHistory bool `toml:"enable_history"`
	EnableSnap    bool `toml:"enable_snap"`
}

// Store selects and configures the solution store.
type Store struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPrefix   string `toml:"redis_prefix"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Server configures the HTTP editing surface.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor:  Editor{EnableHistory: true, EnableSnap: true},
		Diagram: circuit.DefaultProperties(),
		Store: Store{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			RedisPrefix:   appName + ":",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/logicdiagram/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/logicdiagram/). File and SQLite stores default to it.
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path on top of [Default]. An empty path
// means [DefaultPath]. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text on top of [Default].
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that TOML typing cannot.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Diagram.SnapX < 0 || c.Diagram.SnapY < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "snap increments must not be negative")
	}
	return nil
}
