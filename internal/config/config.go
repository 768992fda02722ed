package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Art-of-Technology/collab/internal/config/colors"
	"gopkg.in/yaml.v3"
)

// Defaults for values missing from the config file
const (
	DefaultServerAddr      = "localhost:8080"
	DefaultAPIURL          = "http://localhost:8080"
	DefaultWorkspace       = "acme"
	DefaultAPITimeout      = 10 * time.Second
	DefaultReorderDebounce = 300
	DefaultLogLevel        = "info"
)

const (
	configDirName  = "collab"
	configFileName = "config.yaml"

	envAPIURL          = "COLLAB_API_URL"
	envWorkspace       = "COLLAB_WORKSPACE"
	envDatabase        = "COLLAB_DB"
	envAddr            = "COLLAB_ADDR"
	envReorderDebounce = "COLLAB_REORDER_DEBOUNCE_MS"
	envLogLevel        = "COLLAB_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig       `yaml:"server"`
	Database    DatabaseConfig     `yaml:"database"`
	API         APIConfig          `yaml:"api"`
	Board       BoardConfig        `yaml:"board"`
	Log         LogConfig          `yaml:"log"`
	KeyMappings KeyMappings        `yaml:"key_mappings"`
	ColorScheme colors.ColorScheme `yaml:"theme"`
}

// ServerConfig configures `collab serve`
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig locates the sqlite file. An empty path uses ~/.collab/collab.db.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// APIConfig points the client commands at a server
type APIConfig struct {
	URL       string        `yaml:"url"`
	Workspace string        `yaml:"workspace"`
	Timeout   time.Duration `yaml:"timeout"`
}

// BoardConfig tunes the drag and drop board
type BoardConfig struct {
	// RollbackOnFailure reverts a failed move locally. When false the board
	// keeps the optimistic state until the next refetch.
	RollbackOnFailure *bool `yaml:"rollback_on_failure"`
	ReorderDebounceMS int   `yaml:"reorder_debounce_ms"`
}

// Rollback reports whether failed moves are reverted
func (b BoardConfig) Rollback() bool {
	return b.RollbackOnFailure == nil || *b.RollbackOnFailure
}

// ReorderDebounce returns the column reorder batching window
func (b BoardConfig) ReorderDebounce() time.Duration {
	return time.Duration(b.ReorderDebounceMS) * time.Millisecond
}

// LogConfig sets the slog level
type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel parses the configured level, defaulting to info
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Default returns a config with every value defaulted
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads config from the user's config directory, then applies
// environment overrides. Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		cfg := Default()
		return cfg, cfg.applyEnv()
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, configDirName, configFileName), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// applyEnv overrides file values with COLLAB_* environment variables
func (c *Config) applyEnv() error {
	if v := os.Getenv(envAPIURL); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv(envWorkspace); v != "" {
		c.API.Workspace = v
	}
	if v := os.Getenv(envDatabase); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(envAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(envReorderDebounce); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", envReorderDebounce, v)
		}
		c.Board.ReorderDebounceMS = ms
	}
	return nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.API.URL == "" {
		c.API.URL = DefaultAPIURL
	}
	c.API.URL = strings.TrimRight(c.API.URL, "/")
	if c.API.Workspace == "" {
		c.API.Workspace = DefaultWorkspace
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.Board.ReorderDebounceMS <= 0 {
		c.Board.ReorderDebounceMS = DefaultReorderDebounce
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.KeyMappings.applyDefaults()
	c.ColorScheme.ApplyDefaults()
}
