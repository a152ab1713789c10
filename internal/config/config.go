// Package config loads and saves the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DirName is the per-user directory holding the config file and the history
// database.
const DirName = ".rotisserie-companion"

// Config represents the application configuration.
type Config struct {
	// Draft history database
	Database DatabaseConfig `toml:"database"`

	// Live draft settings
	Draft DraftConfig `toml:"draft"`

	// Pick grid watcher settings
	Watch WatchConfig `toml:"watch"`

	// Export settings
	Export ExportConfig `toml:"export"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DatabaseConfig contains history store settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`         // SQLite file, empty for the default location
	AutoMigrate bool   `toml:"auto_migrate"` // Apply pending migrations on open
}

// DraftConfig describes the live draft being followed.
type DraftConfig struct {
	TargetSeat           string `toml:"target_seat"`             // Seat name of the user
	DoublePickAfterRound int    `toml:"double_pick_after_round"` // 0 or less disables double picks
	PicksCSV             string `toml:"picks_csv"`               // Exported pick grid
	PoolCSV              string `toml:"pool_csv"`                // Exported pool listing
}

// WatchConfig contains pick grid watcher settings.
type WatchConfig struct {
	UseFsnotify bool   `toml:"use_fsnotify"` // Use file system events instead of polling
	MinInterval string `toml:"min_interval"` // Minimum time between re-parses (e.g., "2s")
}

// ExportConfig contains export settings.
type ExportConfig struct {
	Dir        string `toml:"dir"`         // Output directory, empty for the working directory
	PrettyJSON bool   `toml:"pretty_json"` // Indent JSON output
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "",
			AutoMigrate: true,
		},
		Draft: DraftConfig{
			DoublePickAfterRound: 25,
		},
		Watch: WatchConfig{
			UseFsnotify: true,
			MinInterval: "2s",
		},
		Export: ExportConfig{
			PrettyJSON: true,
		},
	}
}

// Dir returns the per-user configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Returns the default config if
// the file doesn't exist. Keys missing from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Watch.MinInterval); err != nil {
		return fmt.Errorf("invalid watch min interval %q: %w", c.Watch.MinInterval, err)
	}

	if c.Draft.PoolCSV != "" && c.Draft.PicksCSV == "" {
		return errors.New("draft pool_csv is set without picks_csv")
	}

	return nil
}

// WatchInterval returns the watcher's minimum re-parse interval.
func (c *Config) WatchInterval() (time.Duration, error) {
	return time.ParseDuration(c.Watch.MinInterval)
}

// DatabasePath returns the configured database path, or the default
// history.db in the config directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
