package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the on-disk configuration of the course search service.
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Ranking   Settings        `toml:"ranking"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           string `toml:"port"`
	MaxRequestSize int64  `toml:"max_request_size"` // bytes
	JobWorkers     int    `toml:"job_workers"`
}

// DatabaseConfig contains catalog database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AnalyticsConfig controls search-event tracking
type AnalyticsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // JSON event log, empty keeps events in memory only
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:           "8080",
			MaxRequestSize: 10 << 20,
			JobWorkers:     2,
		},
		Database: DatabaseConfig{
			Path: "./search_data/catalog.db",
		},
		Analytics: AnalyticsConfig{
			Enabled: true,
			Path:    "./search_data/analytics.json",
		},
		Ranking: *DefaultSettings(),
	}
}

// Load reads a TOML configuration file layered over Default().
// An empty path returns the defaults.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Database.Path, err = expandPath(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand database path: %w", err)
	}
	cfg.Analytics.Path, err = expandPath(cfg.Analytics.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand analytics path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.MaxRequestSize <= 0 {
		errs = append(errs, errors.New("server.max_request_size must be positive"))
	}
	if c.Server.JobWorkers < 0 {
		errs = append(errs, errors.New("server.job_workers cannot be negative"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	for _, msg := range c.Ranking.Validate() {
		errs = append(errs, errors.New("ranking: "+msg))
	}

	return errors.Join(errs...)
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
