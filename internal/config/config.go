package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// EnvPath overrides the location of the config file when set.
const EnvPath = "REELSHELF_CONFIG"

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the user settings for reelshelf.
type Config struct {
	StoreBackend           string `json:"store_backend" validate:"oneof=sqlite memory"`
	StorePath              string `json:"store_path"`
	DefaultEpisodes        int    `json:"default_episodes" validate:"gte=1"`
	PreviewCacheTTLSeconds int    `json:"preview_cache_ttl_seconds" validate:"gte=0"`
	PreviewLimit           int    `json:"preview_limit" validate:"gte=1"`

	// Templates used to name the entries created for a season range.
	RangeTitle       string `json:"range_title" validate:"required"`
	RangeDescription string `json:"range_description"`

	EnableLogging    bool   `json:"enable_logging"`
	LogRetentionDays int    `json:"log_retention_days" validate:"gte=1"`
	LogLevel         string `json:"log_level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		StoreBackend:           BackendSQLite,
		StorePath:              "",
		DefaultEpisodes:        10,
		PreviewCacheTTLSeconds: 300,
		PreviewLimit:           5,
		RangeTitle:             "{name} Season {season}",
		RangeDescription:       "Season {season} of {name}",
		EnableLogging:          true,
		LogRetentionDays:       30,
		LogLevel:               "info",
	}
}

// Dir returns the reelshelf home directory
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".reelshelf"), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	if path := os.Getenv(EnvPath); path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in any missing fields with defaults
	defaults := DefaultConfig()
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = defaults.StoreBackend
	}
	if cfg.DefaultEpisodes == 0 {
		cfg.DefaultEpisodes = defaults.DefaultEpisodes
	}
	if cfg.PreviewCacheTTLSeconds == 0 {
		cfg.PreviewCacheTTLSeconds = defaults.PreviewCacheTTLSeconds
	}
	if cfg.PreviewLimit == 0 {
		cfg.PreviewLimit = defaults.PreviewLimit
	}
	if cfg.RangeTitle == "" {
		cfg.RangeTitle = defaults.RangeTitle
	}
	if cfg.RangeDescription == "" {
		cfg.RangeDescription = defaults.RangeDescription
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	return &cfg, nil
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate reports the first invalid setting.
func (cfg *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	err := validate.Struct(cfg)
	if err == nil {
		if err := ValidateTemplate(cfg.RangeTitle); err != nil {
			return fmt.Errorf("invalid range_title: %w", err)
		}
		if err := ValidateTemplate(cfg.RangeDescription); err != nil {
			return fmt.Errorf("invalid range_description: %w", err)
		}
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("invalid config value for %s: %v (%s %s)", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("invalid config: %w", err)
}

// DatabasePath returns the SQLite file used by the sqlite backend.
func (cfg *Config) DatabasePath() (string, error) {
	if cfg.StorePath != "" {
		return cfg.StorePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "reelshelf.db"), nil
}

// PreviewTTL returns the preview cache lifetime.
func (cfg *Config) PreviewTTL() time.Duration {
	return time.Duration(cfg.PreviewCacheTTLSeconds) * time.Second
}

// ApplyRangeTitle names the entry created for one season of a range.
func (cfg *Config) ApplyRangeTitle(name string, season int) string {
	return resolver.Resolve(cfg.RangeTitle, RangeContext{Name: name, Season: season})
}

// ApplyRangeDescription describes the entry created for one season of a range.
func (cfg *Config) ApplyRangeDescription(name string, season int) string {
	return resolver.Resolve(cfg.RangeDescription, RangeContext{Name: name, Season: season})
}
