// Package config holds all gemini-pr-reviewer configuration.
// Configuration is loaded from an optional YAML file, with environment
// variables taking precedence for secrets (GEMINI_API_KEY) and the model
// selection (PRREVIEW_MODEL).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all reviewer configuration.
type Config struct {
	// Gemini configuration
	Gemini GeminiConfig `yaml:"gemini"`

	// Upload orchestration settings
	Upload UploadConfig `yaml:"upload"`

	// Manifest storage
	Manifest ManifestConfig `yaml:"manifest"`
}

// GeminiConfig configures the remote Gemini endpoint.
type GeminiConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// UploadConfig configures the upload orchestrator.
type UploadConfig struct {
	// MaxAttempts is the number of upload calls before giving up on a file.
	MaxAttempts int `yaml:"max_attempts"`

	// RetryBackoffBase is the base duration for exponential backoff between
	// upload retries.
	RetryBackoffBase time.Duration `yaml:"retry_backoff_base"`

	// RetryBackoffMax caps the backoff regardless of attempt count.
	RetryBackoffMax time.Duration `yaml:"retry_backoff_max"`

	// PollInterval is the delay between readiness checks on an uploaded file.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ReadyTimeout is the wall-clock budget for a file to reach ACTIVE.
	ReadyTimeout time.Duration `yaml:"ready_timeout"`

	// SizeLimits maps a lowercase file extension (including the dot) to the
	// maximum accepted size in bytes. Extensions not listed fall back to
	// DefaultSizeLimit.
	SizeLimits map[string]int64 `yaml:"size_limits"`

	// DefaultSizeLimit applies to extensions absent from SizeLimits.
	DefaultSizeLimit int64 `yaml:"default_size_limit"`
}

// ManifestConfig configures the durable asset manifest.
type ManifestConfig struct {
	// DatabasePath is the SQLite file tracking uploaded assets across runs.
	DatabasePath string `yaml:"database_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-pro",
			Temperature: 0.3,
		},
		Upload: UploadConfig{
			MaxAttempts:      4,
			RetryBackoffBase: 2 * time.Second,
			RetryBackoffMax:  30 * time.Second,
			PollInterval:     5 * time.Second,
			ReadyTimeout:     5 * time.Minute,
			SizeLimits: map[string]int64{
				".zip": 50 * 1024 * 1024,
				".txt": 2 * 1024 * 1024,
				".md":  2 * 1024 * 1024,
			},
			DefaultSizeLimit: 20 * 1024 * 1024,
		},
		Manifest: ManifestConfig{
			DatabasePath: filepath.Join(home, ".gemini-pr-reviewer", "manifest.db"),
		},
	}
}

// Load reads configuration from the given YAML file, merged over defaults.
// A missing file is not an error; environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("PRREVIEW_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if db := os.Getenv("PRREVIEW_MANIFEST_DB"); db != "" {
		c.Manifest.DatabasePath = db
	}
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Upload.MaxAttempts < 1 {
		return fmt.Errorf("upload.max_attempts must be >= 1, got %d", c.Upload.MaxAttempts)
	}
	if c.Upload.PollInterval <= 0 {
		return fmt.Errorf("upload.poll_interval must be positive, got %v", c.Upload.PollInterval)
	}
	if c.Upload.ReadyTimeout <= 0 {
		return fmt.Errorf("upload.ready_timeout must be positive, got %v", c.Upload.ReadyTimeout)
	}
	if c.Manifest.DatabasePath == "" {
		return fmt.Errorf("manifest.database_path is required")
	}
	return nil
}

// SizeLimitFor returns the byte ceiling for a filename based on its extension.
func (c *UploadConfig) SizeLimitFor(name string) int64 {
	ext := filepath.Ext(name)
	if limit, ok := c.SizeLimits[ext]; ok {
		return limit
	}
	return c.DefaultSizeLimit
}
