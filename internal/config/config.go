// Package config loads talkie configuration from .talkie.yml with
// TALKIE_* environment variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// APIKeyEnvVar is the environment variable holding the embedding
// provider credential.
const APIKeyEnvVar = "OPENAI_API_KEY"

// Config is the top-level talkie configuration, corresponding to .talkie.yml.
type Config struct {
	EmbeddingModel  string      `yaml:"embedding_model" koanf:"embedding_model"`
	IgnoreFile      string      `yaml:"ignore_file" koanf:"ignore_file"`
	FingerprintFile string      `yaml:"fingerprint_file" koanf:"fingerprint_file"`
	VectorDir       string      `yaml:"vector_dir" koanf:"vector_dir"`
	MaxFileSize     int64       `yaml:"max_file_size" koanf:"max_file_size"`
	PersistEvery    int         `yaml:"persist_every" koanf:"persist_every"`
	Retry           RetryConfig `yaml:"retry" koanf:"retry"`
}

// RetryConfig bounds retries of transient embedding-provider failures.
type RetryConfig struct {
	MaxAttempts int     `yaml:"max_attempts" koanf:"max_attempts"`
	BaseDelayMs int     `yaml:"base_delay_ms" koanf:"base_delay_ms"`
	MaxDelayMs  int     `yaml:"max_delay_ms" koanf:"max_delay_ms"`
	Multiplier  float64 `yaml:"multiplier" koanf:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel:  "text-embedding-3-small",
		IgnoreFile:      ".talkieignore",
		FingerprintFile: ".file_hashes.json",
		VectorDir:       ".chromadb",
		MaxFileSize:     1 << 20,
		PersistEvery:    25,
		Retry: RetryConfig{
			MaxAttempts: 4,
			BaseDelayMs: 500,
			MaxDelayMs:  8000,
			Multiplier:  2.0,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TALKIE_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// TALKIE_EMBEDDING_MODEL -> embedding_model, etc. Retry fields use
	// a double underscore: TALKIE_RETRY__MAX_ATTEMPTS.
	if err := k.Load(env.Provider("TALKIE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "TALKIE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.IgnoreFile == "" {
		return fmt.Errorf("ignore_file is required")
	}
	if c.FingerprintFile == "" {
		return fmt.Errorf("fingerprint_file is required")
	}
	if c.VectorDir == "" {
		return fmt.Errorf("vector_dir is required")
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be non-negative")
	}
	if c.PersistEvery < 0 {
		return fmt.Errorf("persist_every must be non-negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	return nil
}
