package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"talkie/internal/config"
	"talkie/internal/embeddings"
	"talkie/internal/rag"
	"talkie/internal/vectordb"
)

// loadConfig loads and validates the config, providing a friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `talkie init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newEmbedder builds the retrying OpenAI embedder from config. The API
// key must be present in the environment before any state is touched.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := os.Getenv(config.APIKeyEnvVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", config.APIKeyEnvVar)
	}

	inner := embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel))
	return embeddings.WithRetry(inner, embeddings.RetryConfig{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond,
		Multiplier:  cfg.Retry.Multiplier,
	}), nil
}

// newEngine wires the embedder and the chromem index opener into an engine.
func newEngine(cfg *config.Config, progress rag.ProgressFunc) (*rag.Engine, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	opener := func(dir, collection string) (vectordb.Index, error) {
		return vectordb.OpenChromem(dir, collection, embeddings.ToChromemFunc(embedder))
	}

	return rag.NewEngine(embedder, opener, rag.Options{
		IgnoreFile:      cfg.IgnoreFile,
		FingerprintFile: cfg.FingerprintFile,
		VectorDir:       cfg.VectorDir,
		MaxFileSize:     cfg.MaxFileSize,
		PersistEvery:    cfg.PersistEvery,
		Logger:          slog.Default(),
		Progress:        progress,
	}), nil
}
