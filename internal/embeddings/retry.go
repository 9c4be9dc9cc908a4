package embeddings

import (
	"context"
	"time"
)

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the second attempt
	MaxDelay    time.Duration // upper bound on the backoff delay
	Multiplier  float64       // backoff growth factor
}

// DefaultRetryConfig returns sensible defaults for API retry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryEmbedder decorates an Embedder with bounded exponential backoff.
// Only transient failures are retried; permanent failures and context
// cancellation surface immediately.
type RetryEmbedder struct {
	inner Embedder
	cfg   RetryConfig
}

// WithRetry wraps an Embedder in retry behavior.
func WithRetry(inner Embedder, cfg RetryConfig) *RetryEmbedder {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2.0
	}
	return &RetryEmbedder{inner: inner, cfg: cfg}
}

func (r *RetryEmbedder) Name() string    { return r.inner.Name() }
func (r *RetryEmbedder) Dimensions() int { return r.inner.Dimensions() }

func (r *RetryEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	backoff := r.cfg.BaseDelay

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		vectors, err := r.inner.Embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt < r.cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * r.cfg.Multiplier)
				if r.cfg.MaxDelay > 0 && backoff > r.cfg.MaxDelay {
					backoff = r.cfg.MaxDelay
				}
			}
		}
	}

	return nil, lastErr
}
