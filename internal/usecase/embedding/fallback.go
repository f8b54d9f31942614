package embedding

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tripagent/internal/domain"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

// FallbackEmbedder tries the primary embedder and substitutes the degraded one on failure.
// Context cancellation is returned as-is: an abandoned turn needs no vector.
type FallbackEmbedder struct {
	primary  domain.Embedder
	degraded domain.Embedder
	logger   *zap.Logger
}

// NewFallbackEmbedder creates a fallback decorator. primary may be nil, in which
// case every call is served degraded (no provider configured).
func NewFallbackEmbedder(primary, degraded domain.Embedder, logger *zap.Logger) *FallbackEmbedder {
	return &FallbackEmbedder{primary: primary, degraded: degraded, logger: logger}
}

// Embed returns the primary result, or a degraded one flagged as such.
func (f *FallbackEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var cause error
	if f.primary != nil {
		res, err := f.primary.Embed(ctx, text)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, context.Canceled) {
			return domain.EmbeddingResult{}, err
		}
		cause = err
	}

	res, err := f.degraded.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	res.Degraded = true

	metrics.EmbeddingDegradedTotal.Inc()
	if cause != nil {
		f.logger.Warn("Embedding provider failed, serving degraded embedding",
			zap.Int("dimensions", len(res.Embedding)),
			zap.Error(cause),
		)
	} else {
		f.logger.Debug("No embedding provider configured, serving degraded embedding")
	}
	return res, nil
}
