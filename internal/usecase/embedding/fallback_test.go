package embedding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripagent/internal/domain"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

func TestFallbackEmbedder_PrimarySuccess(t *testing.T) {
	primary := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 0}, TotalTokens: 4}}
	f := NewFallbackEmbedder(primary, NewHashEmbedder(2), zap.NewNop())

	before := testutil.ToFloat64(metrics.EmbeddingDegradedTotal)
	res, err := f.Embed(context.Background(), "tokyo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Degraded {
		t.Error("expected real embedding")
	}
	if res.TotalTokens != 4 {
		t.Errorf("expected TotalTokens=4, got %d", res.TotalTokens)
	}
	if got := testutil.ToFloat64(metrics.EmbeddingDegradedTotal); got != before {
		t.Errorf("degraded counter moved: %v -> %v", before, got)
	}
}

func TestFallbackEmbedder_PrimaryFailure(t *testing.T) {
	primary := &mockEmbedder{err: fmt.Errorf("timeout: %w", domain.ErrEmbeddingProviderError)}
	f := NewFallbackEmbedder(primary, NewHashEmbedder(768), zap.NewNop())

	before := testutil.ToFloat64(metrics.EmbeddingDegradedTotal)
	res, err := f.Embed(context.Background(), "tokyo")
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if !res.Degraded {
		t.Error("expected Degraded=true")
	}
	if len(res.Embedding) != 768 {
		t.Errorf("expected 768 dimensions, got %d", len(res.Embedding))
	}
	if got := testutil.ToFloat64(metrics.EmbeddingDegradedTotal); got != before+1 {
		t.Errorf("expected degraded counter %v, got %v", before+1, got)
	}
}

func TestFallbackEmbedder_NoPrimary(t *testing.T) {
	f := NewFallbackEmbedder(nil, NewHashEmbedder(4), zap.NewNop())

	res, err := f.Embed(context.Background(), "tokyo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Degraded || len(res.Embedding) != 4 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestFallbackEmbedder_CanceledIsNotMasked(t *testing.T) {
	primary := &mockEmbedder{err: fmt.Errorf("embed: %w", context.Canceled)}
	degraded := &mockEmbedder{}
	f := NewFallbackEmbedder(primary, degraded, zap.NewNop())

	_, err := f.Embed(context.Background(), "tokyo")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if degraded.calls != 0 {
		t.Error("degraded embedder must not run after cancellation")
	}
}
