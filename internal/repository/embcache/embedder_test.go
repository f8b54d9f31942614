package embcache

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/tripagent/internal/db"
	"github.com/kailas-cloud/tripagent/internal/domain"
	"go.uber.org/zap"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	// SET → OK (cache put)
	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		setCalled = true
		return nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})

	// GET → cached bytes
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.4 {
		t.Fatalf("expected cached vector, got: %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Fatalf("expected TotalTokens=0 on cache hit, got %d", result.TotalTokens)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := ce.Embed(ctx, "test text")
	if err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestEmbed_DegradedNotCached(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
		Degraded:  true,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		t.Fatal("degraded vector must not be cached")
		return nil
	}

	result, err := ce.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded flag to pass through")
	}
}

func TestEmbed_CorruptCacheFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}}}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil // not a multiple of 4
	}

	result, err := ce.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner to be called once, got %d", inner.calls)
	}
	if len(result.Embedding) != 2 {
		t.Errorf("unexpected vector: %v", result.Embedding)
	}
}

func TestCacheKey_NamespaceSeparatesModels(t *testing.T) {
	a := New(&mockEmbedder{}, &mockKVStore{}, "model-a:768", nil, zap.NewNop())
	b := New(&mockEmbedder{}, &mockKVStore{}, "model-b:768", nil, zap.NewNop())

	ka, kb := a.cacheKey("tokyo"), b.cacheKey("tokyo")
	if ka == kb {
		t.Fatal("expected different keys for different namespaces")
	}
	if !strings.HasPrefix(ka, "tripagent:emb_cache:") {
		t.Errorf("unexpected key prefix: %s", ka)
	}
	if a.cacheKey("tokyo") != ka {
		t.Error("expected stable key")
	}
}

func TestVectorCacheBytesRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("index %d: got %v, want %v", i, out[i], in[i])
		}
	}
}
