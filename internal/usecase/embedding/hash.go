package embedding

import (
	"context"
	"math"

	"github.com/kailas-cloud/tripagent/internal/domain"
)

// HashEmbedder derives a deterministic pseudo-embedding from a string hash.
// Vectors are structurally valid but carry no semantics; every result is marked Degraded.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a degraded embedder producing dims-long vectors.
func NewHashEmbedder(dims int) *HashEmbedder {
	return &HashEmbedder{dims: dims}
}

// Embed never fails.
func (h *HashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: HashVector(text, h.dims), Degraded: true}, nil
}

// HashVector returns component i = sin(seed*(i+1)) * cos(i*0.1), where seed is
// the 32-bit rolling hash h = h*31 + rune over text. Every component lies in [-1, 1].
func HashVector(text string, dims int) []float32 {
	seed := float64(stringHash(text))
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = float32(math.Sin(seed*float64(i+1)) * math.Cos(float64(i)*0.1))
	}
	return vec
}

func stringHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + r
	}
	return h
}
