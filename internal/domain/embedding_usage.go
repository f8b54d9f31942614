package domain

import (
	"context"
	"sync"
)

type embeddingUsageKey struct{}

// EmbeddingUsage collects token usage and degraded-mode hits for a single request.
// The handler puts a pointer into the context before calling the service;
// services write after embedding; the handler reads it for response headers.
// Upsert embeds in parallel, so writes are guarded.
type EmbeddingUsage struct {
	mu          sync.Mutex
	totalTokens int
	used        bool
	degraded    bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// Record stores the outcome of one embedding call. Safe on a nil receiver.
func (u *EmbeddingUsage) Record(res EmbeddingResult) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totalTokens += res.TotalTokens
	u.used = true
	if res.Degraded {
		u.degraded = true
	}
}

// TotalTokens returns the tokens consumed so far.
func (u *EmbeddingUsage) TotalTokens() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalTokens
}

// Used reports whether any embedding was computed, even a cached one.
func (u *EmbeddingUsage) Used() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.used
}

// Degraded reports whether any embedding in the request came from the hash fallback.
func (u *EmbeddingUsage) Degraded() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.degraded
}
