package document

import (
	"context"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

// Store holds embedded documents in memory.
type Store interface {
	Put(entries ...domdoc.Entry) error
	Get(id string) (domdoc.Entry, bool)
	Delete(id string) bool
	Len() int
	Snapshot() []domdoc.Entry
}

// Persister writes entries through to durable storage. Optional.
type Persister interface {
	Save(ctx context.Context, entries []domdoc.Entry) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]domdoc.Entry, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
