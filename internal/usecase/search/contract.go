package search

import (
	"context"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

// DocumentSource provides the corpus and query vectorization.
type DocumentSource interface {
	EnsureSeeded(ctx context.Context) error
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
	Entries() []domdoc.Entry
}
