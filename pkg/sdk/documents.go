package tripagent

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

// DocumentService manages the knowledge base.
type DocumentService struct {
	svc documentUseCase
	obs *observer
}

// Upsert embeds and stores documents, replacing entries with the same ID.
// Either every document is stored or none. Returns the number of newly created entries.
func (s *DocumentService) Upsert(ctx context.Context, docs ...Document) (created int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("upsert", start, err, false) }()

	internal := make([]domdoc.Document, len(docs))
	for i, d := range docs {
		internal[i], err = toInternalDocument(d)
		if err != nil {
			return 0, fmt.Errorf("upsert: document %d: %w: %w", i, ErrInvalidDocument, err)
		}
	}
	created, err = s.svc.Upsert(ctx, internal)
	if err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}
	return created, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	d, err := s.svc.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Delete removes a document by ID.
func (s *DocumentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete", start, err, false) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *DocumentService) Count() int {
	return s.svc.Count()
}
