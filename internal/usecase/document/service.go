package document

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

// Service owns the document store: vectorization, lazy seeding and optional persistence.
type Service struct {
	store         Store
	persister     Persister
	docEmbedder   Embedder
	queryEmbedder Embedder
	dims          int
	concurrency   int
	seed          []domdoc.Document
	logger        *zap.Logger

	seedMu sync.Mutex
}

// New creates a document service. dims <= 0 disables the dimension check.
func New(store Store, docEmbedder, queryEmbedder Embedder, dims int) *Service {
	return &Service{
		store:         store,
		docEmbedder:   docEmbedder,
		queryEmbedder: queryEmbedder,
		dims:          dims,
		concurrency:   4,
		seed:          SeedCorpus(),
		logger:        zap.NewNop(),
	}
}

// WithPersister enables write-through to durable storage.
func (s *Service) WithPersister(p Persister) *Service {
	s.persister = p
	return s
}

// WithConcurrency limits parallel embedding calls during Upsert.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// WithSeed replaces the cold-start corpus. An empty slice disables seeding.
func (s *Service) WithSeed(docs []domdoc.Document) *Service {
	s.seed = docs
	return s
}

// WithLogger sets the service logger.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// Upsert embeds every document and stores the pairs, replacing entries with the same ID.
// Either all documents are stored or none. Returns the number of newly created entries.
func (s *Service) Upsert(ctx context.Context, docs []domdoc.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	for i, doc := range docs {
		if doc.ID() == "" || doc.Content() == "" {
			return 0, fmt.Errorf("document %d: id and content are required: %w", i, domain.ErrInvalidDocument)
		}
	}

	entries := make([]domdoc.Entry, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			res, err := s.embed(gctx, s.docEmbedder, doc.Content())
			if err != nil {
				return fmt.Errorf("vectorize document %s: %w", doc.ID(), err)
			}
			entries[i] = domdoc.Entry{Document: doc, Vector: res.Embedding}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if s.persister != nil {
		if err := s.persister.Save(ctx, entries); err != nil {
			return 0, fmt.Errorf("persist documents: %w", err)
		}
	}

	created := 0
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Document.ID()]; dup {
			continue
		}
		seen[e.Document.ID()] = struct{}{}
		if _, ok := s.store.Get(e.Document.ID()); !ok {
			created++
		}
	}

	if err := s.store.Put(entries...); err != nil {
		return 0, fmt.Errorf("store documents: %w", err)
	}
	return created, nil
}

// Embed vectorizes query text. The result reports whether the degraded fallback produced it.
func (s *Service) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return s.embed(ctx, s.queryEmbedder, text)
}

func (s *Service) embed(ctx context.Context, e Embedder, text string) (domain.EmbeddingResult, error) {
	res, err := e.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	if err := domain.CheckDimensions(res.Embedding, s.dims); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embedding: %w", err)
	}
	domain.UsageFromContext(ctx).Record(res)
	return res, nil
}

// EnsureSeeded loads the built-in corpus when the store is empty.
// Concurrent callers on a cold store trigger a single seeding.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	if len(s.seed) == 0 || s.store.Len() > 0 {
		return nil
	}

	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if s.store.Len() > 0 {
		return nil
	}

	n, err := s.Upsert(ctx, s.seed)
	if err != nil {
		return fmt.Errorf("seed documents: %w", err)
	}
	s.logger.Info("Seeded document store", zap.Int("documents", n))
	return nil
}

// Warm loads persisted entries into the store. Entries with a foreign dimension are skipped.
func (s *Service) Warm(ctx context.Context) (int, error) {
	if s.persister == nil {
		return 0, nil
	}

	entries, err := s.persister.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load documents: %w", err)
	}

	valid := entries[:0]
	for _, e := range entries {
		if err := domain.CheckDimensions(e.Vector, s.dims); err != nil {
			s.logger.Warn("Skipping persisted document",
				zap.String("id", e.Document.ID()),
				zap.Error(err),
			)
			continue
		}
		valid = append(valid, e)
	}

	if err := s.store.Put(valid...); err != nil {
		return 0, fmt.Errorf("store documents: %w", err)
	}
	return len(valid), nil
}

// Get returns a stored document.
func (s *Service) Get(_ context.Context, id string) (domdoc.Document, error) {
	e, ok := s.store.Get(id)
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return e.Document, nil
}

// Count returns the number of stored documents.
func (s *Service) Count() int {
	return s.store.Len()
}

// Entries returns a snapshot of stored entries, sorted by ID.
func (s *Service) Entries() []domdoc.Entry {
	return s.store.Snapshot()
}

// Delete removes a document from the store and from durable storage.
func (s *Service) Delete(ctx context.Context, id string) error {
	found := s.store.Delete(id)

	if s.persister != nil {
		err := s.persister.Delete(ctx, id)
		switch {
		case err == nil:
			found = true
		case errors.Is(err, domain.ErrDocumentNotFound):
		default:
			return fmt.Errorf("delete document: %w", err)
		}
	}

	if !found {
		return domain.ErrDocumentNotFound
	}
	return nil
}
