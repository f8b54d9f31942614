package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/tripagent/internal/domain"
	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	"github.com/kailas-cloud/tripagent/internal/domain/search/request"
	"github.com/kailas-cloud/tripagent/internal/domain/search/result"
)

// Response is a ranked result list. Degraded is set when the query vector came from
// the hash fallback, in which case ranking carries no semantic meaning.
type Response struct {
	Results  []result.Result
	Degraded bool
}

// Service ranks stored documents by cosine similarity to a query.
// Every query is a full scan: O(documents * dimensions).
type Service struct {
	docs        DocumentSource
	defaultTopK int
}

// New creates a search service.
func New(docs DocumentSource) *Service {
	return &Service{docs: docs, defaultTopK: request.DefaultTopK}
}

// WithDefaultTopK sets the result count used when a caller passes topK <= 0.
func (s *Service) WithDefaultTopK(k int) *Service {
	if k > 0 {
		s.defaultTopK = k
	}
	return s
}

// Query builds a request and runs Search.
func (s *Service) Query(ctx context.Context, text string, topK int, f filter.Filter) (Response, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}
	req, err := request.New(text, topK, f)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return s.Search(ctx, req)
}

// Search seeds an empty store, embeds the query, filters candidates and returns the top K.
// Ties in score are broken by document ID.
func (s *Service) Search(ctx context.Context, req request.Request) (Response, error) {
	if err := s.docs.EnsureSeeded(ctx); err != nil {
		return Response{}, fmt.Errorf("ensure seeded: %w", err)
	}

	emb, err := s.docs.Embed(ctx, req.Query())
	if err != nil {
		return Response{}, fmt.Errorf("vectorize query: %w", err)
	}

	f := req.Filter()
	entries := s.docs.Entries()
	results := make([]result.Result, 0, len(entries))
	for _, e := range entries {
		if !f.Matches(e.Document) {
			continue
		}
		results = append(results, result.New(
			e.Document.ID(),
			CosineSimilarity(emb.Embedding, e.Vector),
			e.Document.Content(),
			e.Document.Metadata(),
		))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		return results[i].ID() < results[j].ID()
	})

	if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}
	return Response{Results: results, Degraded: emb.Degraded}, nil
}

// SearchByType restricts candidates to documents of the given metadata type.
func (s *Service) SearchByType(ctx context.Context, text, docType string, topK int) (Response, error) {
	return s.Query(ctx, text, topK, filter.New(filter.WithType(docType)))
}

// SearchByLocation restricts candidates to documents whose location contains loc.
func (s *Service) SearchByLocation(ctx context.Context, text, loc string, topK int) (Response, error) {
	return s.Query(ctx, text, topK, filter.New(filter.WithLocation(loc)))
}

// SearchByTags restricts candidates to documents carrying any of tags (substring, case-insensitive).
func (s *Service) SearchByTags(ctx context.Context, text string, tags []string, topK int) (Response, error) {
	return s.Query(ctx, text, topK, filter.New(filter.WithAnyTag(tags...)))
}
