package tripagent

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
)

// SearchService ranks knowledge-base documents by similarity to a query.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// SearchOption narrows a query.
type SearchOption func(*searchParams)

type searchParams struct {
	topK int
	opts []filter.Option
}

// TopK sets the result count. Non-positive values use the client default.
func TopK(k int) SearchOption {
	return func(p *searchParams) { p.topK = k }
}

// OfType keeps documents whose "type" metadata equals t.
func OfType(t string) SearchOption {
	return func(p *searchParams) { p.opts = append(p.opts, filter.WithType(t)) }
}

// InLocation keeps documents whose "location" contains loc, case-insensitively.
func InLocation(loc string) SearchOption {
	return func(p *searchParams) { p.opts = append(p.opts, filter.WithLocation(loc)) }
}

// WithAnyTag keeps documents carrying a tag that contains any of the given fragments.
func WithAnyTag(tags ...string) SearchOption {
	return func(p *searchParams) { p.opts = append(p.opts, filter.WithAnyTag(tags...)) }
}

// Query returns the best matching documents for text.
func (s *SearchService) Query(ctx context.Context, text string, opts ...SearchOption) (res SearchResults, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err, res.Degraded) }()

	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	resp, err := s.svc.Query(ctx, text, p.topK, filter.New(p.opts...))
	if err != nil {
		return SearchResults{}, fmt.Errorf("search: %w", err)
	}

	out := make([]SearchResult, len(resp.Results))
	for i, r := range resp.Results {
		out[i] = fromInternalResult(r)
	}
	return SearchResults{Results: out, Degraded: resp.Degraded}, nil
}
