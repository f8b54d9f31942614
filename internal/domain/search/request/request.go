package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 5
	MaxTopK        = 100
)

// Request is a validated similarity query.
type Request struct {
	query  string
	topK   int
	filter filter.Filter
}

// New validates and normalizes search parameters. topK <= 0 falls back to DefaultTopK.
func New(query string, topK int, f filter.Filter) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Request{query: query, topK: topK, filter: f}, nil
}

// Query returns the query text.
func (r Request) Query() string { return r.query }

// TopK returns the number of results to return.
func (r Request) TopK() int { return r.topK }

// Filter returns the candidate filter.
func (r Request) Filter() filter.Filter { return r.filter }
