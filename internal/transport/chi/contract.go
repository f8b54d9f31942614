package chi

import (
	"context"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	healthuc "github.com/kailas-cloud/tripagent/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tripagent/internal/usecase/search"
)

// Agent answers one chat turn.
type Agent interface {
	ProcessMessage(ctx context.Context, message string, actx domagent.Context) string
}

// Documents manages the knowledge base.
type Documents interface {
	Upsert(ctx context.Context, docs []domdoc.Document) (int, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	Count() int
}

// Searcher runs similarity queries.
type Searcher interface {
	Query(ctx context.Context, text string, topK int, f filter.Filter) (searchuc.Response, error)
}

// ToolLister exposes the registered tools.
type ToolLister interface {
	List() []domtool.Descriptor
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
