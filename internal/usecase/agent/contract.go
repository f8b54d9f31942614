package agent

import (
	"context"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	"github.com/kailas-cloud/tripagent/internal/usecase/search"
)

// TextGenerator is the external text-generation capability.
type TextGenerator interface {
	// GenerateText answers a single prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// ChatWithContext answers message given prior history and extra structured context.
	ChatWithContext(
		ctx context.Context, message string, history []domagent.Message, extra map[string]any,
	) (string, error)
}

// ToolLookup reads the tool registry.
type ToolLookup interface {
	Get(name string) (domtool.Descriptor, bool)
	List() []domtool.Descriptor
}

// Retriever finds knowledge snippets for chat grounding.
type Retriever interface {
	Query(ctx context.Context, text string, topK int, f filter.Filter) (search.Response, error)
}
