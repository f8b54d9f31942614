package agent

import (
	"context"

	"go.uber.org/zap"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	"github.com/kailas-cloud/tripagent/internal/llmjson"
	"github.com/kailas-cloud/tripagent/internal/logger"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

// Router outcomes, used as the metrics label.
const (
	outcomeTool            = "tool"
	outcomeNoTool          = "no_tool"
	outcomeUnparseable     = "unparseable"
	outcomeInvalidShape    = "invalid_shape"
	outcomeUnknownTool     = "unknown_tool"
	outcomeInactiveTool    = "inactive_tool"
	outcomeGenerationError = "generation_error"
	outcomeEmptyRegistry   = "empty_registry"
)

// Router asks the text generator whether a message needs a tool.
// It never fails: every problem resolves to NoTool.
type Router struct {
	gen    TextGenerator
	tools  ToolLookup
	logger *zap.Logger
}

// NewRouter creates a router.
func NewRouter(gen TextGenerator, tools ToolLookup, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{gen: gen, tools: tools, logger: logger}
}

// Route returns the invocation chosen for message.
func (r *Router) Route(ctx context.Context, message string, actx domagent.Context) domagent.Invocation {
	inv, outcome := r.route(ctx, message, actx)
	metrics.RouterDecisionsTotal.WithLabelValues(outcome).Inc()

	log := logger.FromContextOr(ctx, r.logger)
	log.Debug("Routing decision",
		zap.String("outcome", outcome),
		zap.String("tool", inv.ToolName),
	)
	return inv
}

func (r *Router) route(ctx context.Context, message string, actx domagent.Context) (domagent.Invocation, string) {
	visible := visibleTools(r.tools.List(), actx)
	if len(visible) == 0 {
		return domagent.NoTool(), outcomeEmptyRegistry
	}

	raw, err := r.gen.GenerateText(ctx, buildRoutingPrompt(visible, message, actx))
	if err != nil {
		logger.FromContextOr(ctx, r.logger).Warn("Routing generation failed", zap.Error(err))
		return domagent.NoTool(), outcomeGenerationError
	}

	res := llmjson.Extract(raw)
	if res.Kind() != llmjson.Parsed {
		return domagent.NoTool(), outcomeUnparseable
	}
	obj := res.Object()

	use, ok := llmjson.Bool(obj, "shouldUseTool")
	if !ok {
		return domagent.NoTool(), outcomeInvalidShape
	}
	if !use {
		return domagent.NoTool(), outcomeNoTool
	}

	name, ok := llmjson.String(obj, "toolName")
	if !ok {
		return domagent.NoTool(), outcomeInvalidShape
	}
	params, ok := llmjson.Object(obj, "parameters")
	if !ok {
		return domagent.NoTool(), outcomeInvalidShape
	}

	if _, ok := r.tools.Get(name); !ok {
		return domagent.NoTool(), outcomeUnknownTool
	}
	if !actx.ToolActive(name) {
		return domagent.NoTool(), outcomeInactiveTool
	}

	return domagent.Invocation{ShouldUseTool: true, ToolName: name, Parameters: params}, outcomeTool
}

func visibleTools(all []domtool.Descriptor, actx domagent.Context) []domtool.Descriptor {
	out := all[:0:0]
	for _, t := range all {
		if actx.ToolActive(t.Name) {
			out = append(out, t)
		}
	}
	return out
}
