package agent

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	"github.com/kailas-cloud/tripagent/internal/logger"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

// DefaultApology is returned whenever a turn cannot produce a reply.
const DefaultApology = "I'm sorry, I ran into a problem while processing your request. Please try again."

const maxSnippetRunes = 600

var errEmptyReply = errors.New("empty reply")

// Orchestrator runs one conversational turn: route, then either dispatch and
// format a tool result or answer through the chat capability.
type Orchestrator struct {
	router     *Router
	dispatcher *Dispatcher
	formatter  *Formatter
	gen        TextGenerator
	retriever  Retriever
	snippets   int
	apology    string
	logger     *zap.Logger
}

// New wires a router, dispatcher and formatter around gen and tools.
func New(gen TextGenerator, tools ToolLookup, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		router:     NewRouter(gen, tools, logger),
		dispatcher: NewDispatcher(tools, logger),
		formatter:  NewFormatter(gen, logger),
		gen:        gen,
		apology:    DefaultApology,
		logger:     logger,
	}
}

// WithRetriever grounds chat replies on up to k retrieved snippets. k <= 0 disables grounding.
func (o *Orchestrator) WithRetriever(r Retriever, k int) *Orchestrator {
	o.retriever = r
	o.snippets = k
	return o
}

// WithApology overrides the reply used when a turn fails.
func (o *Orchestrator) WithApology(s string) *Orchestrator {
	if strings.TrimSpace(s) != "" {
		o.apology = s
	}
	return o
}

// ProcessMessage returns the reply for one user message. It never returns an
// error and never panics: any failure, including cancellation, yields the apology.
func (o *Orchestrator) ProcessMessage(ctx context.Context, message string, actx domagent.Context) (reply string) {
	start := time.Now()
	path := domagent.PathFallback

	log := logger.FromContextOr(ctx, o.logger).With(
		zap.String("turn_id", uuid.NewString()),
		zap.String("user_id", actx.UserID),
	)
	ctx = logger.ContextWithLogger(ctx, log)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Turn panicked", zap.Any("panic", r), zap.Stack("stack"))
			reply, path = o.apology, domagent.PathFallback
		}
		duration := time.Since(start)
		metrics.AgentTurnsTotal.WithLabelValues(string(path)).Inc()
		metrics.AgentTurnDuration.WithLabelValues(string(path)).Observe(duration.Seconds())
		log.Info("Turn completed", zap.String("path", string(path)), zap.Duration("duration", duration))
	}()

	out, p, err := o.turn(ctx, message, actx)
	if err != nil {
		log.Error("Turn failed", zap.String("path", string(p)), zap.Error(err))
		return o.apology
	}
	path = p
	return out
}

func (o *Orchestrator) turn(ctx context.Context, message string, actx domagent.Context) (string, domagent.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", domagent.PathFallback, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domagent.PathFallback, errors.New("empty message")
	}

	inv := o.router.Route(ctx, message, actx)
	if err := ctx.Err(); err != nil {
		return "", domagent.PathFallback, err
	}

	if res, ok := o.dispatcher.Dispatch(ctx, inv, message); ok {
		reply := o.formatter.Format(ctx, inv.ToolName, res, message)
		if err := ctx.Err(); err != nil {
			return "", domagent.PathTool, err
		}
		return reply, domagent.PathTool, nil
	}

	reply, err := o.gen.ChatWithContext(ctx, message, actx.History, o.chatExtra(ctx, message, actx))
	if err != nil {
		return "", domagent.PathChat, err
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		return "", domagent.PathChat, errEmptyReply
	}
	return reply, domagent.PathChat, nil
}

// chatExtra carries the itinerary, preferences and retrieved knowledge to the chat call.
// Retrieval failures only cost grounding.
func (o *Orchestrator) chatExtra(ctx context.Context, message string, actx domagent.Context) map[string]any {
	extra := map[string]any{}
	if actx.CurrentItineraryID != "" {
		extra["currentItineraryId"] = actx.CurrentItineraryID
	}
	if len(actx.UserPreferences) > 0 {
		extra["userPreferences"] = actx.UserPreferences
	}

	if o.retriever == nil || o.snippets <= 0 {
		return extra
	}
	resp, err := o.retriever.Query(ctx, message, o.snippets, filter.New())
	if err != nil {
		logger.FromContextOr(ctx, o.logger).Warn("Grounding retrieval failed", zap.Error(err))
		return extra
	}

	knowledge := make([]map[string]any, 0, len(resp.Results))
	for _, r := range resp.Results {
		knowledge = append(knowledge, map[string]any{
			"id":      r.ID(),
			"content": truncate(r.Content(), maxSnippetRunes),
			"score":   r.Score(),
		})
	}
	if len(knowledge) > 0 {
		extra["relevantKnowledge"] = knowledge
		if resp.Degraded {
			extra["knowledgeDegraded"] = true
		}
	}
	return extra
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
