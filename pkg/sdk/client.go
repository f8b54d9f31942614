package tripagent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/tripagent/internal/db/redis"
	"github.com/kailas-cloud/tripagent/internal/domain"
	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	documentrepo "github.com/kailas-cloud/tripagent/internal/repository/document"
	"github.com/kailas-cloud/tripagent/internal/repository/vectorstore"
	"github.com/kailas-cloud/tripagent/internal/tools"
	agentuc "github.com/kailas-cloud/tripagent/internal/usecase/agent"
	documentuc "github.com/kailas-cloud/tripagent/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/tripagent/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/tripagent/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tripagent/internal/usecase/search"
	tooluc "github.com/kailas-cloud/tripagent/internal/usecase/tool"
)

const (
	defaultReadinessTimeout  = 10 * time.Second
	defaultGroundingSnippets = 3
)

var errNoGenerator = errors.New("tripagent: generator not configured (use WithGenerator)")

// Internal interfaces, swapped for mocks in tests.
type agentUseCase interface {
	ProcessMessage(ctx context.Context, message string, actx domagent.Context) string
}

type documentUseCase interface {
	Upsert(ctx context.Context, docs []domdoc.Document) (int, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	Count() int
}

type searchUseCase interface {
	Query(ctx context.Context, text string, topK int, f filter.Filter) (searchuc.Response, error)
}

type toolRegistry interface {
	Register(desc domtool.Descriptor) error
	List() []domtool.Descriptor
}

// Client is the tripagent SDK entry point.
type Client struct {
	store     *dbRedis.Store
	agent     agentUseCase
	docSvc    documentUseCase
	searchSvc searchUseCase
	registry  toolRegistry
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. Without WithValkey or WithRedis documents live in memory only.
// The provided context is used for the readiness check and for loading persisted documents.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions:  domain.DefaultVectorConfig().Dimensions,
		groundingSnippets: defaultGroundingSnippets,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.vectorDimensions <= 0 {
		return nil, fmt.Errorf("tripagent: vector dimensions must be positive, got %d", cfg.vectorDimensions)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store *dbRedis.Store
	if len(cfg.addrs) > 0 {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("tripagent: database not ready: %w", err)
		}
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("tripagent: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("tripagent: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	nop := zap.NewNop()
	dims := cfg.vectorDimensions

	// Embedder: hash fallback when none is configured or the provider fails
	var primary domain.Embedder
	if cfg.embedder != nil {
		primary = &embedderAdapter{inner: cfg.embedder}
	}
	emb := embeddinguc.NewFallbackEmbedder(primary, embeddinguc.NewHashEmbedder(dims), nop)

	docSvc := documentuc.New(vectorstore.New(dims), emb, emb, dims).
		WithConcurrency(cfg.embedConcurrency)
	if cfg.disableSeed {
		docSvc = docSvc.WithSeed(nil)
	}
	if store != nil {
		docSvc = docSvc.WithPersister(documentrepo.New(store))
		n, err := docSvc.Warm(ctx)
		if err != nil {
			return nil, fmt.Errorf("tripagent: load documents: %w", err)
		}
		if cfg.logger != nil {
			cfg.logger.Info("loaded persisted documents", "count", n)
		}
	}

	searchSvc := searchuc.New(docSvc).WithDefaultTopK(cfg.defaultTopK)

	registry := tooluc.NewRegistry(nop)
	if _, err := tools.Register(registry, tools.Deps{Search: searchSvc}); err != nil {
		return nil, fmt.Errorf("tripagent: register knowledge tools: %w", err)
	}
	for _, t := range cfg.tools {
		if err := registry.Register(toInternalTool(t)); err != nil {
			return nil, fmt.Errorf("tripagent: register tool %q: %w", t.Name, err)
		}
	}

	var gen agentuc.TextGenerator = noopGenerator{}
	var genChecker healthuc.Checker
	if cfg.generator != nil {
		gen = &generatorAdapter{inner: cfg.generator}
		if hc, ok := cfg.generator.(healthuc.Checker); ok {
			genChecker = hc
		}
	}
	var embChecker healthuc.Checker
	if hc, ok := cfg.embedder.(healthuc.Checker); ok {
		embChecker = hc
	}
	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}

	orchestrator := agentuc.New(gen, registry, nop).
		WithApology(cfg.apology).
		WithRetriever(searchSvc, cfg.groundingSnippets)

	return &Client{
		store:     store,
		agent:     orchestrator,
		docSvc:    docSvc,
		searchSvc: searchSvc,
		registry:  registry,
		healthSvc: healthuc.New(dbPinger, embChecker, genChecker),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Chat runs one agent turn. It always returns a non-empty reply:
// failures surface as the apology, never as an error.
func (c *Client) Chat(ctx context.Context, message string, cc ChatContext) string {
	start := time.Now()
	reply := c.agent.ProcessMessage(ctx, message, toInternalContext(cc))
	c.obs.observe("chat", start, nil, false)
	return reply
}

// Documents returns the knowledge-base service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.docSvc, obs: c.obs}
}

// Search returns the similarity search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// Tools returns the tool registry service.
func (c *Client) Tools() *ToolService {
	return &ToolService{registry: c.registry}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// generatorAdapter wraps public Generator to satisfy agentuc.TextGenerator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	out, err := a.inner.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

func (a *generatorAdapter) ChatWithContext(
	ctx context.Context, message string, history []domagent.Message, extra map[string]any,
) (string, error) {
	out, err := a.inner.Chat(ctx, message, fromInternalHistory(history), extra)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return out, nil
}

// noopGenerator fails every call, so each turn ends with the apology.
type noopGenerator struct{}

func (noopGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	return "", errNoGenerator
}

func (noopGenerator) ChatWithContext(
	_ context.Context, _ string, _ []domagent.Message, _ map[string]any,
) (string, error) {
	return "", errNoGenerator
}
