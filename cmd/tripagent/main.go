package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tripagent/internal/config"
	"github.com/kailas-cloud/tripagent/internal/db"
	dbRedis "github.com/kailas-cloud/tripagent/internal/db/redis"
	"github.com/kailas-cloud/tripagent/internal/domain"
	logpkg "github.com/kailas-cloud/tripagent/internal/logger"
	"github.com/kailas-cloud/tripagent/internal/metrics"
	documentrepo "github.com/kailas-cloud/tripagent/internal/repository/document"
	"github.com/kailas-cloud/tripagent/internal/repository/embcache"
	"github.com/kailas-cloud/tripagent/internal/repository/vectorstore"
	"github.com/kailas-cloud/tripagent/internal/tools"
	chiTransport "github.com/kailas-cloud/tripagent/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/tripagent/internal/transport/openai"
	agentuc "github.com/kailas-cloud/tripagent/internal/usecase/agent"
	documentuc "github.com/kailas-cloud/tripagent/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/tripagent/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/tripagent/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tripagent/internal/usecase/search"
	tooluc "github.com/kailas-cloud/tripagent/internal/usecase/tool"
	"github.com/kailas-cloud/tripagent/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tripagent API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("db_enabled", cfg.Database.Enabled),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("llm_model", cfg.LLM.Model),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterAgentMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	// Optional persistence. Without it documents live in memory only.
	var store db.Store
	if cfg.Database.Enabled {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err), zap.String("driver", cfg.Database.Driver))
		}
		store = redisStore
		logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	// Embedding provider. nil means every vector comes from the hash fallback.
	var provider *openaiTransport.Embedder
	switch {
	case cfg.Embedding.Provider == "hash":
		logger.Warn("Embedding provider disabled, search runs in degraded mode")
	case cfg.Embedding.APIKey == "":
		logger.Warn("Embedding API key is empty, search runs in degraded mode")
	default:
		provider = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
			Logger:     logger,
		})
	}

	docEmbedder := buildEmbedder(cfg.Embedding, provider, cfg.Embedding.DocumentInstruction, store, logger)
	queryEmbedder := buildEmbedder(cfg.Embedding, provider, cfg.Embedding.QueryInstruction, store, logger)

	// Knowledge base
	dims := cfg.Embedding.Dimensions
	if dims == 0 {
		dims = domain.DefaultVectorConfig().Dimensions
	}
	docSvc := documentuc.New(vectorstore.New(dims), docEmbedder, queryEmbedder, dims).
		WithConcurrency(cfg.Retrieval.EmbedConcurrency).
		WithLogger(logger)
	if cfg.Retrieval.DisableSeed {
		docSvc.WithSeed(nil)
	}
	if store != nil {
		docSvc.WithPersister(documentrepo.New(store))
		n, err := docSvc.Warm(ctx)
		if err != nil {
			logger.Fatal("Failed to load persisted documents", zap.Error(err))
		}
		logger.Info("Loaded persisted documents", zap.Int("documents", n))
	}
	searchSvc := searchuc.New(docSvc).WithDefaultTopK(cfg.Retrieval.DefaultTopK)

	// Tools, built once and registered explicitly
	registry := tooluc.NewRegistry(logger)
	toolCount, err := tools.Register(registry, tools.Deps{Search: searchSvc})
	if err != nil {
		logger.Fatal("Failed to register tools", zap.Error(err))
	}

	// Agent
	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM API key is empty, every turn will fall back")
	}
	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:      logger,
	})
	orchestrator := agentuc.New(generator, registry, logger).
		WithApology(cfg.Agent.Apology).
		WithRetriever(searchSvc, cfg.Retrieval.GroundingSnippets)
	logger.Info("Agent ready",
		zap.Int("tools", toolCount),
		zap.Int("grounding_snippets", cfg.Retrieval.GroundingSnippets),
	)

	// Health. Pass nil interfaces, not typed nil pointers, for absent components.
	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	var embChecker healthuc.Checker
	if provider != nil {
		embChecker = provider
	}
	healthSvc := healthuc.New(dbPinger, embChecker, generator)

	server := chiTransport.NewServer(orchestrator, docSvc, searchSvc, registry, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain:
// OpenAI -> Cached -> Instrumented -> Fallback(hash) -> Instruction.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	provider *openaiTransport.Embedder,
	instruction string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	var primary domain.Embedder
	if provider != nil {
		primary = provider
		if cfg.Cache && store != nil {
			namespace := fmt.Sprintf("%s:%d", cfg.Model, cfg.Dimensions)
			primary = embcache.New(primary, store, namespace, metrics.EmbeddingCacheTotal, logger)
		}
		primary = embeddinguc.NewInstrumentedEmbedder(primary, cfg.Provider, cfg.Model, logger)
	}

	// Fallback (degraded hash vectors when the provider is missing or failing)
	var embedder domain.Embedder = embeddinguc.NewFallbackEmbedder(
		primary, embeddinguc.NewHashEmbedder(cfg.Dimensions), logger,
	)

	// Instruction prefix (outermost, so the cache key includes it)
	if instruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}
