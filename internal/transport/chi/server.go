// Package chi exposes the agent over HTTP using the go-chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/tripagent/internal/logger"
	"github.com/kailas-cloud/tripagent/internal/metrics"
	healthuc "github.com/kailas-cloud/tripagent/internal/usecase/health"
)

const (
	maxBatchSize     = 100
	maxMessageRunes  = 8000
	maxChatBodyBytes = 1 << 20
	maxDocBodyBytes  = 16 << 20
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the chat, knowledge base and introspection endpoints.
type Server struct {
	agent         Agent
	documents     Documents
	search        Searcher
	tools         ToolLister
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	agent Agent,
	documents Documents,
	search Searcher,
	tools ToolLister,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		agent:     agent,
		documents: documents,
		search:    search,
		tools:     tools,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound, false),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, ErrorCodeValidationFailed, true),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed, true),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, ErrorCodeVectorDimMismatch, false),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorCodeEmbeddingProviderError, false),
		sentinelHandler(domain.ErrGenerationFailed,
			http.StatusBadGateway, ErrorCodeGenerationProviderError, false),
	}
	return s
}

// Handler builds the router with the full middleware stack.
// apiKeys enables bearer authentication when non-empty.
func (s *Server) Handler(apiKeys []string) http.Handler {
	r := gochi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r gochi.Router) {
		r.Post("/chat", s.Chat)
		r.Post("/documents", s.UpsertDocuments)
		r.Get("/documents/{id}", s.GetDocument)
		r.Delete("/documents/{id}", s.DeleteDocument)
		r.Post("/search", s.Search)
		r.Get("/tools", s.ListTools)
	})
	return r
}

// Chat handles POST /v1/chat. The agent never fails a turn, so any
// well-formed request gets 200 with a reply.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeBody(w, r, maxChatBodyBytes, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "message is required")
		return
	}
	if utf8.RuneCountInString(req.Message) > maxMessageRunes {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("message too long (max %d characters)", maxMessageRunes))
		return
	}

	var actx domagent.Context
	if req.Context != nil {
		actx = *req.Context
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	reply := s.agent.ProcessMessage(ctx, req.Message, actx)

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

// UpsertDocuments handles POST /v1/documents.
func (s *Server) UpsertDocuments(w http.ResponseWriter, r *http.Request) {
	var req UpsertDocumentsRequest
	if !decodeBody(w, r, maxDocBodyBytes, &req) {
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "documents must not be empty")
		return
	}
	if len(req.Documents) > maxBatchSize {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("too many documents (max %d)", maxBatchSize))
		return
	}

	docs := make([]domdoc.Document, 0, len(req.Documents))
	seen := make(map[string]struct{}, len(req.Documents))
	for i, in := range req.Documents {
		doc, err := domdoc.New(in.ID, in.Content, in.Metadata)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("documents[%d]: %s", i, err.Error()))
			return
		}
		if _, dup := seen[in.ID]; dup {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("documents[%d]: duplicate id %q", i, in.ID))
			return
		}
		seen[in.ID] = struct{}{}
		docs = append(docs, doc)
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	created, err := s.documents.Upsert(ctx, docs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, UpsertDocumentsResponse{
		Upserted: len(docs),
		Created:  created,
		Total:    s.documents.Count(),
	})
}

// GetDocument handles GET /v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// DeleteDocument handles DELETE /v1/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, maxChatBodyBytes, &req) {
		return
	}
	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "top_k must not be negative")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Query(ctx, req.Query, req.TopK, filterFromRequest(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(resp.Results))
	for i, res := range resp.Results {
		items[i] = SearchResultItem{
			ID:       res.ID(),
			Score:    res.Score(),
			Content:  res.Content(),
			Metadata: res.Metadata(),
		}
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, SearchResponse{Results: items, Degraded: resp.Degraded})
}

// ListTools handles GET /v1/tools.
func (s *Server) ListTools(w http.ResponseWriter, _ *http.Request) {
	descs := s.tools.List()
	items := make([]ToolItem, len(descs))
	for i, d := range descs {
		items[i] = ToolItem{Name: d.Name, Description: d.Description, Parameters: d.Schema()}
	}
	writeJSON(w, http.StatusOK, ToolsResponse{Tools: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: s.documents.Count(),
	})
}

func filterFromRequest(req SearchRequest) filter.Filter {
	var opts []filter.Option
	if req.Type != "" {
		opts = append(opts, filter.WithType(req.Type))
	}
	if req.Location != "" {
		opts = append(opts, filter.WithLocation(req.Location))
	}
	if len(req.Tags) > 0 {
		opts = append(opts, filter.WithAnyTag(req.Tags...))
	}
	if len(req.Fields) > 0 {
		opts = append(opts, filter.WithFields(req.Fields))
	}
	return filter.New(opts...)
}

func documentToResponse(doc domdoc.Document) DocumentResponse {
	return DocumentResponse{ID: doc.ID(), Content: doc.Content(), Metadata: doc.Metadata()}
}

// decodeBody reads a JSON body of at most limit bytes. It writes the error
// response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeBadRequest, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage == nil || !usage.Used() {
		return
	}
	w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens()))
	if usage.Degraded() {
		w.Header().Set("X-Embedding-Degraded", "true")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Validation sentinels expose the full message; the rest only the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode, expose bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if expose {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
