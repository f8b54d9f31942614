package chi

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest              ErrorCode = "bad_request"
	ErrorCodeUnauthorized            ErrorCode = "unauthorized"
	ErrorCodeValidationFailed        ErrorCode = "validation_failed"
	ErrorCodeDocumentNotFound        ErrorCode = "document_not_found"
	ErrorCodeVectorDimMismatch       ErrorCode = "vector_dim_mismatch"
	ErrorCodeEmbeddingProviderError  ErrorCode = "embedding_provider_error"
	ErrorCodeGenerationProviderError ErrorCode = "generation_provider_error"
	ErrorCodeInternalError           ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Message string            `json:"message"`
	Context *domagent.Context `json:"context,omitempty"`
}

// ChatResponse is the body returned by POST /v1/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// DocumentInput is one document in an upsert request.
type DocumentInput struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UpsertDocumentsRequest is the body of POST /v1/documents.
type UpsertDocumentsRequest struct {
	Documents []DocumentInput `json:"documents"`
}

// UpsertDocumentsResponse reports the outcome of an upsert.
type UpsertDocumentsResponse struct {
	Upserted int `json:"upserted"`
	Created  int `json:"created"`
	Total    int `json:"total"`
}

// DocumentResponse is a stored document.
type DocumentResponse struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query    string         `json:"query"`
	TopK     int            `json:"top_k,omitempty"`
	Type     string         `json:"type,omitempty"`
	Location string         `json:"location,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// SearchResultItem is one ranked document.
type SearchResultItem struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchResponse is the body returned by POST /v1/search.
type SearchResponse struct {
	Results  []SearchResultItem `json:"results"`
	Degraded bool               `json:"degraded"`
}

// ToolItem describes one registered tool.
type ToolItem struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Parameters  jsonschema.Definition `json:"parameters"`
}

// ToolsResponse is the body returned by GET /v1/tools.
type ToolsResponse struct {
	Tools []ToolItem `json:"tools"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Documents int               `json:"documents"`
}
