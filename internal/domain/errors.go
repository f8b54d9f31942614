package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidDocument signals a document that failed validation.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrInvalidQuery signals a search query that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationFailed signals a text generation provider failure.
	ErrGenerationFailed = errors.New("text generation failed")
	// ErrToolNotFound signals a tool name missing from the registry.
	ErrToolNotFound = errors.New("tool not found")
	// ErrInvalidTool signals a malformed tool descriptor.
	ErrInvalidTool = errors.New("invalid tool")
	// ErrInvalidParameters signals tool parameters that do not satisfy the descriptor.
	ErrInvalidParameters = errors.New("invalid tool parameters")
)
