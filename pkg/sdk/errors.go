package tripagent

import "github.com/kailas-cloud/tripagent/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrInvalidDocument        = domain.ErrInvalidDocument
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrInvalidTool            = domain.ErrInvalidTool
)
