package ragdesk

import (
	"errors"

	"github.com/kailas-cloud/ragdesk/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidDomain           = domain.ErrInvalidDomain
	ErrEmptyDocument           = domain.ErrEmptyDocument
	ErrDomainNotFound          = domain.ErrDomainNotFound
	ErrVectorDimMismatch       = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError  = domain.ErrEmbeddingProviderError
	ErrCompletionProviderError = domain.ErrCompletionProviderError
)

// ErrNoRelevantDocuments is returned by Ask and Retrieve when no chunk was found.
// It wraps ErrDomainNotFound when the domain was never ingested.
var ErrNoRelevantDocuments = errors.New("no relevant documents found")
