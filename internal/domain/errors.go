package domain

import "errors"

var (
	// ErrInvalidDomain signals a missing or malformed domain name.
	ErrInvalidDomain = errors.New("invalid domain name")
	// ErrInvalidRequest signals a malformed request body.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmptyDocument signals a document that produced no chunks.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrDomainNotFound signals a domain whose index was never created.
	ErrDomainNotFound = errors.New("domain not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a chat completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)
