package ingestion

import "errors"

var (
	// ErrVectorStoreRequired indicates the pipeline was constructed without a vector store.
	ErrVectorStoreRequired = errors.New("vector store is required")

	// ErrHashStoreRequired indicates the pipeline was constructed without a hash store.
	ErrHashStoreRequired = errors.New("hash store is required")

	// ErrAIProviderRequired indicates the pipeline was constructed without an AI provider.
	ErrAIProviderRequired = errors.New("AI provider is required")

	// ErrInvalidMaxAttempts indicates a retry was requested with a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
