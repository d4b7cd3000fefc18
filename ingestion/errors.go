package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidCorpus is returned when a corpus file cannot be read or parsed.
	ErrInvalidCorpus = errors.New("invalid corpus")

	// ErrBatchFailed is returned when at least one batch could not be written.
	ErrBatchFailed = errors.New("batch write failed")
)
