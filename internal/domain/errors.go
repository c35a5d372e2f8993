package domain

import "errors"

// Error taxonomy. Callers match with errors.Is; components wrap these
// sentinels with fmt.Errorf("...: %w", ...) to add detail.
var (
	// ErrConfig reports invalid component configuration, e.g. bad
	// chunking parameters. Caller misconfiguration, not retryable.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmbedding reports an embedding backend failure (network, quota,
	// malformed input). Propagated to the caller, never handled locally.
	ErrEmbedding = errors.New("embedding service failure")

	// ErrGeneration reports an answer-generation backend failure. This is
	// the terminal point of the pipeline; the whole request aborts.
	ErrGeneration = errors.New("generation service failure")

	// ErrEmptyIndex reports an attempt to build an index with no entries.
	ErrEmptyIndex = errors.New("vector index has no entries")

	// ErrNotFound reports a missing résumé or candidate record.
	ErrNotFound = errors.New("not found")
)
