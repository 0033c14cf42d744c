package domain

import "errors"

var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a caller supplied malformed input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a source format no extractor handles.
	ErrUnsupportedType = errors.New("unsupported source type")

	// ErrInvalidConfidence indicates a confidence outside [0, 1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

	// ErrEmbeddingUnavailable indicates no embedding service is configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
