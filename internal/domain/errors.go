package domain

import "errors"

var (
	// ErrEmbeddingUnavailable indicates the embedding capability failed.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrCompletionUnavailable indicates the completion capability failed.
	ErrCompletionUnavailable = errors.New("completion unavailable")

	// ErrMalformedModelResponse indicates the model ignored the response grammar.
	ErrMalformedModelResponse = errors.New("malformed model response")

	// ErrVectorDimensionMismatch indicates vectors of different dimensions were compared.
	ErrVectorDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNoMatch indicates the AI matcher found no relevant entry.
	ErrNoMatch = errors.New("no matching entry")

	// ErrNotPlaceholder indicates an attempt to rewrite a settled message.
	ErrNotPlaceholder = errors.New("message is not a pending placeholder")
)
