package agent

import "errors"

var (
	// ErrIndexRequired is returned when an index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrAnswererRequired is returned when an answerer is not provided.
	ErrAnswererRequired = errors.New("answerer required")
)
