package librank

import "errors"

var (
	// ErrConfigRequired is returned when a configuration is not provided.
	ErrConfigRequired = errors.New("config required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
