package rank

import "errors"

var (
	// ErrEmptyQuerySet is returned when the query directory produced no
	// usable chunks. Without an intent there is nothing to rank against.
	ErrEmptyQuerySet = errors.New("query set produced no chunks")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexRequired is returned when an index is not provided.
	ErrIndexRequired = errors.New("index required")
)
