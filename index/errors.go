package index

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIncompleteIndex is returned when only one of the two companion
	// artifacts exists at the index location.
	ErrIncompleteIndex = errors.New("incomplete index: vector store and metadata table are a unit")

	// ErrCorruptIndex is returned when the artifacts disagree with each
	// other or with their own framing.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrDimensionMismatch is returned when a query vector's
	// dimensionality does not match the indexed vectors.
	ErrDimensionMismatch = errors.New("query vector dimension mismatch")
)
