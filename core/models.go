package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Document is a single file from the library or query directory.
// Text holds the whitespace-normalized extraction result; it may be
// empty when the file could not be read.
type Document struct {
	Name string // file name within its directory, used as the document id
	Path string
	Text string
}

// Chunk is a contiguous, word-bounded span of a document's normalized
// text. Chunks are the unit of embedding and retrieval and may overlap
// with their immediate predecessor.
type Chunk struct {
	Document string // originating document name
	Text     string
	Words    int
}

// ChunkRecord is one row of the index metadata table. Records are
// ordered and position-aligned with the vector store: record i
// describes vector i. The literal chunk text is retained so the
// retrieval agent can recover context without re-reading documents.
type ChunkRecord struct {
	Document string
	Text     string
}

// Hit is a single nearest-neighbor match from the vector store.
type Hit struct {
	Position int // vector position, aligned with the metadata table
	Score    float32
}

// RankedResult is a library document with its aggregate relevance
// score: the mean similarity of the document's chunks that appeared
// among the top-K search results.
type RankedResult struct {
	Document string
	Score    float32
}

// ContentHash returns a deterministic hex digest of text content using
// BLAKE2b. Identical content always produces an identical digest.
func ContentHash(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
