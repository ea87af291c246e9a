package index

import (
	"log/slog"
	"slices"

	"github.com/poiesic/librank/core"
)

// Index is an exact inner-product similarity store over library chunk
// vectors with a position-aligned metadata table.
//
// Invariant: len(meta) == len(vectors) == number of retained library
// chunks, and every vector has unit L2 norm.
type Index struct {
	dim     int
	vectors [][]float32
	meta    []core.ChunkRecord
	logger  *slog.Logger
}

// Len returns the number of indexed chunk vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dimension returns the dimensionality of the indexed vectors, zero for
// an empty index.
func (ix *Index) Dimension() int {
	return ix.dim
}

// Record returns the metadata record aligned with vector position i.
func (ix *Index) Record(i int) core.ChunkRecord {
	return ix.meta[i]
}

// Search returns the k highest inner-product-scoring vectors for the
// query, in descending score order. Exact ties keep the underlying
// store order. An empty index yields no hits; a dimension mismatch is
// an error.
func (ix *Index) Search(query []float32, k int) ([]core.Hit, error) {
	if ix.Len() == 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, ErrDimensionMismatch
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]core.Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = core.Hit{Position: i, Score: dotProduct(query, v)}
	}

	slices.SortStableFunc(hits, func(a, b core.Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
