package rank

import (
	"log/slog"
	"slices"

	"github.com/poiesic/librank/core"
	"github.com/poiesic/librank/index"
)

// DefaultTopK is the number of nearest chunk matches the engine folds
// into document scores.
const DefaultTopK = 50

// Engine scores library documents against an intent vector.
//
// A document's score is the mean similarity of only those of its chunks
// that appeared among the top-K matches. Chunks outside the top K do
// not dilute the mean.
type Engine struct {
	index  *index.Index
	topK   int
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTopK sets the number of chunk matches considered per ranking.
// Default is DefaultTopK.
func WithTopK(k int) EngineOption {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates a ranking engine over the given index.
func NewEngine(ix *index.Index, opts ...EngineOption) (*Engine, error) {
	if ix == nil {
		return nil, ErrIndexRequired
	}
	e := &Engine{
		index:  ix,
		topK:   DefaultTopK,
		logger: slog.Default().With("component", "ranking-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rank searches the index with the intent vector and aggregates the
// chunk hits into per-document scores, descending. Documents tied on
// score keep the order in which they were first seen among the hits.
// An empty index yields an empty ranking.
func (e *Engine) Rank(intent []float32) ([]core.RankedResult, error) {
	hits, err := e.index.Search(intent, e.topK)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		e.logger.Warn("no chunk matches, ranking is empty")
		return nil, nil
	}

	type accum struct {
		sum   float64
		count int
	}
	order := make([]string, 0, len(hits))
	byDoc := make(map[string]*accum, len(hits))
	for _, h := range hits {
		doc := e.index.Record(h.Position).Document
		a, ok := byDoc[doc]
		if !ok {
			a = &accum{}
			byDoc[doc] = a
			order = append(order, doc)
		}
		a.sum += float64(h.Score)
		a.count++
	}

	results := make([]core.RankedResult, len(order))
	for i, doc := range order {
		a := byDoc[doc]
		results[i] = core.RankedResult{
			Document: doc,
			Score:    float32(a.sum / float64(a.count)),
		}
	}

	slices.SortStableFunc(results, func(a, b core.RankedResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	e.logger.Info("library ranked", "documents", len(results), "chunk_hits", len(hits))
	return results, nil
}
