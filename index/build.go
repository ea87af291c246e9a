package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/librank/ai"
	"github.com/poiesic/librank/core"
)

// DefaultBatchSize is the number of chunk texts embedded per request.
const DefaultBatchSize = 32

// Builder embeds library chunks and assembles the in-memory index.
//
// Embedding happens in fixed-size batches on a worker pool purely for
// throughput. Each batch writes into its own pre-assigned positions, so
// batch boundaries and scheduling never affect the resulting vectors or
// their order.
type Builder struct {
	embedder  ai.Embedder
	batchSize int
	poolSize  int
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBatchSize sets the embedding batch size.
// Default is DefaultBatchSize.
func WithBatchSize(size int) BuilderOption {
	return func(b *Builder) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BuilderOption {
	return func(b *Builder) {
		if size > 0 {
			b.poolSize = size
		}
	}
}

// WithBuildLogger sets a custom logger.
// Default is slog.Default().
func WithBuildLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// NewBuilder creates a new index builder.
func NewBuilder(embedder ai.Embedder, opts ...BuilderOption) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	b := &Builder{
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		poolSize:  poolSize,
		logger:    slog.Default().With("component", "index-builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build embeds every chunk, normalizes the vectors to unit length and
// assembles the index with its position-aligned metadata table. An
// empty chunk set yields a valid empty index.
func (b *Builder) Build(ctx context.Context, chunks []core.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		b.logger.Warn("no chunks to index, building empty index")
		return &Index{logger: b.logger}, nil
	}

	vectors := make([][]float32, len(chunks))

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(chunks); start += b.batchSize {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}

		end := min(start+b.batchSize, len(chunks))
		batch := chunks[start:end]
		offset := start

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, ch := range batch {
				texts[i] = ch.Text
			}

			embedded, err := b.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				fail(fmt.Errorf("embedding batch at %d: %w", offset, err))
				return
			}
			if len(embedded) != len(batch) {
				fail(fmt.Errorf("embedding batch at %d: expected %d vectors, got %d",
					offset, len(batch), len(embedded)))
				return
			}

			for i, vec := range embedded {
				vectors[offset+i] = NormalizeVector(vec)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				ErrCorruptIndex, i, len(v), dim)
		}
	}

	meta := make([]core.ChunkRecord, len(chunks))
	for i, ch := range chunks {
		meta[i] = core.ChunkRecord{Document: ch.Document, Text: ch.Text}
	}

	b.logger.Info("index built", "chunks", len(chunks), "dimension", dim)
	return &Index{
		dim:     dim,
		vectors: vectors,
		meta:    meta,
		logger:  b.logger,
	}, nil
}
