// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/librank/ai"
	"github.com/poiesic/librank/core"
	"github.com/poiesic/librank/index"
)

// Aggregator condenses query document chunks into one intent vector.
type Aggregator struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithAggregatorLogger sets a custom logger.
// Default is slog.Default().
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// NewAggregator creates a query aggregator.
func NewAggregator(embedder ai.Embedder, opts ...AggregatorOption) (*Aggregator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	a := &Aggregator{
		embedder: embedder,
		logger:   slog.Default().With("component", "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Intent embeds every query chunk and returns the pooled intent vector.
// An empty chunk set is a fatal condition for the caller.
func (a *Aggregator) Intent(ctx context.Context, chunks []core.Chunk) ([]float32, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyQuerySet
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	embedded, err := a.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding query chunks: %w", err)
	}
	if len(embedded) != len(chunks) {
		return nil, fmt.Errorf("expected %d query vectors, got %d", len(chunks), len(embedded))
	}

	vectors := make([][]float32, len(embedded))
	for i, v := range embedded {
		vectors[i] = index.NormalizeVector(v)
	}

	intent, err := PoolIntent(vectors)
	if err != nil {
		return nil, err
	}

	a.logger.Info("intent vector pooled", "query_chunks", len(chunks))
	return intent, nil
}

// PoolIntent returns the unweighted component-wise mean of the given
// vectors. The result is not renormalized.
func PoolIntent(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyQuerySet
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
		for j, x := range v {
			sum[j] += float64(x)
		}
	}

	n := float64(len(vectors))
	intent := make([]float32, dim)
	for j, s := range sum {
		intent[j] = float32(s / n)
	}
	return intent, nil
}
