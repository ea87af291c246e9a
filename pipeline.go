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


package librank

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/poiesic/librank/ai"
	"github.com/poiesic/librank/chunk"
	"github.com/poiesic/librank/core"
	"github.com/poiesic/librank/extract"
	"github.com/poiesic/librank/index"
	"github.com/poiesic/librank/materialize"
	"github.com/poiesic/librank/rank"
)

// RunResult is the outcome of one ranking run.
type RunResult struct {
	// Ranking holds every scored library document, descending.
	Ranking []core.RankedResult

	// Copied is the number of documents materialized to the output
	// directory.
	Copied int
}

// Pipeline wires the ranking stages together over one configuration.
type Pipeline struct {
	config    *Config
	embedder  ai.Embedder
	extractor *extract.Extractor
	chunker   *chunk.Chunker
	logger    *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPipeline creates a ranking pipeline. The configuration must pass
// Validate.
func NewPipeline(cfg *Config, embedder ai.Embedder, opts ...PipelineOption) (*Pipeline, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if err := cfg.ValidateIndex(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		config:    cfg,
		embedder:  embedder,
		extractor: extract.NewExtractor(),
		chunker:   chunk.NewChunker(cfg.ChunkWords, cfg.ChunkOverlap, cfg.MinChunkWords),
		logger:    slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the full ranking: ensure the index, pool the query
// intent, rank the library and materialize the top documents. An empty
// library degrades to an empty ranking; an empty query set is an error.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	ix, err := p.EnsureIndex(ctx)
	if err != nil {
		return nil, err
	}

	queryChunks, err := p.loadChunks(ctx, p.config.QueryDir)
	if err != nil {
		return nil, fmt.Errorf("loading query documents: %w", err)
	}

	aggregator, err := rank.NewAggregator(p.embedder)
	if err != nil {
		return nil, err
	}
	intent, err := aggregator.Intent(ctx, queryChunks)
	if err != nil {
		return nil, err
	}

	engine, err := rank.NewEngine(ix, rank.WithTopK(p.config.TopK))
	if err != nil {
		return nil, err
	}
	ranking, err := engine.Rank(intent)
	if err != nil {
		return nil, err
	}

	copied, err := materialize.New(materialize.WithTopCopy(p.config.TopCopy)).
		Copy(ranking, p.config.LibraryDir, p.config.OutputDir)
	if err != nil {
		return nil, err
	}

	p.logger.Info("ranking run complete", "ranked", len(ranking), "copied", copied)
	return &RunResult{Ranking: ranking, Copied: copied}, nil
}

// EnsureIndex returns the library index, loading saved artifacts when
// they exist and building from the library otherwise. The Rebuild flag
// forces a fresh build. Saved artifacts are never checked against the
// current library contents.
func (p *Pipeline) EnsureIndex(ctx context.Context) (*index.Index, error) {
	if !p.config.Rebuild && index.Exists(p.config.IndexDir) {
		return index.Load(p.config.IndexDir)
	}
	return p.BuildIndex(ctx)
}

// BuildIndex builds the index from the library directory and saves it.
func (p *Pipeline) BuildIndex(ctx context.Context) (*index.Index, error) {
	chunks, err := p.loadChunks(ctx, p.config.LibraryDir)
	if err != nil {
		return nil, fmt.Errorf("loading library documents: %w", err)
	}

	builder, err := index.NewBuilder(p.embedder, index.WithBatchSize(p.config.EmbedBatchSize))
	if err != nil {
		return nil, err
	}
	ix, err := builder.Build(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := ix.Save(p.config.IndexDir); err != nil {
		return nil, err
	}
	return ix, nil
}

// loadChunks extracts and chunks every regular file in dir, in sorted
// name order. Documents that yield no text contribute no chunks.
func (p *Pipeline) loadChunks(ctx context.Context, dir string) ([]core.Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var chunks []core.Chunk
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		doc := core.Document{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		}
		doc.Text = p.extractor.Text(ctx, doc.Path)
		if doc.Text == "" {
			p.logger.Warn("document yielded no text", "document", doc.Name)
			continue
		}
		chunks = append(chunks, p.chunker.Chunk(doc)...)
	}

	p.logger.Info("documents chunked", "dir", dir, "chunks", len(chunks))
	return chunks, nil
}
