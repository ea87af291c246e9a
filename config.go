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
	"errors"

	"github.com/poiesic/librank/chunk"
	"github.com/poiesic/librank/index"
	"github.com/poiesic/librank/materialize"
	"github.com/poiesic/librank/rank"
)

// Config holds the directories and tuning knobs of a ranking run.
type Config struct {
	// LibraryDir holds the document collection to rank.
	LibraryDir string

	// QueryDir holds the documents that together express the reader's
	// interest.
	QueryDir string

	// OutputDir receives the top ranked documents with rank prefixes.
	OutputDir string

	// IndexDir holds the persisted embedding index artifacts.
	IndexDir string

	// ChunkWords is the target chunk size in words.
	ChunkWords int

	// ChunkOverlap is the number of trailing words carried into the
	// next chunk.
	ChunkOverlap int

	// MinChunkWords filters out chunks at or below this word count.
	MinChunkWords int

	// TopK is the number of chunk matches folded into document scores.
	TopK int

	// TopCopy is the number of ranked documents copied to OutputDir.
	TopCopy int

	// EmbedBatchSize is the number of chunks embedded per request.
	EmbedBatchSize int

	// Rebuild forces a fresh index build even when saved artifacts
	// exist.
	Rebuild bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithLibraryDir sets the library directory.
func WithLibraryDir(dir string) ConfigOption {
	return func(c *Config) { c.LibraryDir = dir }
}

// WithQueryDir sets the query directory.
func WithQueryDir(dir string) ConfigOption {
	return func(c *Config) { c.QueryDir = dir }
}

// WithOutputDir sets the ranking output directory.
func WithOutputDir(dir string) ConfigOption {
	return func(c *Config) { c.OutputDir = dir }
}

// WithIndexDir sets the index artifact directory.
func WithIndexDir(dir string) ConfigOption {
	return func(c *Config) { c.IndexDir = dir }
}

// WithChunking sets the chunking parameters. Non-positive values keep
// the defaults.
func WithChunking(words, overlap, minWords int) ConfigOption {
	return func(c *Config) {
		if words > 0 {
			c.ChunkWords = words
		}
		if overlap > 0 {
			c.ChunkOverlap = overlap
		}
		if minWords > 0 {
			c.MinChunkWords = minWords
		}
	}
}

// WithTopK sets the number of chunk matches per ranking.
func WithTopK(k int) ConfigOption {
	return func(c *Config) {
		if k > 0 {
			c.TopK = k
		}
	}
}

// WithTopCopy sets the number of ranked documents copied.
func WithTopCopy(n int) ConfigOption {
	return func(c *Config) {
		if n > 0 {
			c.TopCopy = n
		}
	}
}

// WithEmbedBatchSize sets the embedding batch size.
func WithEmbedBatchSize(n int) ConfigOption {
	return func(c *Config) {
		if n > 0 {
			c.EmbedBatchSize = n
		}
	}
}

// WithRebuild forces a fresh index build.
func WithRebuild(rebuild bool) ConfigOption {
	return func(c *Config) { c.Rebuild = rebuild }
}

// DefaultConfig returns a Config with the standard tuning values.
// Directories have no defaults and must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		ChunkWords:     chunk.DefaultChunkWords,
		ChunkOverlap:   chunk.DefaultOverlapWords,
		MinChunkWords:  chunk.DefaultMinWords,
		TopK:           rank.DefaultTopK,
		TopCopy:        materialize.DefaultTopCopy,
		EmbedBatchSize: index.DefaultBatchSize,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is complete for a ranking run.
func (c *Config) Validate() error {
	if c.LibraryDir == "" {
		return errors.New("config: LibraryDir is required")
	}
	if c.QueryDir == "" {
		return errors.New("config: QueryDir is required")
	}
	if c.OutputDir == "" {
		return errors.New("config: OutputDir is required")
	}
	if c.IndexDir == "" {
		return errors.New("config: IndexDir is required")
	}
	if c.ChunkOverlap >= c.ChunkWords {
		return errors.New("config: ChunkOverlap must be smaller than ChunkWords")
	}
	return nil
}

// ValidateIndex checks that the configuration is complete for building
// or loading the index without running a full ranking.
func (c *Config) ValidateIndex() error {
	if c.LibraryDir == "" {
		return errors.New("config: LibraryDir is required")
	}
	if c.IndexDir == "" {
		return errors.New("config: IndexDir is required")
	}
	if c.ChunkOverlap >= c.ChunkWords {
		return errors.New("config: ChunkOverlap must be smaller than ChunkWords")
	}
	return nil
}
