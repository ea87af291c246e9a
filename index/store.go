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


package index

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/librank/core"
)

const (
	vectorsFile  = "vectors.bin"
	metadataFile = "metadata.bin"
)

// Exists reports whether both companion artifacts are present in dir.
func Exists(dir string) bool {
	for _, name := range []string{vectorsFile, metadataFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Save writes the index to dir as the two companion artifacts. The
// directory is created if it does not exist.
func (ix *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	size := varint.Int.Size(len(ix.vectors))
	for _, v := range ix.vectors {
		size += core.VectorMUS.Size(v)
	}
	bs := make([]byte, size)
	n := varint.Int.Marshal(len(ix.vectors), bs)
	for _, v := range ix.vectors {
		n += core.VectorMUS.Marshal(v, bs[n:])
	}
	if err := os.WriteFile(filepath.Join(dir, vectorsFile), bs, 0o644); err != nil {
		return fmt.Errorf("writing vector store: %w", err)
	}

	size = varint.Int.Size(len(ix.meta))
	for _, r := range ix.meta {
		size += core.ChunkRecordMUS.Size(r)
	}
	bs = make([]byte, size)
	n = varint.Int.Marshal(len(ix.meta), bs)
	for _, r := range ix.meta {
		n += core.ChunkRecordMUS.Marshal(r, bs[n:])
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), bs, 0o644); err != nil {
		return fmt.Errorf("writing metadata table: %w", err)
	}

	ix.logger.Info("index saved", "dir", dir, "chunks", len(ix.vectors))
	return nil
}

// Load reads a previously saved index from dir. Both artifacts must be
// present and agree on the number of chunks; anything else is an error.
func Load(dir string) (*Index, error) {
	vecPath := filepath.Join(dir, vectorsFile)
	metaPath := filepath.Join(dir, metadataFile)

	vecExists := fileExists(vecPath)
	metaExists := fileExists(metaPath)
	if vecExists != metaExists {
		return nil, fmt.Errorf("%w: in %s", ErrIncompleteIndex, dir)
	}
	if !vecExists {
		return nil, fmt.Errorf("no index at %s: %w", dir, os.ErrNotExist)
	}

	logger := slog.Default().With("component", "index")

	bs, err := os.ReadFile(vecPath)
	if err != nil {
		return nil, fmt.Errorf("reading vector store: %w", err)
	}
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: vector count: %v", ErrCorruptIndex, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative vector count", ErrCorruptIndex)
	}
	vectors := make([][]float32, count)
	dim := 0
	for i := 0; i < count; i++ {
		var n1 int
		vectors[i], n1, err = core.VectorMUS.Unmarshal(bs[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector %d: %v", ErrCorruptIndex, i, err)
		}
		n += n1
		if i == 0 {
			dim = len(vectors[i])
		} else if len(vectors[i]) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				ErrCorruptIndex, i, len(vectors[i]), dim)
		}
	}

	bs, err = os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata table: %w", err)
	}
	metaCount, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: record count: %v", ErrCorruptIndex, err)
	}
	if metaCount != count {
		return nil, fmt.Errorf("%w: %d vectors but %d metadata records",
			ErrCorruptIndex, count, metaCount)
	}
	meta := make([]core.ChunkRecord, metaCount)
	for i := 0; i < metaCount; i++ {
		var n1 int
		meta[i], n1, err = core.ChunkRecordMUS.Unmarshal(bs[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorruptIndex, i, err)
		}
		n += n1
	}

	logger.Info("index loaded", "dir", dir, "chunks", count, "dimension", dim)
	return &Index{
		dim:     dim,
		vectors: vectors,
		meta:    meta,
		logger:  logger,
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
