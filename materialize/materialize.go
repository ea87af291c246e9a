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


// Package materialize copies the top ranked documents into an output
// directory with rank-order file name prefixes.
package materialize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/librank/core"
)

// DefaultTopCopy is the number of ranked documents copied by default.
const DefaultTopCopy = 30

// Materializer copies ranked documents to an output directory. File
// names gain a two-digit rank prefix so a plain directory listing shows
// the ranking order.
type Materializer struct {
	topCopy int
	logger  *slog.Logger
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithTopCopy sets how many of the top ranked documents are copied.
// Default is DefaultTopCopy.
func WithTopCopy(n int) Option {
	return func(m *Materializer) {
		if n > 0 {
			m.topCopy = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Materializer) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// New creates a Materializer.
func New(opts ...Option) *Materializer {
	m := &Materializer{
		topCopy: DefaultTopCopy,
		logger:  slog.Default().With("component", "materializer"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Copy copies the top ranked documents from srcDir into dstDir and
// returns the number of files copied. A document that cannot be copied
// is logged and skipped; it still consumes its rank position. The
// destination directory is created if needed.
func (m *Materializer) Copy(results []core.RankedResult, srcDir, dstDir string) (int, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	limit := m.topCopy
	if len(results) < limit {
		limit = len(results)
	}

	copied := 0
	for i := 0; i < limit; i++ {
		doc := results[i].Document
		src := filepath.Join(srcDir, doc)
		dst := filepath.Join(dstDir, fmt.Sprintf("%02d_%s", i+1, doc))

		if err := copyFile(src, dst); err != nil {
			m.logger.Warn("skipping document", "document", doc, "error", err)
			continue
		}
		copied++
	}

	m.logger.Info("ranked documents materialized", "copied", copied, "dir", dstDir)
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
