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


package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses all whitespace runs to single spaces and trims the
// surrounding whitespace.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Extractor converts document files into whitespace-normalized plain text.
//
// Extraction failures are absorbed: an unreadable file or a corrupt page
// yields whatever text could be recovered (possibly the empty string) and
// a log entry, never an error. Ranking must keep going when a single
// library document is broken.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExtractor creates a new extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Text extracts and normalizes the text of the file at path.
// PDF files are extracted page by page; everything else is read as plain
// text through the langchaingo text loader.
func (e *Extractor) Text(ctx context.Context, path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.pdfText(path)
	default:
		return e.plainText(ctx, path)
	}
}

func (e *Extractor) plainText(ctx context.Context, path string) string {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Warn("skipping unreadable file", "path", path, "err", err)
		return ""
	}
	defer f.Close()

	docs, err := documentloaders.NewText(f).Load(ctx)
	if err != nil {
		e.logger.Warn("skipping broken text file", "path", path, "err", err)
		return ""
	}

	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.PageContent)
	}
	return CleanText(strings.Join(parts, " "))
}
