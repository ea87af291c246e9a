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


// Package agent answers free-form questions against the chunk index.
//
// Retrieval is the same exact inner-product search the ranking pipeline
// uses, scoped to a handful of passages, which are then handed to a
// chat model as grounding context.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/librank/ai"
	"github.com/poiesic/librank/index"
)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 6

// Passage is one retrieved chunk with its similarity to the question.
type Passage struct {
	Document string
	Text     string
	Score    float32
}

// Agent retrieves relevant passages for a question and asks a chat
// model to answer from them.
type Agent struct {
	index    *index.Index
	embedder ai.Embedder
	answerer ai.Answerer
	topK     int
	logger   *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithTopK sets the number of passages retrieved per question.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(a *Agent) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// New creates an agent over the given index.
func New(ix *index.Index, embedder ai.Embedder, answerer ai.Answerer, opts ...Option) (*Agent, error) {
	if ix == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}

	a := &Agent{
		index:    ix,
		embedder: embedder,
		answerer: answerer,
		topK:     DefaultTopK,
		logger:   slog.Default().With("component", "agent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Retrieve returns the passages most similar to the question, in
// descending score order.
func (a *Agent) Retrieve(ctx context.Context, question string) ([]Passage, error) {
	vec, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := a.index.Search(index.NormalizeVector(vec), a.topK)
	if err != nil {
		return nil, err
	}

	passages := make([]Passage, len(hits))
	for i, h := range hits {
		rec := a.index.Record(h.Position)
		passages[i] = Passage{
			Document: rec.Document,
			Text:     rec.Text,
			Score:    h.Score,
		}
	}

	a.logger.Debug("passages retrieved", "question_len", len(question), "passages", len(passages))
	return passages, nil
}

// Answer retrieves passages for the question and asks the chat model to
// answer from them. With no retrievable passages the model is asked to
// answer from an empty context rather than failing.
func (a *Agent) Answer(ctx context.Context, question string) (string, []Passage, error) {
	passages, err := a.Retrieve(ctx, question)
	if err != nil {
		return "", nil, err
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	answer, err := a.answerer.Answer(ctx, question, texts)
	if err != nil {
		return "", nil, fmt.Errorf("generating answer: %w", err)
	}

	return answer, passages, nil
}
