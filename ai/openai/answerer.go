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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/librank/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
type Answerer struct {
	client       llms.Model
	systemPrompt string
	logger       *slog.Logger
}

// AnswererOption configures an Answerer.
type AnswererOption func(*Answerer)

// WithSystemPrompt replaces the default research-assistant system prompt.
func WithSystemPrompt(prompt string) AnswererOption {
	return func(a *Answerer) {
		if strings.TrimSpace(prompt) != "" {
			a.systemPrompt = prompt
		}
	}
}

// newAnswerer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerer(config *ai.Config, opts ...AnswererOption) (*Answerer, error) {
	if err := config.ValidateChat(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	a := &Answerer{
		client:       client,
		systemPrompt: defaultSystemPrompt,
		logger:       slog.Default().With("component", "openai-answerer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewAnswerer creates a new answerer using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config, opts ...AnswererOption) (ai.Answerer, error) {
	return newAnswerer(config, opts...)
}

// Answer sends the question and the retrieved passages to the chat model
// and returns the model's answer text.
func (a *Answerer) Answer(ctx context.Context, question string, passages []string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(a.systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(question, passages)),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		a.logger.Debug("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
