package mock

import (
	"context"
	"strings"
)

// MockAnswerer is a test double for ai.Answerer.
// It records the last question and passages it was given.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	AnswerFunc func(ctx context.Context, question string, passages []string) (string, error)

	LastQuestion string
	LastPassages []string

	callCount int
}

// NewMockAnswerer creates a mock answerer that echoes the question.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer records the inputs and returns a canned answer.
func (m *MockAnswerer) Answer(ctx context.Context, question string, passages []string) (string, error) {
	m.callCount++
	m.LastQuestion = question
	m.LastPassages = append([]string(nil), passages...)

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, passages)
	}

	return "answer to: " + strings.TrimSpace(question), nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return m.callCount
}
