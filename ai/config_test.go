package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.ChatModel)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateChat())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://localhost:9100/v1"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithChatModel("gpt-4o-mini"),
	)

	assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:9100/v1", cfg.ChatHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
}

func TestNewConfig_SplitHosts(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://localhost:11434/v1"),
		WithChatHost("http://localhost:1234/v1"),
	)

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:1234/v1", cfg.ChatHost)
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"missing suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.ChatHost)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewConfig()
	cfg.EmbeddingModel = ""
	require.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.EmbeddingHost = ""
	require.Error(t, cfg.Validate())
}

func TestConfig_ValidateChat(t *testing.T) {
	cfg := NewConfig()
	cfg.ChatModel = ""
	require.NoError(t, cfg.Validate(), "embedding-only validation should pass")
	require.Error(t, cfg.ValidateChat())

	cfg = NewConfig()
	cfg.ChatHost = ""
	require.Error(t, cfg.ValidateChat())
}
