package librank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 500, cfg.ChunkWords)
	assert.Equal(t, 80, cfg.ChunkOverlap)
	assert.Equal(t, 40, cfg.MinChunkWords)
	assert.Equal(t, 50, cfg.TopK)
	assert.Equal(t, 30, cfg.TopCopy)
	assert.Equal(t, 32, cfg.EmbedBatchSize)
	assert.False(t, cfg.Rebuild)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithLibraryDir("/lib"),
		WithQueryDir("/query"),
		WithOutputDir("/out"),
		WithIndexDir("/idx"),
		WithChunking(300, 50, 20),
		WithTopK(10),
		WithTopCopy(5),
		WithEmbedBatchSize(16),
		WithRebuild(true),
	)

	assert.Equal(t, "/lib", cfg.LibraryDir)
	assert.Equal(t, "/query", cfg.QueryDir)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, "/idx", cfg.IndexDir)
	assert.Equal(t, 300, cfg.ChunkWords)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 20, cfg.MinChunkWords)
	assert.Equal(t, 10, cfg.TopK)
	assert.Equal(t, 5, cfg.TopCopy)
	assert.Equal(t, 16, cfg.EmbedBatchSize)
	assert.True(t, cfg.Rebuild)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr string
	}{
		{
			name: "valid",
			opts: []ConfigOption{
				WithLibraryDir("/lib"), WithQueryDir("/q"),
				WithOutputDir("/o"), WithIndexDir("/i"),
			},
		},
		{
			name:    "missing library",
			opts:    []ConfigOption{WithQueryDir("/q"), WithOutputDir("/o"), WithIndexDir("/i")},
			wantErr: "LibraryDir",
		},
		{
			name:    "missing query",
			opts:    []ConfigOption{WithLibraryDir("/lib"), WithOutputDir("/o"), WithIndexDir("/i")},
			wantErr: "QueryDir",
		},
		{
			name:    "missing output",
			opts:    []ConfigOption{WithLibraryDir("/lib"), WithQueryDir("/q"), WithIndexDir("/i")},
			wantErr: "OutputDir",
		},
		{
			name:    "missing index dir",
			opts:    []ConfigOption{WithLibraryDir("/lib"), WithQueryDir("/q"), WithOutputDir("/o")},
			wantErr: "IndexDir",
		},
		{
			name: "overlap too large",
			opts: []ConfigOption{
				WithLibraryDir("/lib"), WithQueryDir("/q"),
				WithOutputDir("/o"), WithIndexDir("/i"),
				WithChunking(100, 100, 10),
			},
			wantErr: "ChunkOverlap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateIndex(t *testing.T) {
	cfg := NewConfig(WithLibraryDir("/lib"), WithIndexDir("/i"))
	require.NoError(t, cfg.ValidateIndex())

	require.Error(t, NewConfig(WithIndexDir("/i")).ValidateIndex())
	require.Error(t, NewConfig(WithLibraryDir("/lib")).ValidateIndex())
}
