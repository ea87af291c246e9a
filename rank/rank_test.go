package rank

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/poiesic/librank/ai/mock"
	"github.com/poiesic/librank/core"
	"github.com/poiesic/librank/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vectorEmbedder returns a mock whose EmbedTexts looks each text up in
// the given map. Unknown texts are an error.
func vectorEmbedder(byText map[string][]float32) *mock.MockEmbedder {
	m := mock.NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			v, ok := byText[text]
			if !ok {
				return nil, fmt.Errorf("no vector for %q", text)
			}
			out[i] = v
		}
		return out, nil
	}
	return m
}

func buildIndex(t *testing.T, chunks []core.Chunk, byText map[string][]float32) *index.Index {
	t.Helper()
	builder, err := index.NewBuilder(vectorEmbedder(byText))
	require.NoError(t, err)
	ix, err := builder.Build(context.Background(), chunks)
	require.NoError(t, err)
	return ix
}

func TestPoolIntent(t *testing.T) {
	intent, err := PoolIntent([][]float32{
		{1, 0},
		{0, 1},
	})
	require.NoError(t, err)
	require.Len(t, intent, 2)
	assert.InDelta(t, 0.5, float64(intent[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(intent[1]), 1e-6)

	// The pooled mean is not renormalized.
	norm := math.Sqrt(float64(intent[0]*intent[0] + intent[1]*intent[1]))
	assert.InDelta(t, math.Sqrt2/2, norm, 1e-6)
}

func TestPoolIntent_Empty(t *testing.T) {
	_, err := PoolIntent(nil)
	require.ErrorIs(t, err, ErrEmptyQuerySet)
}

func TestPoolIntent_DimensionMismatch(t *testing.T) {
	_, err := PoolIntent([][]float32{
		{1, 0},
		{1, 0, 0},
	})
	require.Error(t, err)
}

func TestAggregator_Intent(t *testing.T) {
	embedder := vectorEmbedder(map[string][]float32{
		"east": {2, 0}, // normalized to (1, 0)
		"up":   {0, 3}, // normalized to (0, 1)
	})
	agg, err := NewAggregator(embedder)
	require.NoError(t, err)

	intent, err := agg.Intent(context.Background(), []core.Chunk{
		{Document: "q.pdf", Text: "east"},
		{Document: "q.pdf", Text: "up"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, float64(intent[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(intent[1]), 1e-6)
}

func TestAggregator_Intent_EmptyQuerySet(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	agg, err := NewAggregator(embedder)
	require.NoError(t, err)

	_, err = agg.Intent(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyQuerySet)
	assert.Zero(t, embedder.CallCount())
}

func TestNewAggregator_RequiresEmbedder(t *testing.T) {
	_, err := NewAggregator(nil)
	require.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestNewEngine_RequiresIndex(t *testing.T) {
	_, err := NewEngine(nil)
	require.ErrorIs(t, err, ErrIndexRequired)
}

func TestEngine_Rank(t *testing.T) {
	chunks := []core.Chunk{
		{Document: "a.pdf", Text: "a1"},
		{Document: "b.pdf", Text: "b1"},
		{Document: "a.pdf", Text: "a2"},
	}
	ix := buildIndex(t, chunks, map[string][]float32{
		"a1": {1, 0},
		"b1": {0.6, 0.8},
		"a2": {0.8, 0.6},
	})

	engine, err := NewEngine(ix)
	require.NoError(t, err)

	results, err := engine.Rank([]float32{1, 0})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// a.pdf scores (1.0 + 0.8) / 2 = 0.9, b.pdf scores 0.6.
	assert.Equal(t, "a.pdf", results[0].Document)
	assert.InDelta(t, 0.9, float64(results[0].Score), 1e-5)
	assert.Equal(t, "b.pdf", results[1].Document)
	assert.InDelta(t, 0.6, float64(results[1].Score), 1e-5)
}

func TestEngine_Rank_TiesKeepDiscoveryOrder(t *testing.T) {
	chunks := []core.Chunk{
		{Document: "zz.pdf", Text: "z1"},
		{Document: "aa.pdf", Text: "a1"},
	}
	ix := buildIndex(t, chunks, map[string][]float32{
		"z1": {1, 0},
		"a1": {1, 0},
	})

	engine, err := NewEngine(ix)
	require.NoError(t, err)

	results, err := engine.Rank([]float32{1, 0})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "zz.pdf", results[0].Document)
	assert.Equal(t, "aa.pdf", results[1].Document)
}

func TestEngine_Rank_TopKLimitsChunks(t *testing.T) {
	chunks := []core.Chunk{
		{Document: "a.pdf", Text: "strong"},
		{Document: "a.pdf", Text: "weak"},
	}
	ix := buildIndex(t, chunks, map[string][]float32{
		"strong": {1, 0},
		"weak":   {0, 1},
	})

	engine, err := NewEngine(ix, WithTopK(1))
	require.NoError(t, err)

	results, err := engine.Rank([]float32{1, 0})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Only the single top chunk contributes; the weak chunk does not
	// drag the mean down.
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-5)
}

func TestEngine_Rank_EmptyIndex(t *testing.T) {
	ix := buildIndex(t, nil, nil)
	engine, err := NewEngine(ix)
	require.NoError(t, err)

	results, err := engine.Rank([]float32{1, 0})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_Rank_DeterministicAcrossRuns(t *testing.T) {
	chunks := make([]core.Chunk, 12)
	byText := make(map[string][]float32, 12)
	for i := range chunks {
		text := fmt.Sprintf("c%d", i)
		chunks[i] = core.Chunk{Document: fmt.Sprintf("d%d.pdf", i%4), Text: text}
		angle := float64(i) / 12 * math.Pi / 2
		byText[text] = []float32{float32(math.Cos(angle)), float32(math.Sin(angle))}
	}
	ix := buildIndex(t, chunks, byText)

	engine, err := NewEngine(ix)
	require.NoError(t, err)

	first, err := engine.Rank([]float32{1, 0})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := engine.Rank([]float32{1, 0})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
