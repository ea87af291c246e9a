package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkRecordMUS_RoundTrip(t *testing.T) {
	record := ChunkRecord{
		Document: "report.pdf",
		Text:     "The interference pattern is measured on the ancilla register.",
	}

	buf := make([]byte, ChunkRecordMUS.Size(record))
	n := ChunkRecordMUS.Marshal(record, buf)
	require.Equal(t, len(buf), n, "marshal should fill the sized buffer exactly")

	got, n, err := ChunkRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, record, got)
}

func TestChunkRecordMUS_Skip(t *testing.T) {
	a := ChunkRecord{Document: "a.pdf", Text: "first"}
	b := ChunkRecord{Document: "b.pdf", Text: "second"}

	buf := make([]byte, ChunkRecordMUS.Size(a)+ChunkRecordMUS.Size(b))
	n := ChunkRecordMUS.Marshal(a, buf)
	ChunkRecordMUS.Marshal(b, buf[n:])

	skipped, err := ChunkRecordMUS.Skip(buf)
	require.NoError(t, err)

	got, _, err := ChunkRecordMUS.Unmarshal(buf[skipped:])
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestVectorMUS_RoundTrip(t *testing.T) {
	vec := []float32{0.1, -0.5, 0.25, 1.0}

	buf := make([]byte, VectorMUS.Size(vec))
	n := VectorMUS.Marshal(vec, buf)
	require.Equal(t, len(buf), n)

	got, n, err := VectorMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, vec, got)
}

func TestVectorMUS_Empty(t *testing.T) {
	buf := make([]byte, VectorMUS.Size(nil))
	VectorMUS.Marshal(nil, buf)

	got, _, err := VectorMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash("the same content")
	b := ContentHash("the same content")
	c := ContentHash("different content")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "BLAKE2b-256 hex digest")
}
