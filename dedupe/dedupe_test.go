package dedupe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *HashCache {
	t.Helper()
	cache, err := OpenCache("", true)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestHashCache_SeenAdd(t *testing.T) {
	cache := openTestCache(t)

	seen, err := cache.Seen("abc123")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, cache.Add("abc123", "doc.pdf"))

	seen, err = cache.Seen("abc123")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestNew_RequiresCache(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrCacheRequired)
}

func TestDeduper_CopyUnique(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, src, "a.txt", "identical content")
	writeFile(t, src, "b.txt", "identical content")
	writeFile(t, src, "c.txt", "different content")

	d, err := New(openTestCache(t))
	require.NoError(t, err)

	copied, err := d.CopyUnique(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name())
	assert.Equal(t, "c.txt", entries[1].Name())
}

func TestDeduper_CopyUnique_CacheSurvivesRuns(t *testing.T) {
	cache := openTestCache(t)
	d, err := New(cache)
	require.NoError(t, err)

	first := t.TempDir()
	writeFile(t, first, "a.txt", "shared content")

	dst := t.TempDir()
	copied, err := d.CopyUnique(context.Background(), first, dst)
	require.NoError(t, err)
	require.Equal(t, 1, copied)

	// A second run over a different directory with the same content
	// copies nothing.
	second := t.TempDir()
	writeFile(t, second, "renamed.txt", "shared content")

	copied, err = d.CopyUnique(context.Background(), second, dst)
	require.NoError(t, err)
	assert.Zero(t, copied)
}

func TestDeduper_CopyUnique_NameCollision(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, src, "doc.txt", "fresh content")
	writeFile(t, dst, "doc.txt", "existing unrelated file")

	d, err := New(openTestCache(t))
	require.NoError(t, err)

	copied, err := d.CopyUnique(context.Background(), src, dst)
	require.NoError(t, err)
	require.Equal(t, 1, copied)

	data, err := os.ReadFile(filepath.Join(dst, "doc_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fresh content", string(data))
}

func TestDeduper_CopyUnique_ExtensionFilter(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, src, "keep.pdf", "%PDF-1.4 garbage, hashed as raw bytes")
	writeFile(t, src, "skip.log", "log noise")

	d, err := New(openTestCache(t), WithExtensions("pdf"))
	require.NoError(t, err)

	copied, err := d.CopyUnique(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, copied)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.pdf", entries[0].Name())
}

func TestDeduper_Combine(t *testing.T) {
	run1 := t.TempDir()
	run2 := t.TempDir()
	dst := t.TempDir()
	writeFile(t, run1, "01_alpha.txt", "alpha")
	writeFile(t, run1, "02_beta.txt", "beta")
	writeFile(t, run2, "01_beta.txt", "beta")
	writeFile(t, run2, "02_gamma.txt", "gamma")

	d, err := New(openTestCache(t))
	require.NoError(t, err)

	copied, err := d.Combine(context.Background(), []string{run1, run2}, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, copied)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha.txt", entries[0].Name())
	assert.Equal(t, "beta.txt", entries[1].Name())
	assert.Equal(t, "gamma.txt", entries[2].Name())
}

func TestDeduper_Combine_SkipsContentAlreadyInDestination(t *testing.T) {
	run := t.TempDir()
	dst := t.TempDir()
	writeFile(t, run, "01_alpha.txt", "alpha")
	writeFile(t, dst, "alpha.txt", "alpha")

	d, err := New(openTestCache(t))
	require.NoError(t, err)

	copied, err := d.Combine(context.Background(), []string{run}, dst)
	require.NoError(t, err)
	assert.Zero(t, copied)
}

func TestDeduper_Combine_NameCollisionDistinctContent(t *testing.T) {
	run1 := t.TempDir()
	run2 := t.TempDir()
	dst := t.TempDir()
	writeFile(t, run1, "01_doc.txt", "first edition")
	writeFile(t, run2, "01_doc.txt", "second edition")

	d, err := New(openTestCache(t))
	require.NoError(t, err)

	copied, err := d.Combine(context.Background(), []string{run1, run2}, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	data, err := os.ReadFile(filepath.Join(dst, "doc_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second edition", string(data))
}

func TestDeduper_Combine_MissingDir(t *testing.T) {
	d, err := New(openTestCache(t))
	require.NoError(t, err)

	_, err = d.Combine(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, t.TempDir())
	require.Error(t, err)
}
