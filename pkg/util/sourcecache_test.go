package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSourceCacheGet(t *testing.T) {
	sc := NewSourceCache(0, nil)
	defer sc.Close()

	path := writeTemp(t, "a.ts", "const x = 1;\n")

	data, err := sc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "const x = 1;\n", string(data))
	assert.Equal(t, 1, sc.Size())

	// Second access hits the cache.
	again, err := sc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, data, []byte(again))
	assert.Equal(t, 1, sc.Size())
}

func TestSourceCacheEmptyFile(t *testing.T) {
	sc := NewSourceCache(0, nil)
	defer sc.Close()

	path := writeTemp(t, "empty.ts", "")

	data, err := sc.Get(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSourceCacheMissingFile(t *testing.T) {
	sc := NewSourceCache(0, nil)
	defer sc.Close()

	_, err := sc.Get(filepath.Join(t.TempDir(), "nope.ts"))
	assert.Error(t, err)
}

func TestSourceCacheLimitServesUncached(t *testing.T) {
	sc := NewSourceCache(1, nil)
	defer sc.Close()

	first := writeTemp(t, "a.ts", "let a = 1;\n")
	second := writeTemp(t, "b.ts", "let b = 2;\n")
	third := writeTemp(t, "c.ts", "let c = 3;\n")

	_, err := sc.Get(first)
	require.NoError(t, err)

	// Past the cap every file is still readable, just never retained.
	data, err := sc.Get(second)
	require.NoError(t, err)
	assert.Equal(t, "let b = 2;\n", string(data))

	data, err = sc.Get(third)
	require.NoError(t, err)
	assert.Equal(t, "let c = 3;\n", string(data))

	assert.Equal(t, 1, sc.Size())

	// Uncached reads still surface real errors.
	_, err = sc.Get(filepath.Join(t.TempDir(), "nope.ts"))
	assert.Error(t, err)
}

func TestSourceCacheEvict(t *testing.T) {
	sc := NewSourceCache(0, nil)
	defer sc.Close()

	path := writeTemp(t, "a.ts", "let a = 1;\n")
	_, err := sc.Get(path)
	require.NoError(t, err)
	require.Equal(t, 1, sc.Size())

	sc.Evict(path)
	assert.Equal(t, 0, sc.Size())

	// Re-load after evict picks up new content.
	require.NoError(t, os.WriteFile(path, []byte("let a = 2;\n"), 0644))
	data, err := sc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, "let a = 2;\n", string(data))
}
