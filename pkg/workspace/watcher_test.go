package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherInvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", "class Alpha {}\n")

	ws := newTestWorkspace(t, dir)

	options := DefaultWatchOptions()
	options.DebounceMs = 50
	watcher, err := NewWatcher(ws, options, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	t.Cleanup(func() { watcher.Stop() })

	query := Query{Kind: "class", Name: "Alpha"}
	first, err := ws.SearchFile(path, query)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, ws.Stats().CachedResults)

	require.NoError(t, os.WriteFile(path, []byte("// moved\nclass Alpha {}\n"), 0o644))

	// Debounce delay plus slack for the event to arrive.
	assert.Eventually(t, func() bool {
		return ws.Stats().CachedResults == 0
	}, 2*time.Second, 20*time.Millisecond)

	second, err := ws.SearchFile(path, query)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Range.Start)
}

func TestWatcherIgnoresNonSourceFiles(t *testing.T) {
	dir := t.TempDir()
	ws := newTestWorkspace(t, dir)

	options := DefaultWatchOptions()
	options.DebounceMs = 20
	watcher, err := NewWatcher(ws, options, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	t.Cleanup(func() { watcher.Stop() })

	writeFile(t, dir, "README.md", "hello")
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 0, watcher.Stats().PendingInvalidations)
}

func TestWatcherStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	ws := newTestWorkspace(t, dir)

	watcher, err := NewWatcher(ws, DefaultWatchOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())

	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.Stats().IsRunning)
}

func TestWatcherWatchesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	path := writeFile(t, dir, "src/b.ts", "class Beta {}\n")

	ws := newTestWorkspace(t, dir)

	options := DefaultWatchOptions()
	options.DebounceMs = 50
	watcher, err := NewWatcher(ws, options, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	t.Cleanup(func() { watcher.Stop() })

	_, err = ws.SearchFile(path, Query{Kind: "class", Name: "Beta"})
	require.NoError(t, err)
	require.Equal(t, 1, ws.Stats().CachedResults)

	require.NoError(t, os.WriteFile(path, []byte("\nclass Beta {}\n"), 0o644))

	assert.Eventually(t, func() bool {
		return ws.Stats().CachedResults == 0
	}, 2*time.Second, 20*time.Millisecond)
}
