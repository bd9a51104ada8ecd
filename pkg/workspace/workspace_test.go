package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/codefind/pkg/finder"
	"github.com/gnana997/codefind/pkg/parser"
	"github.com/gnana997/codefind/pkg/parser/queries"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestWorkspace(t *testing.T, root string) *Workspace {
	t.Helper()
	return newTestWorkspaceConfig(t, root, DefaultConfig())
}

func newTestWorkspaceConfig(t *testing.T, root string, config Config) *Workspace {
	t.Helper()
	pm := parser.NewManager(nil)
	t.Cleanup(func() { pm.Close() })
	qm := queries.NewManager(pm, nil)
	t.Cleanup(func() { qm.Close() })
	f := finder.NewFinder(pm, qm, nil)

	ws, err := New(root, f, config, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestSearchFindsClassAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "class Alpha {\n  run() {}\n}\n")
	writeFile(t, dir, "sub/b.ts", "class Beta {\n  run() {}\n}\n")
	writeFile(t, dir, "notes.md", "class Beta { not code }\n")

	ws := newTestWorkspace(t, dir)

	matches, stats, err := ws.Search(context.Background(), Query{Kind: "class", Name: "Beta"}, nil)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(dir, "sub/b.ts"), matches[0].FilePath)
	assert.Equal(t, finder.LineRange{Start: 1, End: 3}, matches[0].Range)
	assert.Equal(t, 2, stats.FilesDiscovered, "markdown file is not discovered")
	assert.Equal(t, 2, stats.FilesSearched)
	assert.Zero(t, stats.FilesFailed)
}

func TestSearchExcludesNodeModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "class Alpha {}\n")
	writeFile(t, dir, "node_modules/dep/index.ts", "class Alpha {}\n")

	ws := newTestWorkspace(t, dir)

	matches, stats, err := ws.Search(context.Background(), Query{Kind: "class", Name: "Alpha"}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, stats.FilesDiscovered)
}

func TestSearchListMethods(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "class A {\n  one() {}\n  two() {}\n}\n")

	ws := newTestWorkspace(t, dir)

	matches, _, err := ws.Search(context.Background(), Query{Kind: "methods", ClassName: "A"}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "one", matches[0].Name)
	assert.Equal(t, "two", matches[1].Name)
}

func TestSearchFileCaching(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", "class Alpha {}\n")

	ws := newTestWorkspace(t, dir)
	query := Query{Kind: "class", Name: "Alpha"}

	first, err := ws.SearchFile(path, query)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := ws.SearchFile(path, query)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := ws.Stats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
}

func TestSearchFileCacheInvalidatedByContentChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", "class Alpha {}\n")

	ws := newTestWorkspace(t, dir)
	query := Query{Kind: "class", Name: "Alpha"}

	first, err := ws.SearchFile(path, query)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Invalidate so the mapped buffer is re-read, then change content.
	writeFile(t, dir, "a.ts", "// gone\nclass Alpha {}\n")
	ws.Invalidate(path)

	second, err := ws.SearchFile(path, query)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, finder.LineRange{Start: 2, End: 2}, second[0].Range)
}

func TestSearchFileJavaScriptDialect(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "counter.js", "class Counter {\n  inc() {}\n}\n")

	ws := newTestWorkspace(t, dir)

	matches, err := ws.SearchFile(path, Query{Kind: "method", Name: "inc", ClassName: "Counter"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, finder.LineRange{Start: 2, End: 2}, matches[0].Range)
}

func TestSearchFileUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", "class Alpha {}\n")

	ws := newTestWorkspace(t, dir)

	_, err := ws.SearchFile(path, Query{Kind: "nonsense", Name: "x"})
	assert.Error(t, err)
}

func TestSearchMissingFileReportsError(t *testing.T) {
	dir := t.TempDir()
	ws := newTestWorkspace(t, dir)

	_, err := ws.SearchFile(filepath.Join(dir, "missing.ts"), Query{Kind: "class", Name: "X"})
	assert.Error(t, err)
}

func TestDiscoverFilesPatternValidation(t *testing.T) {
	dir := t.TempDir()
	ws := newTestWorkspace(t, dir)
	ws.config.Scan.Include = []string{"[invalid"}

	_, _, err := ws.Search(context.Background(), Query{Kind: "class", Name: "X"}, nil)
	assert.Error(t, err)
}

func TestSearchBeyondSourceCacheCap(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		writeFile(t, dir, fmt.Sprintf("f%02d.ts", i), "class Target {\n  run() {}\n}\n")
	}

	config := DefaultConfig()
	config.MaxMappedFiles = 4
	ws := newTestWorkspaceConfig(t, dir, config)

	matches, stats, err := ws.Search(context.Background(), Query{Kind: "class", Name: "Target"}, nil)
	require.NoError(t, err)

	// Every file past the cap is still searched, just never kept mapped.
	assert.Len(t, matches, 12)
	assert.Equal(t, 12, stats.FilesSearched)
	assert.Zero(t, stats.FilesFailed)
	assert.LessOrEqual(t, ws.Stats().MappedFiles, 4)
}

func TestSearchReturnsAfterContextCancellation(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 40; i++ {
		writeFile(t, dir, fmt.Sprintf("f%02d.ts", i), "class Target {}\n")
	}

	ws := newTestWorkspace(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, _, err := ws.Search(ctx, Query{Kind: "class", Name: "Target"},
			func(searched, total int, file string) { cancel() })
		errCh <- err
	}()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("search did not return after context cancellation")
	}
}

func TestFileErrorMarshalJSON(t *testing.T) {
	b, err := json.Marshal([]FileError{
		{FilePath: "a.ts", Error: errors.New("parse failed")},
		{FilePath: "b.ts"},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"file_path":"a.ts","error":"parse failed"},{"file_path":"b.ts","error":""}]`,
		string(b))
}

func TestSearchProgressCallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "class A {}\n")
	writeFile(t, dir, "b.ts", "class B {}\n")

	ws := newTestWorkspace(t, dir)

	var calls int
	_, _, err := ws.Search(context.Background(), Query{Kind: "class", Name: "A"},
		func(searched, total int, file string) {
			calls++
			assert.Equal(t, 2, total)
		})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
