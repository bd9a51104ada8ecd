// Package workspace runs structural searches across a directory tree of
// TypeScript/JavaScript files.
//
// It layers file discovery, a worker pool, a memory-mapped source cache
// and a content-hash-validated result cache on top of the single-file
// finder. The finder itself stays stateless; everything cached lives
// here and is invalidated by the file watcher.
package workspace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/codefind/pkg/finder"
	"github.com/gnana997/codefind/pkg/parser"
	"github.com/gnana997/codefind/pkg/util"
)

// Config configures a Workspace.
type Config struct {
	// MaxCachedResults is the LRU capacity for per-file query results.
	// Default: 4096 entries.
	MaxCachedResults int

	// MaxMappedFiles caps how many files the source cache keeps mapped.
	// Default: 256.
	MaxMappedFiles int

	// Scan controls file discovery.
	Scan ScanOptions
}

// DefaultConfig returns the recommended workspace configuration.
func DefaultConfig() Config {
	return Config{
		MaxCachedResults: 4096,
		MaxMappedFiles:   256,
		Scan:             DefaultScanOptions(),
	}
}

// fileEntry is one cached query result, valid while the file's content
// hash is unchanged.
type fileEntry struct {
	ContentHash string
	Matches     []Match
}

// Workspace searches a directory tree with a shared Finder.
//
// Thread-safe: the finder is stateless, the source cache and result
// cache carry their own locking.
type Workspace struct {
	root   string
	finder *finder.Finder
	source *util.SourceCache
	cache  *lru.Cache[string, *fileEntry]
	logger *slog.Logger
	config Config

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// New creates a Workspace rooted at rootPath. The finder is shared with
// the caller; the source and result caches are owned by the Workspace
// and released by Close.
func New(rootPath string, f *finder.Finder, config Config, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxCachedResults == 0 {
		config.MaxCachedResults = 4096
	}
	if config.MaxMappedFiles == 0 {
		config.MaxMappedFiles = 256
	}
	if len(config.Scan.Include) == 0 {
		config.Scan = DefaultScanOptions()
	}

	cache, err := lru.New[string, *fileEntry](config.MaxCachedResults)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	return &Workspace{
		root:   rootPath,
		finder: f,
		source: util.NewSourceCache(config.MaxMappedFiles, logger),
		cache:  cache,
		logger: logger,
		config: config,
	}, nil
}

// Root returns the workspace root path.
func (w *Workspace) Root() string {
	return w.root
}

// Search runs one query against every matching file in the workspace.
// Per-file failures are collected into the stats, not returned as an
// error; the returned error covers discovery and setup only.
func (w *Workspace) Search(ctx context.Context, query Query, progress ProgressCallback) ([]Match, *SearchStats, error) {
	startTime := time.Now()
	stats := &SearchStats{StartTime: startTime}

	w.logger.Info("starting workspace search",
		"root", w.root,
		"kind", query.Kind,
		"name", query.Name)

	files, err := discoverFiles(w.root, w.config.Scan, w.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return nil, stats, nil
	}

	matches, err := w.searchParallel(ctx, files, query, stats, progress)
	if err != nil {
		return nil, nil, err
	}

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	w.logger.Info("workspace search complete",
		"files_searched", stats.FilesSearched,
		"files_failed", stats.FilesFailed,
		"matches", len(matches),
		"duration_ms", stats.TotalTimeMs)

	return matches, stats, nil
}

// searchParallel fans files out to the search pool and gathers results.
// The collector starts before submission so a full jobs channel can
// never deadlock the submitting goroutine. Cancelling ctx aborts the
// search; workers unwind and the context error is returned.
func (w *Workspace) searchParallel(
	ctx context.Context,
	files []string,
	query Query,
	stats *SearchStats,
	progress ProgressCallback,
) ([]Match, error) {
	totalFiles := len(files)

	pool := newSearchPool(ctx, 0, func(path string) ([]Match, error) {
		return w.SearchFile(path, query)
	}, w.logger)
	stats.WorkerCount = pool.numWorkers
	pool.start()
	defer pool.stop()

	searched := atomic.Int32{}
	failed := atomic.Int32{}

	collectCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var matches []Match
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-collectCtx.Done():
				return

			case result, ok := <-pool.results:
				if !ok {
					return
				}
				matches = append(matches, result.Matches...)
				stats.FilesSearched++

				count := searched.Add(1)
				if progress != nil {
					progress(int(count), totalFiles, result.FilePath)
				}
				if int(count)+int(failed.Load()) >= totalFiles {
					cancel()
					return
				}

			case fileErr, ok := <-pool.errors:
				if !ok {
					return
				}
				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
				w.logger.Warn("file search failed",
					"file", fileErr.FilePath,
					"error", fileErr.Error)

				count := failed.Add(1)
				if int(searched.Load())+int(count) >= totalFiles {
					cancel()
					return
				}
			}
		}
	}()

	for i, file := range files {
		if err := pool.submit(searchJob{FilePath: file, JobID: i}); err != nil {
			cancel()
			<-done
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to submit job for %s: %w", file, err)
		}
	}
	pool.finishSubmitting()

	<-done

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats.CacheHits = int(w.cacheHits.Load())
	return matches, nil
}

// SearchFile runs one query against one file, consulting the result
// cache first. A cached entry is served only while the file's content
// hash still matches.
func (w *Workspace) SearchFile(path string, query Query) ([]Match, error) {
	content, err := w.source.Get(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	hash := ContentHash(content)
	key := cacheKey(path, query)

	if entry, ok := w.cache.Get(key); ok && entry.ContentHash == hash {
		w.cacheHits.Add(1)
		return entry.Matches, nil
	}
	w.cacheMisses.Add(1)

	matches, err := w.runQuery(path, string(content), query)
	if err != nil {
		return nil, err
	}

	w.cache.Add(key, &fileEntry{ContentHash: hash, Matches: matches})
	return matches, nil
}

// runQuery dispatches one query to the finder, using the grammar family
// implied by the file extension.
func (w *Workspace) runQuery(path, source string, query Query) ([]Match, error) {
	f := w.finderFor(path)

	single := func(r finder.LineRange, err error) ([]Match, error) {
		if err != nil {
			return nil, err
		}
		if !r.Found() {
			return nil, nil
		}
		return []Match{{FilePath: path, Name: query.Name, Kind: query.Kind, Range: r}}, nil
	}

	list := func(elements []finder.Element, err error) ([]Match, error) {
		if err != nil {
			return nil, err
		}
		matches := make([]Match, 0, len(elements))
		for _, el := range elements {
			matches = append(matches, Match{
				FilePath: path,
				Name:     el.Name,
				Kind:     el.Kind,
				Range:    el.Range,
			})
		}
		return matches, nil
	}

	switch query.Kind {
	case "function":
		return single(f.FindFunction(source, query.Name))
	case "class":
		return single(f.FindClass(source, query.Name))
	case "method":
		return single(f.FindMethod(source, query.ClassName, query.Name))
	case "property":
		return single(f.FindProperty(source, query.ClassName, query.Name))
	case "property_setter":
		return single(f.FindPropertySetter(source, query.ClassName, query.Name))
	case "property_and_setter":
		return single(f.FindPropertyAndSetter(source, query.ClassName, query.Name))
	case "interface":
		return single(f.FindInterface(source, query.Name))
	case "type_alias":
		return single(f.FindTypeAlias(source, query.Name))
	case "jsx_component":
		return single(f.FindJSXComponent(source, query.Name))
	case "imports_section":
		return single(f.FindImportsSection(source))
	case "properties_section":
		return single(f.FindPropertiesSection(source, query.ClassName))
	case "classes":
		return list(f.ClassesFromCode(source))
	case "methods":
		if query.ClassName != "" {
			return list(f.MethodsFromClass(source, query.ClassName))
		}
		return list(f.MethodsFromCode(source))
	case "interfaces":
		return list(f.InterfacesFromCode(source))
	default:
		return nil, fmt.Errorf("unknown query kind: %s", query.Kind)
	}
}

// finderFor selects the grammar family from the file extension.
// TypeScript remains the default for unknown extensions.
func (w *Workspace) finderFor(path string) *finder.Finder {
	if parser.DetectLanguage(path) == parser.LanguageJavaScript {
		return w.finder.WithLanguage(parser.LanguageJavaScript)
	}
	return w.finder
}

// Invalidate drops every cached result and mapped buffer for a file.
// Called by the watcher when the file changes or disappears.
func (w *Workspace) Invalidate(path string) {
	prefix := path + "\x00"
	for _, key := range w.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			w.cache.Remove(key)
		}
	}
	w.source.Evict(path)
	w.logger.Debug("invalidated file", "file", path)
}

// Stats reports cache effectiveness counters.
func (w *Workspace) Stats() WorkspaceStats {
	hits := w.cacheHits.Load()
	misses := w.cacheMisses.Load()
	var hitRate float64
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}
	return WorkspaceStats{
		CachedResults: w.cache.Len(),
		MappedFiles:   w.source.Size(),
		CacheHits:     hits,
		CacheMisses:   misses,
		CacheHitRate:  hitRate,
	}
}

// WorkspaceStats contains workspace cache statistics.
type WorkspaceStats struct {
	CachedResults int
	MappedFiles   int
	CacheHits     int64
	CacheMisses   int64
	CacheHitRate  float64
}

// Close releases the source cache. The result cache needs no teardown.
func (w *Workspace) Close() error {
	w.cache.Purge()
	return w.source.Close()
}

// ContentHash computes the SHA-256 hash of file content, used to decide
// whether a cached result is still valid.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// cacheKey builds the result-cache key for a (file, query) pair. The
// NUL separator cannot occur in paths or names, so keys never collide.
func cacheKey(path string, query Query) string {
	return path + "\x00" + query.Kind + "\x00" + query.Name + "\x00" + query.ClassName
}
