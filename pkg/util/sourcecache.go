// SourceCache provides fast read access to workspace source files using
// memory-mapped files.
//
// The workspace searcher slices file content by byte offsets produced by
// tree-sitter nodes, so O(1) random access matters more than sequential
// read speed. Mapping keeps only the accessed pages resident.
//
// Lifecycle: files are mapped lazily on first access and stay mapped until
// Close() or Evict(). If mmap fails (network filesystems, exotic mounts)
// the file is read into memory instead and served from a fallback map.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// SourceCache is a lazily populated cache of mapped source files.
// Safe for concurrent use: reads share an RWMutex, loads are exclusive.
type SourceCache struct {
	maxFiles int
	logger   *slog.Logger

	mu       sync.RWMutex
	mapped   map[string]*MappedSource
	fallback map[string][]byte
}

// MappedSource is one cached source file.
type MappedSource struct {
	Path string

	// Data can be sliced directly: code := Data[startByte:endByte].
	// Nil for empty files.
	Data mmap.MMap

	// File is the open descriptor backing the mapping.
	// Nil for fallback entries.
	File *os.File

	Size int64
}

// NewSourceCache creates a source cache holding at most maxFiles entries.
// maxFiles <= 0 means unlimited. A nil logger falls back to slog.Default().
func NewSourceCache(maxFiles int, logger *slog.Logger) *SourceCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceCache{
		maxFiles: maxFiles,
		logger:   logger,
		mapped:   make(map[string]*MappedSource),
		fallback: make(map[string][]byte),
	}
}

// Get returns the cached bytes for path, mapping the file on first access.
// Once the cache holds maxFiles entries further paths are read plainly on
// every call instead of being cached.
//
// The returned slice is valid until Evict(path) or Close(); callers must
// not retain it past either.
func (sc *SourceCache) Get(path string) ([]byte, error) {
	// Fast path: already cached.
	sc.mu.RLock()
	if ms, ok := sc.mapped[path]; ok {
		sc.mu.RUnlock()
		return ms.Data, nil
	}
	if data, ok := sc.fallback[path]; ok {
		sc.mu.RUnlock()
		return data, nil
	}
	sc.mu.RUnlock()

	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Double-check: another goroutine may have loaded it.
	if ms, ok := sc.mapped[path]; ok {
		return ms.Data, nil
	}
	if data, ok := sc.fallback[path]; ok {
		return data, nil
	}

	// Full cache: serve the file without retaining it. The cap bounds
	// mapped memory, it must never make a file unreadable.
	if sc.maxFiles > 0 && len(sc.mapped)+len(sc.fallback) >= sc.maxFiles {
		sc.logger.Debug("source cache full, serving uncached read",
			"path", path, "max_files", sc.maxFiles)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		return data, nil
	}

	ms, data, err := sc.load(path)
	if err != nil {
		return nil, err
	}
	if ms != nil {
		sc.mapped[path] = ms
		return ms.Data, nil
	}
	sc.fallback[path] = data
	return data, nil
}

// load opens and maps path. On mmap failure it returns the file content as
// a plain byte slice instead (ms == nil).
func (sc *SourceCache) load(path string) (*MappedSource, []byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("stat %q: %w", path, err)
	}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		return &MappedSource{Path: path, File: file, Size: 0}, nil, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		sc.logger.Warn("mmap failed, reading file instead",
			"path", path, "size", stat.Size(), "error", err)
		file.Close()

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, nil, fmt.Errorf("read %q after mmap failure: %w", path, readErr)
		}
		return nil, content, nil
	}

	return &MappedSource{Path: path, Data: data, File: file, Size: stat.Size()}, nil, nil
}

// Evict drops the cache entry for path, unmapping it if mapped.
// Used by the workspace watcher when a file changes on disk.
func (sc *SourceCache) Evict(path string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if ms, ok := sc.mapped[path]; ok {
		sc.closeMapped(ms)
		delete(sc.mapped, path)
	}
	delete(sc.fallback, path)
}

// Size returns the number of currently cached files.
func (sc *SourceCache) Size() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.mapped) + len(sc.fallback)
}

// Close unmaps every cached file. The cache is empty but usable afterwards.
func (sc *SourceCache) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var firstErr error
	for path, ms := range sc.mapped {
		if err := sc.closeMapped(ms); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unmap %q: %w", path, err)
		}
	}
	sc.mapped = make(map[string]*MappedSource)
	sc.fallback = make(map[string][]byte)
	return firstErr
}

func (sc *SourceCache) closeMapped(ms *MappedSource) error {
	var err error
	if ms.Data != nil {
		err = ms.Data.Unmap()
	}
	if ms.File != nil {
		if cerr := ms.File.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
