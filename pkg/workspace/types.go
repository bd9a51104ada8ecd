package workspace

import (
	"encoding/json"
	"time"

	"github.com/gnana997/codefind/pkg/finder"
)

// Query describes one structural lookup to run across files.
type Query struct {
	// Kind of element to find: function, class, method, property,
	// interface, type_alias, jsx_component or imports_section.
	Kind string

	// Name of the element. Ignored for imports_section.
	Name string

	// ClassName scopes member lookups (method, property) to a class.
	ClassName string
}

// Match is one element found in one file.
type Match struct {
	// FilePath is the absolute path to the file
	FilePath string

	// Name of the matched element
	Name string

	// Kind of the matched element
	Kind string

	// Range is the element's 1-indexed line extent
	Range finder.LineRange
}

// FileError records a failure while processing one file. Search keeps
// going past individual file failures and reports them in the stats.
type FileError struct {
	FilePath string
	Error    error
}

// MarshalJSON flattens the wrapped error to its message; the error
// interface itself serializes as an empty object.
func (e FileError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Error != nil {
		msg = e.Error.Error()
	}
	return json.Marshal(struct {
		FilePath string `json:"file_path"`
		Error    string `json:"error"`
	}{FilePath: e.FilePath, Error: msg})
}

// ScanOptions configures file discovery.
type ScanOptions struct {
	// Include patterns (glob syntax, e.g., "**/*.ts")
	// If empty, uses default language extensions
	Include []string

	// Exclude patterns (glob syntax, e.g., "node_modules/**")
	Exclude []string

	// FollowSymlinks if true, follows symbolic links
	// Default: false (avoid infinite loops)
	FollowSymlinks bool
}

// DefaultScanOptions returns recommended scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.ts",
			"**/*.tsx",
			"**/*.js",
			"**/*.jsx",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			".vscode/**",
			"coverage/**",
			"out/**",
			".next/**",
		},
		FollowSymlinks: false,
	}
}

// SearchStats contains statistics about one workspace search.
type SearchStats struct {
	// FilesDiscovered is the total number of files found
	FilesDiscovered int

	// FilesSearched is the number of files successfully searched
	FilesSearched int

	// FilesFailed is the number of files that failed
	FilesFailed int

	// CacheHits counts files answered from the element cache
	CacheHits int

	// WorkerCount is the number of workers used
	WorkerCount int

	// TotalTimeMs is the total search duration in milliseconds
	TotalTimeMs int64

	// Errors contains per-file errors (if any)
	Errors []FileError

	// StartTime is when the search started
	StartTime time.Time

	// EndTime is when the search completed
	EndTime time.Time
}

// ProgressCallback is called as files complete during a search.
type ProgressCallback func(searched, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds
	// Multiple rapid changes are grouped into a single invalidation
	// Default: 200ms
	DebounceMs int

	// IgnorePatterns are base-name patterns to ignore during watching
	IgnorePatterns []string
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"*.swp",
			"*.tmp",
			"*~",
		},
	}
}
