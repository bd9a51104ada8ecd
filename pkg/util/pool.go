package util

import "runtime"

// GetOptimalPoolSize returns the pool size used for CPU-bound parallel work.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// 2x cores allows parallelism while goroutines block inside CGO calls to
// the tree-sitter runtime; the floor keeps some concurrency on small
// machines, the cap bounds memory (roughly 1MB per parser instance).
//
// Both the parser pool and the workspace worker pool use this value. The
// two MUST stay in sync or workers block waiting for free parsers.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns pool size with optional override.
//
// If override > 0 it is used as-is (for testing/tuning), otherwise the
// CPU-derived default applies.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
