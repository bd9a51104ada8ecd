package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerEmptyPathDisabled(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)

	// The disabled logger is usable as-is.
	assert.NoError(t, logger.Record(Entry{Tool: "find_element"}))
	assert.NoError(t, logger.Close())
}

func TestRecordAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tools.jsonl")

	logger, err := NewLogger(path)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	require.NoError(t, logger.Record(Entry{
		Time: "2026-08-30T00:00:00Z", Tool: "find_element",
		DurationMs: 3, OK: true, Outcome: "found",
	}))
	require.NoError(t, logger.Record(Entry{
		Time: "2026-08-30T00:00:01Z", Tool: "check_syntax",
		DurationMs: 1, OK: true,
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "find_element", entries[0].Tool)
	assert.Equal(t, "found", entries[0].Outcome)
	assert.Equal(t, "check_syntax", entries[1].Tool)
	assert.Empty(t, entries[1].Outcome)
}

func TestScrubArgs(t *testing.T) {
	long := strings.Repeat("x", 100)

	tests := []struct {
		name string
		args map[string]any
		want map[string]any
	}{
		{
			name: "long source replaced by size marker",
			args: map[string]any{"code": long, "name": "getX"},
			want: map[string]any{"code": "[100 bytes]", "name": "getX"},
		},
		{
			name: "short strings pass through",
			args: map[string]any{"kind": "method", "class_name": "Point"},
			want: map[string]any{"kind": "method", "class_name": "Point"},
		},
		{
			name: "non-string values pass through",
			args: map[string]any{"limit": 5, "strict": true},
			want: map[string]any{"limit": 5, "strict": true},
		},
		{
			name: "boundary length kept inline",
			args: map[string]any{"code": strings.Repeat("y", 64)},
			want: map[string]any{"code": strings.Repeat("y", 64)},
		},
		{
			name: "empty args",
			args: map[string]any{},
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrubArgs(tt.args))
		})
	}
}

func TestResultSize(t *testing.T) {
	assert.Equal(t, 0, ResultSize(nil))

	result := mcp.NewToolResultText(`{"found":true}`)
	assert.Greater(t, ResultSize(result), 0)
}

func TestResultOutcome(t *testing.T) {
	assert.Empty(t, ResultOutcome(nil))

	found := mcp.NewToolResultText(`{"found":true,"start_line":1,"end_line":5}`)
	assert.Equal(t, "found", ResultOutcome(found))

	missing := mcp.NewToolResultText(`{"found":false,"start_line":0,"end_line":0}`)
	assert.Equal(t, "not_found", ResultOutcome(missing))

	listing := mcp.NewToolResultText(`[{"name":"Point"}]`)
	assert.Empty(t, ResultOutcome(listing))

	failed := mcp.NewToolResultError("unknown kind")
	assert.Equal(t, "error", ResultOutcome(failed))
}
