// Package mcplog records MCP tool calls as JSON lines, one per call,
// giving a replayable trail of which elements were looked up and what
// each lookup produced.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Entry is one logged tool call.
type Entry struct {
	Time        string         `json:"time"`
	Tool        string         `json:"tool"`
	Args        map[string]any `json:"args"`
	DurationMs  int64          `json:"duration_ms"`
	OK          bool           `json:"ok"`
	ResultBytes int            `json:"result_bytes"`

	// Outcome classifies the lookup: "found", "not_found", "error" or
	// "" when the tool's payload carries no found flag.
	Outcome string `json:"outcome,omitempty"`

	Error string `json:"error,omitempty"`
}

// Logger appends entries to a JSONL file. A nil *Logger is a valid
// disabled logger: Record and Close become no-ops.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewLogger opens path for append-only writing, creating parent
// directories as needed. An empty path returns (nil, nil), the disabled
// logger.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{file: f, enc: json.NewEncoder(f)}, nil
}

// Record appends one entry. Write failures are returned but callers
// typically discard them so logging can never fail a tool call.
func (l *Logger) Record(e Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(e)
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// ScrubArgs copies tool arguments for logging. The code argument
// routinely carries whole source files, so any string longer than
// maxInline bytes is replaced by a size marker; element names, kinds
// and paths pass through untouched.
func ScrubArgs(args map[string]any) map[string]any {
	const maxInline = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > maxInline {
			out[k] = fmt.Sprintf("[%d bytes]", len(s))
			continue
		}
		out[k] = v
	}
	return out
}

// ResultSize returns the serialized byte length of a result's content,
// 0 for nil or unmarshalable results.
func ResultSize(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// ResultOutcome classifies a tool result by the found flag the lookup
// tools embed in their payload. Results without the flag (listings,
// syntax checks, rewrites) classify as "".
func ResultOutcome(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	if result.IsError {
		return "error"
	}
	for _, content := range result.Content {
		text, ok := content.(mcp.TextContent)
		if !ok {
			continue
		}
		var payload struct {
			Found *bool `json:"found"`
		}
		if err := json.Unmarshal([]byte(text.Text), &payload); err != nil || payload.Found == nil {
			return ""
		}
		if *payload.Found {
			return "found"
		}
		return "not_found"
	}
	return ""
}

// Now is a replaceable clock for testing.
var Now = time.Now
