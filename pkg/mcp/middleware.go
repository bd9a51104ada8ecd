package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/codefind/pkg/mcplog"
)

// loggingMiddleware returns a ToolHandlerMiddleware that records every tool
// call as a JSONL entry via the server's logger. If the logger is nil this
// method must not be called (guarded by the NewServer caller).
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			entry := mcplog.Entry{
				Time:        start.UTC().Format(time.RFC3339),
				Tool:        req.Params.Name,
				Args:        mcplog.ScrubArgs(req.GetArguments()),
				DurationMs:  time.Since(start).Milliseconds(),
				OK:          err == nil,
				ResultBytes: mcplog.ResultSize(result),
				Outcome:     mcplog.ResultOutcome(result),
			}
			if err != nil {
				entry.Error = err.Error()
			}
			_ = s.logger.Record(entry)

			return result, err
		}
	}
}
