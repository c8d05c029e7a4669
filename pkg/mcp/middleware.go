package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/tokenlint/pkg/auditlog"
	"github.com/gnana997/tokenlint/pkg/lint"
)

type statsKey struct{}

// callStats is filled in by handlers that produce findings.
type callStats struct {
	findings int
	nodes    int
	byType   map[string]int
}

func recordStats(ctx context.Context, summary lint.Summary) {
	st, ok := ctx.Value(statsKey{}).(*callStats)
	if !ok {
		return
	}
	st.findings = summary.Total
	st.nodes = len(summary.Nodes)
	st.byType = make(map[string]int, len(summary.ByType))
	for t, n := range summary.ByType {
		st.byType[string(t)] = n
	}
}

// loggingMiddleware writes one audit-log entry and one debug line per tool call.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			st := &callStats{}
			start := auditlog.Now()
			result, err := next(context.WithValue(ctx, statsKey{}, st), req)
			elapsed := time.Since(start).Milliseconds()

			callErr := err
			if callErr == nil && result != nil && result.IsError {
				callErr = toolError(result)
			}

			s.logger.Debug("tool call",
				"tool", req.Params.Name,
				"ms", elapsed,
				"findings", st.findings,
				"error", callErr)

			_ = s.auditLog.Write(auditlog.Entry{
				Ts:            start.UTC().Format(time.RFC3339),
				Source:        auditlog.SourceMCP,
				Operation:     req.Params.Name,
				Params:        auditlog.SanitizeParams(req.GetArguments()),
				DurationMs:    elapsed,
				ResponseBytes: auditlog.ResponseBytes(result),
				Nodes:         st.nodes,
				Findings:      st.findings,
				ByType:        st.byType,
				Error:         auditlog.ErrorString(callErr),
			})

			return result, err
		}
	}
}

type toolResultError string

func (e toolResultError) Error() string { return string(e) }

func toolError(result *mcp.CallToolResult) error {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return toolResultError(text.Text)
		}
	}
	return toolResultError("tool error")
}
