package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// previewLimit caps the result preview stored in audit events.
const previewLimit = 200

// AuditLogger emits a structured log event for every MCP tool call.
type AuditLogger struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewAuditLogger creates an AuditLogger that records MCP tool-call events.
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.Named("mcp-audit")}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (a *AuditLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *AuditLogger) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	a.startTimes.Store(id, time.Now())
}

func (a *AuditLogger) afterCallTool(_ context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	startTime, _ := a.loadAndDeleteStart(id)

	isError := result != nil && result.IsError
	a.logger.Info("tool call",
		zap.String("event_id", uuid.NewString()),
		zap.String("tool", req.Params.Name),
		zap.Duration("duration", time.Since(startTime)),
		zap.Bool("is_error", isError),
		zap.String("result_preview", resultPreview(result)),
	)
}

func (a *AuditLogger) onError(_ context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}

	req, ok := message.(*mcplib.CallToolRequest)
	if !ok {
		return
	}

	startTime, _ := a.loadAndDeleteStart(id)
	a.logger.Warn("tool call failed",
		zap.String("event_id", uuid.NewString()),
		zap.String("tool", req.Params.Name),
		zap.Duration("duration", time.Since(startTime)),
		zap.Error(err),
	)
}

func (a *AuditLogger) loadAndDeleteStart(id any) (time.Time, bool) {
	if v, ok := a.startTimes.LoadAndDelete(id); ok {
		return v.(time.Time), true
	}
	return time.Now(), false
}

// resultPreview returns the first text content of a result, truncated.
func resultPreview(result *mcplib.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		tc, ok := c.(mcplib.TextContent)
		if !ok {
			continue
		}
		text := tc.Text
		if len(text) > previewLimit {
			text = text[:previewLimit] + "...[truncated]"
		}
		return text
	}
	return ""
}
