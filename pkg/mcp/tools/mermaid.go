package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/mermaid"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// MermaidToolDeps contains dependencies for the Mermaid rendering tool.
type MermaidToolDeps struct {
	Logger *zap.Logger
}

// RegisterMermaidTool registers a tool that renders a data model as a
// Mermaid graph definition.
func RegisterMermaidTool(s *server.MCPServer, deps *MermaidToolDeps) {
	tool := mcp.NewTool(
		"get_mermaid_config_str",
		mcp.WithDescription(
			"Render a data model as a Mermaid graph definition. Each node becomes a colored box "+
				"listing its properties with the key property first; relationships become labeled edges.",
		),
		mcp.WithObject(
			"data_model",
			mcp.Required(),
			mcp.Description("Data model as a JSON object. A stringified JSON object is also accepted."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var m models.DataModel
		if err := decodeArg(req, "data_model", &m); err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}
		if err := m.Validate(); err != nil {
			deps.Logger.Debug("data model validation failed", zap.Error(err))
			return validationErrorResult(err), nil
		}
		return mcp.NewToolResultText(mermaid.Config(&m)), nil
	})
}
