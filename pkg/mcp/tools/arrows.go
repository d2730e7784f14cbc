package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/arrows"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// ArrowsToolDeps contains dependencies for Arrows conversion tools.
type ArrowsToolDeps struct {
	Logger *zap.Logger
}

// RegisterArrowsTools registers converters between the canonical data model
// and the Arrows web app JSON format.
func RegisterArrowsTools(s *server.MCPServer, deps *ArrowsToolDeps) {
	registerLoadFromArrowsTool(s, deps)
	registerExportToArrowsTool(s, deps)
}

func registerLoadFromArrowsTool(s *server.MCPServer, deps *ArrowsToolDeps) {
	tool := mcp.NewTool(
		"load_from_arrows_json",
		mcp.WithDescription(
			"Load a data model from an Arrows app JSON export. Property values of the form "+
				"\"TYPE | description | KEY\" are parsed into typed properties; the property tagged "+
				"KEY becomes the node's key property. Returns the validated data model as JSON.",
		),
		mcp.WithObject(
			"arrows_dump",
			mcp.Required(),
			mcp.Description("Arrows graph as a JSON object. A stringified JSON object is also accepted."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var g arrows.Graph
		if err := decodeArg(req, "arrows_dump", &g); err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}

		m, err := arrows.FromGraph(g)
		if err != nil {
			deps.Logger.Debug("arrows import failed", zap.Error(err))
			return validationErrorResult(err), nil
		}

		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data model: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerExportToArrowsTool(s *server.MCPServer, deps *ArrowsToolDeps) {
	tool := mcp.NewTool(
		"export_to_arrows_json",
		mcp.WithDescription(
			"Export a data model to the Arrows app JSON format. Nodes without stored coordinates "+
				"are laid out on a grid. The returned string can be imported directly into Arrows.",
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

		data, err := arrows.ToJSON(&m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal arrows graph: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
