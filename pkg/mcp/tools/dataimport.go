package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/dataimport"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// DataImportToolDeps contains dependencies for Aura data import tools.
type DataImportToolDeps struct {
	Logger *zap.Logger
}

// RegisterDataImportTools registers converters between the canonical data
// model and the Aura data import tool's reference-graph format.
func RegisterDataImportTools(s *server.MCPServer, deps *DataImportToolDeps) {
	registerLoadFromDataImportTool(s, deps)
	registerExportToDataImportTool(s, deps)
}

func registerLoadFromDataImportTool(s *server.MCPServer, deps *DataImportToolDeps) {
	tool := mcp.NewTool(
		"load_from_aura_data_import_json",
		mcp.WithDescription(
			"Load a data model from an Aura data import JSON export. The document's $id/$ref "+
				"graph is resolved into nodes and relationships, and its constraints, indexes, "+
				"source schema and configurations are preserved for a later export. "+
				"Returns the validated data model as JSON.",
		),
		mcp.WithObject(
			"aura_dump",
			mcp.Required(),
			mcp.Description("Aura data import document as a JSON object. A stringified JSON object is also accepted."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var doc dataimport.Document
		if err := decodeArg(req, "aura_dump", &doc); err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}

		converter := dataimport.NewConverter(deps.Logger)
		m, err := converter.FromDocument(&doc)
		if err != nil {
			deps.Logger.Debug("aura data import failed", zap.Error(err))
			return validationErrorResult(err), nil
		}

		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data model: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerExportToDataImportTool(s *server.MCPServer, deps *DataImportToolDeps) {
	tool := mcp.NewTool(
		"export_to_aura_data_import_json",
		mcp.WithDescription(
			"Export a data model to the Aura data import JSON format. Entities receive synthetic "+
				"$id values and cross-reference each other through $ref pointers; key constraints, "+
				"indexes and source mappings are generated unless the model carries stored ones "+
				"from a previous import.",
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

		converter := dataimport.NewConverter(deps.Logger)
		data, err := converter.ToJSON(&m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data import document: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
