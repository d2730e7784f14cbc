package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/cypher"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// CypherToolDeps contains dependencies for Cypher generation tools.
type CypherToolDeps struct {
	Logger *zap.Logger
}

// RegisterCypherTools registers tools that compile parts of a data model
// into parameterized Cypher ingest and constraint queries.
func RegisterCypherTools(s *server.MCPServer, deps *CypherToolDeps) {
	registerNodeIngestQueryTool(s, deps)
	registerRelationshipIngestQueryTool(s, deps)
	registerConstraintsQueriesTool(s, deps)
}

func registerNodeIngestQueryTool(s *server.MCPServer, deps *CypherToolDeps) {
	tool := mcp.NewTool(
		"get_node_cypher_ingest_query",
		mcp.WithDescription(
			"Generate the Cypher query to ingest a list of node records. The query expects a "+
				"$records parameter, merges on the key property and sets the remaining properties.",
		),
		mcp.WithObject(
			"node",
			mcp.Required(),
			mcp.Description("Node as a JSON object. A stringified JSON object is also accepted."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var node models.Node
		if err := decodeArg(req, "node", &node); err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}
		if err := node.Validate(); err != nil {
			deps.Logger.Debug("node validation failed", zap.Error(err))
			return validationErrorResult(err), nil
		}
		return mcp.NewToolResultText(cypher.NodeIngestQuery(&node)), nil
	})
}

func registerRelationshipIngestQueryTool(s *server.MCPServer, deps *CypherToolDeps) {
	tool := mcp.NewTool(
		"get_relationship_cypher_ingest_query",
		mcp.WithDescription(
			"Generate the Cypher query to ingest a list of relationship records. The query expects "+
				"a $records parameter with sourceId and targetId fields, matches the endpoint nodes "+
				"by their key properties and merges the relationship between them.",
		),
		mcp.WithObject(
			"data_model",
			mcp.Required(),
			mcp.Description("Data model containing the relationship and both endpoint nodes. A stringified JSON object is also accepted."),
		),
		mcp.WithString(
			"relationship_type",
			mcp.Required(),
			mcp.Description("Type of the relationship to ingest"),
		),
		mcp.WithString(
			"relationship_start_node_label",
			mcp.Required(),
			mcp.Description("Label of the relationship's start node"),
		),
		mcp.WithString(
			"relationship_end_node_label",
			mcp.Required(),
			mcp.Description("Label of the relationship's end node"),
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

		relType, err := req.RequireString("relationship_type")
		if err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}
		startLabel, err := req.RequireString("relationship_start_node_label")
		if err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}
		endLabel, err := req.RequireString("relationship_end_node_label")
		if err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}

		if err := m.Validate(); err != nil {
			deps.Logger.Debug("data model validation failed", zap.Error(err))
			return validationErrorResult(err), nil
		}

		query, err := cypher.RelationshipIngestQueryForModel(&m, relType, startLabel, endLabel)
		if err != nil {
			return validationErrorResult(err), nil
		}
		return mcp.NewToolResultText(query), nil
	})
}

func registerConstraintsQueriesTool(s *server.MCPServer, deps *CypherToolDeps) {
	tool := mcp.NewTool(
		"get_constraints_cypher_queries",
		mcp.WithDescription(
			"Generate the Cypher queries that create key constraints for every node and every "+
				"relationship with a key property in the data model. Run these before ingesting data.",
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

		data, err := json.Marshal(cypher.ConstraintQueries(&m))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal constraint queries: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
