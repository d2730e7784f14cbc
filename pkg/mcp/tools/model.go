package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// ModelToolDeps contains dependencies for model validation tools.
type ModelToolDeps struct {
	Logger *zap.Logger
}

// RegisterModelTools registers validation tools for nodes, relationships and
// full data models.
func RegisterModelTools(s *server.MCPServer, deps *ModelToolDeps) {
	registerValidateNodeTool(s, deps)
	registerValidateRelationshipTool(s, deps)
	registerValidateDataModelTool(s, deps)
}

func registerValidateNodeTool(s *server.MCPServer, deps *ModelToolDeps) {
	tool := mcp.NewTool(
		"validate_node",
		mcp.WithDescription(
			"Validate a single node. Checks the label, key property and property list, "+
				"and rejects duplicate property names. "+
				"Set return_validated to get the normalized node back as JSON.",
		),
		mcp.WithObject(
			"node",
			mcp.Required(),
			mcp.Description("Node as a JSON object. A stringified JSON object is also accepted."),
		),
		mcp.WithBoolean(
			"return_validated",
			mcp.Description("If true, return the validated node as JSON instead of \"true\" (default: false)"),
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
		return validatedResult(req, &node)
	})
}

func registerValidateRelationshipTool(s *server.MCPServer, deps *ModelToolDeps) {
	tool := mcp.NewTool(
		"validate_relationship",
		mcp.WithDescription(
			"Validate a single relationship. Checks the type, endpoint labels and property list, "+
				"and rejects duplicate property names. "+
				"Set return_validated to get the normalized relationship back as JSON.",
		),
		mcp.WithObject(
			"relationship",
			mcp.Required(),
			mcp.Description("Relationship as a JSON object. A stringified JSON object is also accepted."),
		),
		mcp.WithBoolean(
			"return_validated",
			mcp.Description("If true, return the validated relationship as JSON instead of \"true\" (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rel models.Relationship
		if err := decodeArg(req, "relationship", &rel); err != nil {
			return NewErrorResult("invalid_argument", err.Error()), nil
		}
		if err := rel.Validate(); err != nil {
			deps.Logger.Debug("relationship validation failed", zap.Error(err))
			return validationErrorResult(err), nil
		}
		return validatedResult(req, &rel)
	})
}

func registerValidateDataModelTool(s *server.MCPServer, deps *ModelToolDeps) {
	tool := mcp.NewTool(
		"validate_data_model",
		mcp.WithDescription(
			"Validate an entire data model. Checks every node and relationship, rejects duplicate "+
				"node labels and duplicate relationship patterns, and verifies that every relationship "+
				"endpoint references an existing node label. "+
				"Set return_validated to get the normalized model back as JSON.",
		),
		mcp.WithObject(
			"data_model",
			mcp.Required(),
			mcp.Description("Data model as a JSON object. A stringified JSON object is also accepted."),
		),
		mcp.WithBoolean(
			"return_validated",
			mcp.Description("If true, return the validated data model as JSON instead of \"true\" (default: false)"),
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
		return validatedResult(req, &m)
	})
}

// validatedResult returns either the literal "true" or the validated entity
// as JSON, depending on the return_validated argument.
func validatedResult(req mcp.CallToolRequest, entity any) (*mcp.CallToolResult, error) {
	returnValidated := false
	if val, ok := getOptionalBool(req, "return_validated"); ok {
		returnValidated = val
	}
	if !returnValidated {
		return mcp.NewToolResultText("true"), nil
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal validated entity: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
