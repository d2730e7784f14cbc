package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results. Returning it
// as a successful MCP response keeps the details visible to the client
// instead of being swallowed as a protocol error.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for actionable errors the caller can fix (invalid JSON, a model
// that fails validation). System failures should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// errorCode maps a validation or conversion error to a stable code.
func errorCode(err error) string {
	var dupProp *apperrors.DuplicatePropertyError
	var dupNode *apperrors.DuplicateNodeError
	var dupRel *apperrors.DuplicateRelationshipError
	var dangling *apperrors.DanglingEndpointError
	var unmapped *apperrors.UnmappedPropertyError
	var structural *apperrors.StructuralError

	switch {
	case errors.As(err, &dupProp):
		return "duplicate_property"
	case errors.As(err, &dupNode):
		return "duplicate_node"
	case errors.As(err, &dupRel):
		return "duplicate_relationship"
	case errors.As(err, &dangling):
		return "dangling_endpoint"
	case errors.As(err, &unmapped):
		return "unmapped_property"
	case errors.As(err, &structural):
		return "structural_error"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return "validation_error"
	}
}

// validationErrorResult wraps a validation or conversion failure.
func validationErrorResult(err error) *mcp.CallToolResult {
	return NewErrorResult(errorCode(err), err.Error())
}
