package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/jsonutil"
)

// decodeArg decodes a required structured argument into target. The argument
// may arrive as a JSON object or as a stringified JSON document.
func decodeArg(req mcp.CallToolRequest, name string, target any) error {
	value, ok := req.GetArguments()[name]
	if !ok {
		return fmt.Errorf("missing required argument %q", name)
	}
	if err := jsonutil.DecodeValue(value, target); err != nil {
		return fmt.Errorf("argument %q: %w", name, err)
	}
	return nil
}

// getOptionalBool returns the named boolean argument and whether it was set.
func getOptionalBool(req mcp.CallToolRequest, name string) (bool, bool) {
	if v, ok := req.GetArguments()[name].(bool); ok {
		return v, true
	}
	return false, false
}
