package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer builds an MCP server with every tool registered.
func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	s := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	logger := zap.NewNop()

	RegisterHealthTool(s, "1.0.0")
	RegisterModelTools(s, &ModelToolDeps{Logger: logger})
	RegisterArrowsTools(s, &ArrowsToolDeps{Logger: logger})
	RegisterDataImportTools(s, &DataImportToolDeps{Logger: logger})
	RegisterCypherTools(s, &CypherToolDeps{Logger: logger})
	RegisterMermaidTool(s, &MermaidToolDeps{Logger: logger})
	return s
}

// callTool invokes a tool through the JSON-RPC surface and returns the first
// text content plus the isError flag.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	}
	data, err := json.Marshal(request)
	require.NoError(t, err)

	raw, err := json.Marshal(s.HandleMessage(context.Background(), data))
	require.NoError(t, err)

	var resp struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Nil(t, resp.Error)
	require.NotEmpty(t, resp.Result.Content)
	return resp.Result.Content[0].Text, resp.Result.IsError
}

// personModel is a minimal valid data model used across tool tests.
func personModel() map[string]any {
	return map[string]any{
		"nodes": []any{
			map[string]any{
				"label":        "Person",
				"key_property": map[string]any{"name": "id", "type": "STRING"},
				"properties": []any{
					map[string]any{"name": "name", "type": "STRING"},
				},
			},
			map[string]any{
				"label":        "Address",
				"key_property": map[string]any{"name": "street", "type": "STRING"},
			},
		},
		"relationships": []any{
			map[string]any{
				"type":             "LIVES_AT",
				"start_node_label": "Person",
				"end_node_label":   "Address",
			},
		},
	}
}
