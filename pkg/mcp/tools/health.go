package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// serviceName reported by the health tool.
const serviceName = "graphmodel-engine"

type healthResult struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// RegisterHealthTool adds the health tool. Uptime counts from registration,
// which happens once at process start.
func RegisterHealthTool(s *server.MCPServer, version string) {
	started := time.Now()

	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Report service health, version and uptime"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(healthResult{
			Status:  "ok",
			Service: serviceName,
			Version: version,
			Uptime:  time.Since(started).Round(time.Second).String(),
		})
		if err != nil {
			return nil, fmt.Errorf("marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}
