package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Server wraps the mcp-go MCPServer with graphmodel-engine patterns.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance. The optional hooks receive
// tool-call lifecycle events; pass nil to disable auditing.
func NewServer(name, version string, logger *zap.Logger, hooks *server.Hooks) *Server {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	}
	if hooks != nil {
		opts = append(opts, server.WithHooks(hooks))
	}

	return &Server{
		mcp:    server.NewMCPServer(name, version, opts...),
		logger: logger,
	}
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP
// server. The HTTP mux handles routing, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// NewSSEServer creates an SSE transport server wrapping this MCP server.
func (s *Server) NewSSEServer() *server.SSEServer {
	return server.NewSSEServer(s.mcp)
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}

// RegisterResource is a convenience wrapper for registering a resource.
func (s *Server) RegisterResource(resource mcp.Resource, handler server.ResourceHandlerFunc) {
	s.mcp.AddResource(resource, handler)
}
