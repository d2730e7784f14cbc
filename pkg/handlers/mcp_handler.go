package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/config"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/mcp"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/middleware"
)

// MCPHandler handles MCP protocol requests over HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
	cfg        *config.Config
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger, cfg *config.Config) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterRoutes mounts the MCP endpoint on the configured path.
// Middleware layers, innermost first:
// 1. MCP request/response logging (logs JSON-RPC details)
// 2. Method check (rejects non-POST before the body is read)
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux) {
	loggedHandler := middleware.MCPRequestLogger(h.logger)(h.httpServer)
	mux.Handle(h.cfg.MCPPath, h.requirePOST(loggedHandler))
}

// requirePOST returns 405 Method Not Allowed for non-POST requests.
// MCP over HTTP streaming requires POST for JSON-RPC requests.
func (h *MCPHandler) requirePOST(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "MCP endpoint accepts POST only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
