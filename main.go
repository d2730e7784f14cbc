package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/config"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/handlers"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/mcp"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/mcp/tools"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/middleware"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	audit := mcp.NewAuditLogger(logger)
	srv := mcp.NewServer("graphmodel-engine", cfg.Version, logger, audit.Hooks())

	tools.RegisterHealthTool(srv.MCP(), cfg.Version)
	tools.RegisterModelTools(srv.MCP(), &tools.ModelToolDeps{Logger: logger})
	tools.RegisterArrowsTools(srv.MCP(), &tools.ArrowsToolDeps{Logger: logger})
	tools.RegisterDataImportTools(srv.MCP(), &tools.DataImportToolDeps{Logger: logger})
	tools.RegisterCypherTools(srv.MCP(), &tools.CypherToolDeps{Logger: logger})
	tools.RegisterMermaidTool(srv.MCP(), &tools.MermaidToolDeps{Logger: logger})
	mcp.RegisterResources(srv)

	logger.Info("Starting graphmodel-engine",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Env),
		zap.String("transport", cfg.Transport))

	switch cfg.Transport {
	case "http":
		mux := http.NewServeMux()
		handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
		handlers.NewMCPHandler(srv, logger, cfg).RegisterRoutes(mux)

		logger.Info("Serving MCP over HTTP",
			zap.String("addr", cfg.Addr()),
			zap.String("path", cfg.MCPPath))
		if err := http.ListenAndServe(cfg.Addr(), middleware.RequestLogger(logger)(mux)); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case "sse":
		logger.Info("Serving MCP over SSE", zap.String("addr", cfg.Addr()))
		if err := srv.NewSSEServer().Start(cfg.Addr()); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	default:
		if err := srv.ServeStdio(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}
}

// buildLogger picks the zap preset for the environment. Local development
// gets the human-readable console encoder.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
