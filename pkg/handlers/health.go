package handlers

import (
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/config"
)

// PingResponse describes the /ping payload.
type PingResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Transport   string `json:"transport"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname,omitempty"`
}

// HealthHandler serves the liveness and service-info endpoints of the HTTP
// transport.
type HealthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewHealthHandler(cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, logger: logger}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ping", h.Ping)
}

// Health answers load-balancer liveness probes with a bare "ok".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping reports service identity, version and runtime details.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		h.logger.Warn("hostname lookup failed", zap.Error(err))
	}

	resp := PingResponse{
		Status:      "ok",
		Service:     "graphmodel-engine",
		Version:     h.cfg.Version,
		Environment: h.cfg.Env,
		Transport:   h.cfg.Transport,
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("failed to encode ping response", zap.Error(err))
	}
}
