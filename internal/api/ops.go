// ABOUTME: Operational listener serving fleet state, Prometheus metrics, and health.
// ABOUTME: Runs on its own address, separate from the query API.

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/2389/samson/internal/modem"
)

// OpsServer serves /modems, /metrics, and /health on the metrics listener.
type OpsServer struct {
	registry *modem.Registry
	logger   *slog.Logger
	server   *http.Server
}

// NewOpsServer creates the operational server bound to addr, exposing the
// given Prometheus registry on /metrics.
func NewOpsServer(addr string, reg *modem.Registry, promReg *prometheus.Registry, logger *slog.Logger) *OpsServer {
	s := &OpsServer{
		registry: reg,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/modems", s.handleModems)
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// handleModems returns the current modem snapshot, sorted by path.
func (s *OpsServer) handleModems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	writeData(w, s.logger, s.registry.List())
}

// handleHealth reports liveness.
func (s *OpsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.logger, "OK")
}

// Start serves until the listener fails or Shutdown is called.
func (s *OpsServer) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *OpsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
