// ABOUTME: Query API server exposing stored messages per IMEI.
// ABOUTME: GET /messages/{imei}?after=RFC3339 with strict-after filtering.

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/2389/samson/internal/store"
	"github.com/2389/samson/internal/timestamp"
)

// MessageResponse is one message in a query response. The IMEI is implied by
// the request path and omitted.
type MessageResponse struct {
	ID        int64  `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// QueryServer serves the external message query API.
type QueryServer struct {
	store  store.Store
	logger *slog.Logger
	server *http.Server
}

// NewQueryServer creates the query API server bound to addr.
func NewQueryServer(addr string, st store.Store, logger *slog.Logger) *QueryServer {
	s := &QueryServer{
		store:  st,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/messages/", s.handleMessages)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// handleMessages handles GET /messages/{imei} requests.
func (s *QueryServer) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	imei := strings.TrimPrefix(r.URL.Path, "/messages/")
	if imei == "" || strings.Contains(imei, "/") {
		writeError(w, s.logger, http.StatusNotFound, "not found")
		return
	}

	var after *time.Time
	if raw := r.URL.Query().Get("after"); raw != "" {
		t, err := timestamp.Parse(raw)
		if err != nil {
			writeError(w, s.logger, http.StatusBadRequest,
				"invalid 'after' timestamp, expected RFC3339: "+raw)
			return
		}
		after = &t
	}

	messages, err := s.store.Query(r.Context(), imei, after)
	if err != nil {
		s.logger.Error("message query failed", "imei", imei, "error", err)
		writeError(w, s.logger, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:        msg.ID,
			Sender:    msg.Sender,
			Text:      msg.Text,
			Timestamp: msg.Timestamp.Format(time.RFC3339),
		})
	}

	writeData(w, s.logger, response)
}

// Start serves until the listener fails or Shutdown is called.
func (s *QueryServer) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *QueryServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
