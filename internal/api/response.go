// ABOUTME: JSON response envelope and write helpers shared by both listeners.
// ABOUTME: Mirrors the {success, data, error} wire contract of the query API.

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response is the envelope for all API responses.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON writes an envelope with the given status code.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("writing response failed", "error", err)
	}
}

// writeData writes a successful envelope.
func writeData(w http.ResponseWriter, logger *slog.Logger, data any) {
	writeJSON(w, logger, http.StatusOK, Response{Success: true, Data: data})
}

// writeError writes a failed envelope with the given status.
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, Response{Success: false, Error: message})
}
