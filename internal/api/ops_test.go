// ABOUTME: Tests for the operational listener.
// ABOUTME: Covers /modems ordering, /health, and the modem_count gauge exposition.

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/samson/internal/metrics"
	"github.com/2389/samson/internal/modem"
)

// staticBus serves a fixed modem list.
type staticBus struct {
	modems []modem.Info
}

func (b staticBus) ListModems(ctx context.Context) ([]modem.Info, error) {
	return append([]modem.Info(nil), b.modems...), nil
}

func (b staticBus) ListMessages(ctx context.Context, path string) ([]modem.SMS, error) {
	return nil, nil
}

func setupOpsServer(t *testing.T, modems []modem.Info) *OpsServer {
	t.Helper()

	logger := slog.Default()
	reg := modem.NewRegistry(staticBus{modems: modems}, time.Second, logger)
	require.NoError(t, reg.Refresh(context.Background()))

	promReg := metrics.NewRegistry(func() float64 { return float64(len(reg.List())) })
	return NewOpsServer("127.0.0.1:0", reg, promReg, logger)
}

func TestOps_Modems(t *testing.T) {
	srv := setupOpsServer(t, []modem.Info{
		{Path: "/Modem/1", IMEI: "b"},
		{Path: "/Modem/0", IMEI: "a"},
	})

	req := httptest.NewRequest(http.MethodGet, "/modems", nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, data, 2)

	first := data[0].(map[string]any)
	assert.Equal(t, "/Modem/0", first["path"])
	assert.Equal(t, "a", first["imei"])
}

func TestOps_Health(t *testing.T) {
	srv := setupOpsServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":"OK"}`, rec.Body.String())
}

func TestOps_MetricsExposesModemCount(t *testing.T) {
	srv := setupOpsServer(t, []modem.Info{
		{Path: "/Modem/0", IMEI: "a"},
		{Path: "/Modem/1", IMEI: "b"},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "modem_count 2")
}
