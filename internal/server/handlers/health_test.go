package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authstarter/pkg/api"
)

func TestHealthHandler_Health(t *testing.T) {
	logger := setupTestLogger()
	handler := NewHealthHandler(logger, AppInfo{Name: "authstarter", Env: "test", Version: "1.2.3"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	resp := w.Result()
	defer func() {
		err := resp.Body.Close()
		assert.NoError(t, err)
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var healthResp api.HealthResponse
	err := json.NewDecoder(resp.Body).Decode(&healthResp)
	require.NoError(t, err)

	assert.Equal(t, "ok", healthResp.Status)
	assert.Equal(t, "authstarter", healthResp.App)
	assert.Equal(t, "test", healthResp.Env)
	assert.Equal(t, "1.2.3", healthResp.Version)
}

type fakePinger struct {
	err   error
	calls int
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.calls++
	return p.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	tests := []struct {
		pinger     *fakePinger
		name       string
		wantBody   string
		wantStatus int
	}{
		{
			name:       "storage reachable",
			pinger:     &fakePinger{},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "storage down",
			pinger:     &fakePinger{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"Service Unavailable","message":"database unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), AppInfo{Name: "authstarter", Env: "test"}, tt.pinger)

			w := httptest.NewRecorder()
			handler.Healthz(w, httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, 1, tt.pinger.calls)
		})
	}
}

func TestHealthHandler_Healthz_NoPinger(t *testing.T) {
	handler := NewHealthHandler(setupTestLogger(), AppInfo{Name: "authstarter"}, nil)

	w := httptest.NewRecorder()
	handler.Healthz(w, httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
