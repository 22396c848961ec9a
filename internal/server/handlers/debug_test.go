package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugHandler(t *testing.T) {
	handler := NewDebugHandler(setupTestLogger())

	tests := []struct {
		handler    http.HandlerFunc
		name       string
		wantLabel  string
		wantStatus int
	}{
		{name: "not found", handler: handler.NotFound, wantStatus: http.StatusNotFound, wantLabel: "Not Found"},
		{name: "bad request", handler: handler.BadRequest, wantStatus: http.StatusBadRequest, wantLabel: "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLabel, decodeErrorResponse(t, w).Error)
		})
	}

	assert.Panics(t, func() {
		handler.Exception(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
