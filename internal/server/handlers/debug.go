package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/authstarter/internal/apperr"
	"github.com/iudanet/authstarter/internal/server/respond"
)

// DebugHandler exposes endpoints that exercise the error envelope.
// Mounted only when DEBUG is enabled.
type DebugHandler struct {
	logger *slog.Logger
}

// NewDebugHandler создает handler отладочных маршрутов
func NewDebugHandler(logger *slog.Logger) *DebugHandler {
	return &DebugHandler{logger: logger}
}

// NotFound обрабатывает GET /api/v1/not-found
func (h *DebugHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.AppError(r.Context(), h.logger, w, apperr.NotFound("resource does not exist"))
}

// BadRequest обрабатывает GET /api/v1/bad-request
func (h *DebugHandler) BadRequest(w http.ResponseWriter, r *http.Request) {
	respond.AppError(r.Context(), h.logger, w, apperr.BadRequest("bad request", nil))
}

// Exception обрабатывает GET /api/v1/exception
// Паника перехватывается RecoveryMiddleware
func (h *DebugHandler) Exception(w http.ResponseWriter, r *http.Request) {
	panic("boom")
}
