package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/authstarter/internal/server/respond"
	"github.com/iudanet/authstarter/pkg/api"
)

// AppInfo описывает приложение для health check
type AppInfo struct {
	Name    string
	Env     string
	Version string
}

// pingTimeout ограничивает проверку БД в /healthz
const pingTimeout = 2 * time.Second

// Pinger checks that the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger *slog.Logger
	pinger Pinger
	info   AppInfo
}

// NewHealthHandler создает новый handler для health check.
// pinger может быть nil, тогда /healthz не проверяет БД.
func NewHealthHandler(logger *slog.Logger, info AppInfo, pinger Pinger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		pinger: pinger,
		info:   info,
	}
}

// Health обрабатывает GET /api/v1/health
// Не обращается к БД, только метаданные окружения
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(h.logger, w, api.HealthResponse{
		Status:  "ok",
		App:     h.info.Name,
		Env:     h.info.Env,
		Version: h.info.Version,
	}, http.StatusOK)
}

// Healthz обрабатывает GET /api/v1/healthz (k8s convention).
// Отвечает 503, если хранилище недоступно.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "storage ping failed", slog.Any("error", err))
			respond.Error(h.logger, w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	respond.JSON(h.logger, w, api.HealthResponse{Status: "ok"}, http.StatusOK)
}
