package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/authstarter/internal/apperr"
	"github.com/iudanet/authstarter/internal/server/auth"
	"github.com/iudanet/authstarter/internal/server/handlers"
	"github.com/iudanet/authstarter/internal/server/middleware"
	"github.com/iudanet/authstarter/internal/server/respond"
	"github.com/iudanet/authstarter/internal/server/storage"
)

// APIPrefix is the mount point of all routes
const APIPrefix = "/api/v1"

// RouterDeps holds everything the router needs
type RouterDeps struct {
	Logger   *slog.Logger
	Provider storage.Provider
	Auth     *auth.Factory
	Info     handlers.AppInfo
	CORS     middleware.CORSConfig
	Debug    bool

	// LoginLimiter ограничивает /login; nil отключает лимит
	LoginLimiter *middleware.RateLimiter

	// TrustProxyHeaders разрешает лимитеру брать IP из X-Forwarded-For/X-Real-IP
	TrustProxyHeaders bool
}

// NewRouter builds the HTTP handler with all routes and global middleware
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger

	authHandler := handlers.NewAuthHandler(logger, deps.Provider, deps.Auth)
	healthHandler := handlers.NewHealthHandler(logger, deps.Info, deps.Provider)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET "+APIPrefix+"/health", healthHandler.Health)
	mux.HandleFunc("GET "+APIPrefix+"/healthz", healthHandler.Healthz)
	mux.HandleFunc("POST "+APIPrefix+"/register", authHandler.Register)
	mux.HandleFunc("GET "+APIPrefix+"/users", authHandler.Users)

	var login http.Handler = http.HandlerFunc(authHandler.Login)
	if deps.LoginLimiter != nil {
		login = middleware.RateLimitMiddleware(deps.LoginLimiter, logger, deps.TrustProxyHeaders)(login)
	}
	mux.Handle("POST "+APIPrefix+"/login", login)

	// Protected
	requireAuth := middleware.AuthMiddleware(logger, deps.Provider, deps.Auth)
	mux.Handle("GET "+APIPrefix+"/secure", requireAuth(http.HandlerFunc(authHandler.Secure)))

	if deps.Debug {
		debugHandler := handlers.NewDebugHandler(logger)
		mux.HandleFunc("GET "+APIPrefix+"/not-found", debugHandler.NotFound)
		mux.HandleFunc("GET "+APIPrefix+"/bad-request", debugHandler.BadRequest)
		mux.HandleFunc("GET "+APIPrefix+"/exception", debugHandler.Exception)
	}

	// Неизвестные пути получают тот же формат ошибки
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond.AppError(r.Context(), logger, w, apperr.NotFound("resource not found"))
	})

	// Порядок: request id -> logging -> recovery -> CORS -> mux
	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(deps.CORS)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{
		APIPrefix + "/health",
		APIPrefix + "/healthz",
	})(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	return handler
}
