// Package server wires configuration, storage and HTTP routing into a runnable server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/authstarter/internal/config"
	"github.com/iudanet/authstarter/internal/crypto"
	"github.com/iudanet/authstarter/internal/server/auth"
	"github.com/iudanet/authstarter/internal/server/handlers"
	"github.com/iudanet/authstarter/internal/server/jwt"
	"github.com/iudanet/authstarter/internal/server/middleware"
	"github.com/iudanet/authstarter/internal/server/storage"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	loginRateWindow   = time.Minute
)

// Server is the HTTP API server
type Server struct {
	logger   *slog.Logger
	provider storage.Provider
	limiter  *middleware.RateLimiter
	http     *http.Server
}

// New opens storage and builds the HTTP server from cfg
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Server, error) {
	tokens, err := jwt.NewService(cfg.JWTSecretKey, cfg.JWTAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	factory, err := auth.NewFactory(auth.Config{
		Hasher:   crypto.NewPasswordHasher(cfg.BcryptCost),
		Tokens:   tokens,
		TokenTTL: cfg.TokenTTL(),
	})
	if err != nil {
		return nil, err
	}

	provider, err := OpenStorage(ctx, cfg.DatabaseURL, logger, cfg.DBEcho)
	if err != nil {
		return nil, err
	}

	if cfg.Debug && cfg.IsProduction() {
		logger.WarnContext(ctx, "debug routes are enabled in production", slog.String("env", cfg.AppEnv))
	}

	s := &Server{
		logger:   logger,
		provider: provider,
	}
	if cfg.LoginRateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.LoginRateLimit, loginRateWindow, logger)
	}

	handler := NewRouter(RouterDeps{
		Logger:            logger,
		Provider:          provider,
		Auth:              factory,
		LoginLimiter:      s.limiter,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Info: handlers.AppInfo{
			Name:    cfg.AppName,
			Env:     cfg.AppEnv,
			Version: version,
		},
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.Origins(),
			AllowCredentials: true,
		},
		Debug: cfg.Debug,
	})

	s.http = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run listens on the configured address until ctx is canceled,
// then shuts down gracefully and releases resources
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", slog.String("addr", ln.Addr().String()))
		errCh <- s.http.Serve(ln)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	if err := s.Close(); err != nil && serveErr == nil {
		serveErr = err
	}

	return serveErr
}

// Close releases storage and background workers
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.provider.Close()
}
