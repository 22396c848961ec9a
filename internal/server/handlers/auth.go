package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/authstarter/internal/apperr"
	"github.com/iudanet/authstarter/internal/models"
	"github.com/iudanet/authstarter/internal/server/auth"
	"github.com/iudanet/authstarter/internal/server/respond"
	"github.com/iudanet/authstarter/internal/server/storage"
	"github.com/iudanet/authstarter/internal/validation"
	"github.com/iudanet/authstarter/pkg/api"
)

// maxBodyBytes ограничивает размер тела запроса
const maxBodyBytes = 1 << 20

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger   *slog.Logger
	provider storage.Provider
	auth     *auth.Factory
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, provider storage.Provider, factory *auth.Factory) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		provider: provider,
		auth:     factory,
	}
}

// withSession открывает сессию хранилища на время запроса и гарантированно
// освобождает ее на любом пути выхода
func (h *AuthHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(svc *auth.Service)) {
	sess, err := h.provider.Acquire(r.Context())
	if err != nil {
		respond.AppError(r.Context(), h.logger, w, apperr.Internal(err))
		return
	}
	defer sess.Release()

	fn(h.auth.For(sess))
}

// Register обрабатывает POST /api/v1/register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.RegisterRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.DebugContext(ctx, "failed to decode register request", slog.Any("error", err))
		respond.AppError(ctx, h.logger, w, apperr.Validation("invalid request body", nil))
		return
	}

	if err := validation.Struct(&req); err != nil {
		respond.AppError(ctx, h.logger, w, err)
		return
	}

	h.withSession(w, r, func(svc *auth.Service) {
		user, err := svc.Register(ctx, req.Email, req.Password, req.FullName)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				h.logger.WarnContext(ctx, "email already registered", slog.String("email", req.Email))
			}
			respond.AppError(ctx, h.logger, w, err)
			return
		}

		h.logger.InfoContext(ctx, "user registered successfully",
			slog.Int64("user_id", user.ID),
			slog.String("email", user.Email))

		respond.JSON(h.logger, w, toUserResponse(user), http.StatusOK)
	})
}

// Login обрабатывает POST /api/v1/login
// Принимает form-urlencoded username (email) и password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.DebugContext(ctx, "failed to parse login form", slog.Any("error", err))
		respond.AppError(ctx, h.logger, w, apperr.Validation("invalid form body", nil))
		return
	}

	form := api.LoginForm{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := validation.Struct(&form); err != nil {
		respond.AppError(ctx, h.logger, w, err)
		return
	}

	h.withSession(w, r, func(svc *auth.Service) {
		token, err := svc.Login(ctx, form.Username, form.Password)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindUnauthenticated {
				h.logger.WarnContext(ctx, "login failed", slog.String("email", form.Username))
			}
			respond.AppError(ctx, h.logger, w, err)
			return
		}

		h.logger.InfoContext(ctx, "user logged in successfully", slog.String("email", form.Username))

		respond.JSON(h.logger, w, api.TokenResponse{
			AccessToken: token,
			TokenType:   api.TokenTypeBearer,
		}, http.StatusOK)
	})
}

// Secure обрабатывает GET /api/v1/secure
// Возвращает пользователя, которого AuthMiddleware положил в context
func (h *AuthHandler) Secure(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.AppError(r.Context(), h.logger, w, apperr.Internal(errors.New("secure route mounted without auth middleware")))
		return
	}

	respond.JSON(h.logger, w, toUserResponse(user.Public()), http.StatusOK)
}

// Users обрабатывает GET /api/v1/users
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(svc *auth.Service) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			respond.AppError(r.Context(), h.logger, w, err)
			return
		}

		resp := make([]api.UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, toUserResponse(u))
		}

		respond.JSON(h.logger, w, resp, http.StatusOK)
	})
}

func toUserResponse(u models.PublicUser) api.UserResponse {
	return api.UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		IsActive: u.IsActive,
	}
}
