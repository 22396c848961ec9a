package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/authstarter/internal/apperr"
	"github.com/iudanet/authstarter/internal/server/auth"
	"github.com/iudanet/authstarter/internal/server/respond"
	"github.com/iudanet/authstarter/internal/server/storage"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Пользователь загружается из БД и кладется в context (auth.UserFromContext).
func AuthMiddleware(logger *slog.Logger, provider storage.Provider, factory *auth.Factory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r)
			if !ok {
				logger.DebugContext(ctx, "missing or malformed Authorization header")
				respond.AppError(ctx, logger, w, apperr.Unauthenticated(auth.MsgInvalidToken, nil))
				return
			}

			sess, err := provider.Acquire(ctx)
			if err != nil {
				respond.AppError(ctx, logger, w, apperr.Internal(err))
				return
			}
			user, err := factory.For(sess).ResolveFromToken(ctx, token)
			sess.Release()
			if err != nil {
				respond.AppError(ctx, logger, w, err)
				return
			}

			logger.DebugContext(ctx, "user authenticated", slog.Int64("user_id", user.ID))

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(auth.WithUser(ctx, user)))
		})
	}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>".
// Схема сравнивается без учета регистра.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
