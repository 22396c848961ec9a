// Package respond writes JSON responses and the uniform error envelope.
package respond

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/authstarter/internal/apperr"
	"github.com/iudanet/authstarter/pkg/api"
)

// StatusValidationError используется для ошибок валидации запроса
const StatusValidationError = http.StatusUnprocessableEntity

// Label returns the envelope "error" field for a status code
func Label(status int) string {
	if status == StatusValidationError {
		return "Validation Error"
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "HTTP Error"
}

// JSON отправляет JSON ответ
func JSON(logger *slog.Logger, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// Error отправляет JSON ответ с ошибкой
func Error(logger *slog.Logger, w http.ResponseWriter, message string, status int) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	JSON(logger, w, api.ErrorResponse{
		Error:   Label(status),
		Message: message,
	}, status)
}

// StatusOf maps an error kind to an HTTP status.
// Conflicts are reported as 400 to keep the public contract of /register.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindBadRequest, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindValidation:
		return StatusValidationError
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError converts err into the error envelope.
// Internal causes are logged and never sent to the client.
func AppError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	status := StatusOf(appErr.Kind)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
	} else {
		logger.DebugContext(ctx, "request rejected",
			slog.String("kind", appErr.Kind.String()),
			slog.Any("error", err))
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	resp := api.ErrorResponse{
		Error:   Label(status),
		Message: appErr.Message,
	}
	for _, d := range appErr.Details {
		resp.Details = append(resp.Details, api.FieldError{Field: d.Field, Message: d.Message})
	}

	JSON(logger, w, resp, status)
}
