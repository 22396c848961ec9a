package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the CLI session on the client
type AuthStorage interface {
	// SaveAuth stores authentication data, replacing the previous session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	// Returns ErrAuthNotFound if there is nothing to delete
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a stored token exists and has not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the saved session of the CLI client
type AuthData struct {
	SavedAt     time.Time `json:"saved_at"`
	Email       string    `json:"email"`
	ServerURL   string    `json:"server_url"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   int64     `json:"expires_at"` // unix seconds, 0 если срок неизвестен
}

// Expired reports whether the token expiry is known and reached at now
func (a *AuthData) Expired(now time.Time) bool {
	return a.ExpiresAt != 0 && !now.Before(time.Unix(a.ExpiresAt, 0))
}
