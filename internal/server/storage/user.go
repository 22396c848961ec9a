package storage

import (
	"context"
	"time"

	"github.com/iudanet/authstarter/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser inserts a new user and fills user.ID.
	// Returns ErrUserAlreadyExists if email is already registered
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// ListUsers returns all users ordered by ID ascending
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateLastLogin updates the last login timestamp
	// Safe to call repeatedly; returns ErrUserNotFound if user doesn't exist
	UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error

	// SetActive activates or deactivates user (soft delete)
	// Returns ErrUserNotFound if user doesn't exist
	SetActive(ctx context.Context, userID int64, active bool) error
}

// Session is a request-scoped handle to the storage backed by one dedicated
// connection. Release must be called exactly once when the request is done.
type Session interface {
	UserStorage
	Release()
}

// Provider hands out sessions from the underlying connection pool
type Provider interface {
	// Acquire returns a new session bound to a single connection
	Acquire(ctx context.Context) (Session, error)

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error

	// Close closes the pool
	Close() error
}
