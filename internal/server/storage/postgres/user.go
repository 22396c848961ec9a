package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iudanet/authstarter/internal/models"
	"github.com/iudanet/authstarter/internal/server/storage"
)

const (
	userColumns = `id, email, hashed_password, full_name, is_active, created_at, last_login_at`

	// uniqueViolation is the SQLSTATE for unique_violation
	uniqueViolation = "23505"
)

// session is a storage.Session bound to one pooled connection
type session struct {
	conn      *pgxpool.Conn
	logger    *slog.Logger
	echoQuery bool
}

var _ storage.Session = (*session)(nil)

// Release returns the connection to the pool
func (s *session) Release() {
	s.conn.Release()
}

func (s *session) echo(ctx context.Context, query string) {
	if s.echoQuery {
		s.logger.DebugContext(ctx, "sql", slog.String("query", query))
	}
}

// CreateUser creates a new user in the storage
func (s *session) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, hashed_password, full_name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	s.echo(ctx, query)

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := s.conn.QueryRow(ctx, query,
		user.Email,
		user.HashedPassword,
		user.FullName,
		user.IsActive,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *session) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	s.echo(ctx, query)

	return scanUser(s.conn.QueryRow(ctx, query, email))
}

// GetUserByID retrieves user by ID
func (s *session) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	s.echo(ctx, query)

	return scanUser(s.conn.QueryRow(ctx, query, userID))
}

// ListUsers returns all users ordered by id
func (s *session) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`
	s.echo(ctx, query)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// UpdateLastLogin updates the last login timestamp
func (s *session) UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error {
	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`
	s.echo(ctx, query)

	return s.execAffectingUser(ctx, query, lastLogin.UTC(), userID)
}

// SetActive activates or deactivates user
func (s *session) SetActive(ctx context.Context, userID int64, active bool) error {
	query := `UPDATE users SET is_active = $1 WHERE id = $2`
	s.echo(ctx, query)

	return s.execAffectingUser(ctx, query, active, userID)
}

func (s *session) execAffectingUser(ctx context.Context, query string, args ...any) error {
	tag, err := s.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.FullName,
		&user.IsActive,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
