package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/iudanet/authstarter/internal/models"
	"github.com/iudanet/authstarter/internal/server/storage"
)

const userColumns = `id, email, hashed_password, full_name, is_active, created_at, last_login_at`

// session is a storage.Session bound to one *sql.Conn
type session struct {
	conn      *sql.Conn
	logger    *slog.Logger
	echoQuery bool
}

var _ storage.Session = (*session)(nil)

// Release returns the connection to the pool
func (s *session) Release() {
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		s.logger.Warn("failed to release connection", slog.Any("error", err))
	}
}

func (s *session) echo(ctx context.Context, query string) {
	if s.echoQuery {
		// Параметры не логируем: среди них может быть хеш пароля
		s.logger.DebugContext(ctx, "sql", slog.String("query", query))
	}
}

// CreateUser creates a new user in the storage
func (s *session) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, hashed_password, full_name, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	s.echo(ctx, query)

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	result, err := s.conn.ExecContext(ctx, query,
		user.Email,
		user.HashedPassword,
		user.FullName,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		// Проверяем на duplicate email
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByEmail retrieves user by email
func (s *session) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	s.echo(ctx, query)

	return scanUser(s.conn.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves user by ID
func (s *session) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	s.echo(ctx, query)

	return scanUser(s.conn.QueryRowContext(ctx, query, userID))
}

// ListUsers returns all users ordered by id
func (s *session) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`
	s.echo(ctx, query)

	rows, err := s.conn.QueryContext(ctx, query)
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
	query := `UPDATE users SET last_login_at = ? WHERE id = ?`
	s.echo(ctx, query)

	return s.execAffectingUser(ctx, query, lastLogin.UTC(), userID)
}

// SetActive activates or deactivates user
func (s *session) SetActive(ctx context.Context, userID int64, active bool) error {
	query := `UPDATE users SET is_active = ? WHERE id = ?`
	s.echo(ctx, query)

	return s.execAffectingUser(ctx, query, active, userID)
}

func (s *session) execAffectingUser(ctx context.Context, query string, args ...any) error {
	result, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var (
		fullName  sql.NullString
		lastLogin sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&fullName,
		&user.IsActive,
		&user.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if fullName.Valid {
		user.FullName = &fullName.String
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}

	return user, nil
}
