package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/authstarter/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const maxOpenConns = 8

// pragmas применяются к каждому новому соединению через DSN
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// Storage represents SQLite storage implementation
type Storage struct {
	db        *sql.DB
	logger    *slog.Logger
	echoQuery bool
}

var _ storage.Provider = (*Storage)(nil)

// Option configures Storage
type Option func(*Storage)

// WithLogger sets the logger used for query echo
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// WithQueryLog enables logging of every SQL statement at debug level
func WithQueryLog(enabled bool) Option {
	return func(s *Storage) {
		s.echoQuery = enabled
	}
}

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	inMemory := dbPath == ":memory:"

	// Открываем соединение с БД
	db, err := sql.Open("sqlite", dsn(dbPath, inMemory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if inMemory {
		// ":memory:" живет в рамках одного соединения
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		// WAL допускает параллельных читателей, писатели ждут через busy_timeout.
		// Сессия держит соединение на весь запрос, включая bcrypt, поэтому
		// одного соединения мало
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	s := &Storage{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Запускаем миграции
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// dsn builds the driver DSN with per-connection pragmas
func dsn(dbPath string, inMemory bool) string {
	params := make([]string, 0, len(pragmas))
	for _, pragma := range pragmas {
		if inMemory && strings.HasPrefix(pragma, "journal_mode") {
			continue
		}
		params = append(params, "_pragma="+pragma)
	}

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}

// Acquire returns a session bound to a dedicated connection
func (s *Storage) Acquire(ctx context.Context) (storage.Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return &session{
		conn:      conn,
		logger:    s.logger,
		echoQuery: s.echoQuery,
	}, nil
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// runMigrations выполняет миграции из embedded FS
func (s *Storage) runMigrations() error {
	goose.SetDialect("sqlite3")
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}
