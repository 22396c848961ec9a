package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudanet/authstarter/internal/server/storage"
	"github.com/iudanet/authstarter/internal/server/storage/postgres"
	"github.com/iudanet/authstarter/internal/server/storage/sqlite"
)

// Driver identifies a storage backend
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DatabaseTarget is a parsed DATABASE_URL
type DatabaseTarget struct {
	Driver Driver
	// DSN is a file path for SQLite and a connection URL for PostgreSQL
	DSN string
}

// ParseDatabaseURL разбирает DATABASE_URL.
//
// Поддерживаемые формы:
//
//	:memory:, sqlite://:memory:
//	sqlite://app.db, sqlite:///./app.db, sqlite:////var/lib/app.db
//	postgres://..., postgresql://..., postgresql+<driver>://...
func ParseDatabaseURL(raw string) (DatabaseTarget, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == ":memory:":
		return DatabaseTarget{Driver: DriverSQLite, DSN: ":memory:"}, nil

	case strings.HasPrefix(raw, "sqlite://"):
		// sqlite:///path -> относительный path, sqlite:////path -> абсолютный
		path := strings.TrimPrefix(raw, "sqlite://")
		if strings.HasPrefix(path, "/") {
			path = path[1:]
		}
		if path == "" {
			return DatabaseTarget{}, fmt.Errorf("%w: empty sqlite path", storage.ErrUnsupportedDatabase)
		}
		return DatabaseTarget{Driver: DriverSQLite, DSN: path}, nil

	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DatabaseTarget{Driver: DriverPostgres, DSN: raw}, nil

	case strings.HasPrefix(raw, "postgresql+"):
		// Имя драйвера из SQLAlchemy-подобного URL pgx не понимает
		_, rest, ok := strings.Cut(raw, "://")
		if !ok {
			break
		}
		return DatabaseTarget{Driver: DriverPostgres, DSN: "postgresql://" + rest}, nil
	}

	scheme, _, _ := strings.Cut(raw, "://")
	return DatabaseTarget{}, fmt.Errorf("%w: %q", storage.ErrUnsupportedDatabase, scheme)
}

// OpenStorage opens the storage described by databaseURL and applies migrations
func OpenStorage(ctx context.Context, databaseURL string, logger *slog.Logger, echo bool) (storage.Provider, error) {
	target, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	// Возвращаем nil интерфейс при ошибке, а не typed nil
	switch target.Driver {
	case DriverPostgres:
		s, err := postgres.New(ctx, target.DSN,
			postgres.WithLogger(logger),
			postgres.WithQueryLog(echo),
		)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return s, nil
	default:
		s, err := sqlite.New(ctx, target.DSN,
			sqlite.WithLogger(logger),
			sqlite.WithQueryLog(echo),
		)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return s, nil
	}
}
