package server

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authstarter/internal/server/storage"
)

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    DatabaseTarget
		wantErr bool
	}{
		{name: "memory", raw: ":memory:", want: DatabaseTarget{Driver: DriverSQLite, DSN: ":memory:"}},
		{name: "sqlite memory url", raw: "sqlite://:memory:", want: DatabaseTarget{Driver: DriverSQLite, DSN: ":memory:"}},
		{name: "sqlite two slashes", raw: "sqlite://authstarter.db", want: DatabaseTarget{Driver: DriverSQLite, DSN: "authstarter.db"}},
		{name: "sqlite relative", raw: "sqlite:///./app.db", want: DatabaseTarget{Driver: DriverSQLite, DSN: "./app.db"}},
		{name: "sqlite absolute", raw: "sqlite:////var/lib/app.db", want: DatabaseTarget{Driver: DriverSQLite, DSN: "/var/lib/app.db"}},
		{name: "postgres", raw: "postgres://u:p@db:5432/app", want: DatabaseTarget{Driver: DriverPostgres, DSN: "postgres://u:p@db:5432/app"}},
		{name: "postgresql", raw: "postgresql://u:p@db/app", want: DatabaseTarget{Driver: DriverPostgres, DSN: "postgresql://u:p@db/app"}},
		{name: "postgresql with driver", raw: "postgresql+psycopg2://u:p@db/app", want: DatabaseTarget{Driver: DriverPostgres, DSN: "postgresql://u:p@db/app"}},
		{name: "empty sqlite path", raw: "sqlite://", wantErr: true},
		{name: "mysql", raw: "mysql://u:p@db/app", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDatabaseURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, storage.ErrUnsupportedDatabase)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenStorage_SQLiteFile(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "test.db")

	provider, err := OpenStorage(ctx, "sqlite:///"+path, logger, true)
	require.NoError(t, err)
	defer provider.Close()

	assert.NoError(t, provider.Ping(ctx))
	assert.FileExists(t, path)
}

func TestOpenStorage_Unsupported(t *testing.T) {
	provider, err := OpenStorage(context.Background(), "mongodb://localhost", slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	assert.ErrorIs(t, err, storage.ErrUnsupportedDatabase)
	assert.Nil(t, provider)
}
