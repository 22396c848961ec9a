package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/authstarter/internal/client/api"
	"github.com/iudanet/authstarter/internal/client/storage/boltdb"
	"github.com/iudanet/authstarter/internal/config"
	"github.com/iudanet/authstarter/internal/server"
)

// fakeIO отдает заранее заданные ответы и копит вывод
type fakeIO struct {
	out       bytes.Buffer
	inputs    []string
	passwords []string
}

func (f *fakeIO) Println(a ...any)               { fmt.Fprintln(&f.out, a...) }
func (f *fakeIO) Printf(format string, a ...any) { fmt.Fprintf(&f.out, format, a...) }
func (f *fakeIO) Write(p []byte) (int, error)    { return f.out.Write(p) }

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	f.out.WriteString(prompt)
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	f.out.WriteString(prompt)
	if len(f.passwords) == 0 {
		return "", errors.New("no terminal")
	}
	v := f.passwords[0]
	f.passwords = f.passwords[1:]
	return v, nil
}

type testEnv struct {
	io    *fakeIO
	store *boltdb.Storage
	cli   *Cli
	url   string
}

// setupTestEnv поднимает настоящий сервер на in-memory SQLite
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		AppName:          "authstarter",
		AppEnv:           "test",
		HTTPAddr:         "127.0.0.1:0",
		DatabaseURL:      ":memory:",
		JWTSecretKey:     "cli-test-secret",
		JWTAlgorithm:     "HS256",
		JWTExpireMinutes: 30,
		BcryptCost:       4,
		LoginRateLimit:   100,
	}
	srv, err := server.New(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fio := &fakeIO{}
	return &testEnv{
		io:    fio,
		store: store,
		cli:   New(fio, api.NewClient(ts.URL), store, Passwords{}),
		url:   ts.URL,
	}
}

// register заводит пользователя через команду клиента
func (e *testEnv) register(t *testing.T, email, password string) {
	t.Helper()
	e.io.inputs = append(e.io.inputs, "")
	e.io.passwords = append(e.io.passwords, password, password)
	require.NoError(t, e.cli.Run(context.Background(), []string{"register", email}))
	e.io.out.Reset()
}

func (e *testEnv) login(t *testing.T, email, password string) {
	t.Helper()
	e.io.passwords = append(e.io.passwords, password)
	require.NoError(t, e.cli.Run(context.Background(), []string{"login", email}))
	e.io.out.Reset()
}
