package handlers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/authstarter/internal/crypto"
	"github.com/iudanet/authstarter/internal/server/auth"
	"github.com/iudanet/authstarter/internal/server/jwt"
	"github.com/iudanet/authstarter/internal/server/storage"
	"github.com/iudanet/authstarter/internal/server/storage/sqlite"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// countingProvider считает открытые и освобожденные сессии
type countingProvider struct {
	storage.Provider
	acquireErr error
	acquired   atomic.Int32
	released   atomic.Int32
}

type countingSession struct {
	storage.Session
	parent *countingProvider
}

func (s *countingSession) Release() {
	s.parent.released.Add(1)
	s.Session.Release()
}

func (p *countingProvider) Acquire(ctx context.Context) (storage.Session, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	sess, err := p.Provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	p.acquired.Add(1)
	return &countingSession{Session: sess, parent: p}, nil
}

type testEnv struct {
	provider *countingProvider
	tokens   *jwt.Service
	handler  *AuthHandler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := jwt.NewService("handler-test-secret", "HS256")
	require.NoError(t, err)

	factory, err := auth.NewFactory(auth.Config{
		Hasher:   crypto.NewPasswordHasher(bcrypt.MinCost),
		Tokens:   tokens,
		TokenTTL: 30 * time.Minute,
	})
	require.NoError(t, err)

	provider := &countingProvider{Provider: st}

	return &testEnv{
		provider: provider,
		tokens:   tokens,
		handler:  NewAuthHandler(setupTestLogger(), provider, factory),
	}
}

var errAcquire = errors.New("pool exhausted")
