package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authstarter/internal/models"
	"github.com/iudanet/authstarter/internal/server/storage"
)

// setupTestStorage подключается к тестовой БД из TEST_DATABASE_URL,
// без нее тесты пропускаются
func setupTestStorage(t *testing.T) (storage.Session, func()) {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	s, err := New(ctx, url)
	require.NoError(t, err)

	_, err = s.pool.Exec(ctx, `TRUNCATE TABLE users RESTART IDENTITY`)
	require.NoError(t, err)

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)

	return sess, func() {
		sess.Release()
		_ = s.Close()
	}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@test.com", prefix, time.Now().UnixNano())
}

func TestUserStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	fullName := "Alan Turing"
	user := &models.User{
		Email:          uniqueEmail("create"),
		HashedPassword: "$2a$04$hash",
		FullName:       &fullName,
		IsActive:       true,
	}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	require.NotNil(t, byID.FullName)
	assert.Equal(t, fullName, *byID.FullName)
	assert.Nil(t, byID.LastLoginAt)

	byEmail, err := s.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.GetUserByEmail(ctx, "missing@test.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	email := uniqueEmail("dup")
	require.NoError(t, s.CreateUser(ctx, &models.User{Email: email, HashedPassword: "h1", IsActive: true}))

	err := s.CreateUser(ctx, &models.User{Email: email, HashedPassword: "h2", IsActive: true})
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestUserStorage_UpdatesAndList(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	first := &models.User{Email: uniqueEmail("first"), HashedPassword: "h", IsActive: true}
	second := &models.User{Email: uniqueEmail("second"), HashedPassword: "h", IsActive: true}
	require.NoError(t, s.CreateUser(ctx, first))
	require.NoError(t, s.CreateUser(ctx, second))

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, s.UpdateLastLogin(ctx, first.ID, now))
	require.NoError(t, s.SetActive(ctx, second.ID, false))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)
	require.NotNil(t, users[0].LastLoginAt)
	assert.True(t, now.Equal(*users[0].LastLoginAt))
	assert.False(t, users[1].IsActive)

	assert.ErrorIs(t, s.UpdateLastLogin(ctx, 424242, now), storage.ErrUserNotFound)
}
