// Package auth implements registration, login and token resolution on top of
// a request-scoped user storage session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/authstarter/internal/apperr"
	"github.com/iudanet/authstarter/internal/crypto"
	"github.com/iudanet/authstarter/internal/models"
	"github.com/iudanet/authstarter/internal/server/jwt"
	"github.com/iudanet/authstarter/internal/server/storage"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgEmailRegistered    = "email already registered"
)

// MsgInvalidToken is the message of every 401 produced for a protected route,
// whatever was wrong with the token or the header carrying it
const MsgInvalidToken = "invalid or expired token"

// dummyPassword хешируется один раз при старте, чтобы проверка пароля
// для неизвестного email занимала столько же времени
const dummyPassword = "authstarter-dummy-password"

// Config holds dependencies shared by every request
type Config struct {
	Hasher   *crypto.PasswordHasher
	Tokens   *jwt.Service
	Now      func() time.Time
	TokenTTL time.Duration
}

// Factory creates request-scoped services
type Factory struct {
	cfg       Config
	dummyHash string
}

// NewFactory validates cfg and prepares shared state
func NewFactory(cfg Config) (*Factory, error) {
	if cfg.Hasher == nil || cfg.Tokens == nil {
		return nil, errors.New("auth: hasher and token service are required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	dummyHash, err := cfg.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to prepare dummy hash: %w", err)
	}

	return &Factory{cfg: cfg, dummyHash: dummyHash}, nil
}

// For returns a service bound to the given storage session
func (f *Factory) For(users storage.UserStorage) *Service {
	return &Service{
		users:     users,
		cfg:       f.cfg,
		dummyHash: f.dummyHash,
	}
}

// Service implements the authentication flow for a single request
type Service struct {
	users     storage.UserStorage
	cfg       Config
	dummyHash string
}

// Register creates a new active user and returns its public view
func (s *Service) Register(ctx context.Context, email, password string, fullName *string) (models.PublicUser, error) {
	if err := crypto.ValidatePasswordLength(password); err != nil {
		return models.PublicUser{}, apperr.BadRequest(err.Error(), err)
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return models.PublicUser{}, apperr.Conflict(msgEmailRegistered, storage.ErrUserAlreadyExists)
	case !errors.Is(err, storage.ErrUserNotFound):
		return models.PublicUser{}, apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}

	hash, err := s.cfg.Hasher.Hash(password)
	if err != nil {
		return models.PublicUser{}, apperr.BadRequest(err.Error(), err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       fullName,
		IsActive:       true,
		CreatedAt:      s.cfg.Now().UTC(),
	}

	// Уникальный индекс в БД окончательно решает гонку двух регистраций
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return models.PublicUser{}, apperr.Conflict(msgEmailRegistered, err)
		}
		return models.PublicUser{}, apperr.Internal(fmt.Errorf("create user: %w", err))
	}

	return user.Public(), nil
}

// Login checks credentials, records the login time and issues an access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.cfg.Hasher.Verify(password, s.dummyHash)
			return "", apperr.Unauthenticated(msgInvalidCredentials, err)
		}
		return "", apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}

	if !s.cfg.Hasher.Verify(password, user.HashedPassword) {
		return "", apperr.Unauthenticated(msgInvalidCredentials, nil)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.cfg.Now().UTC()); err != nil {
		return "", apperr.Internal(fmt.Errorf("update last login: %w", err))
	}

	token, err := s.cfg.Tokens.Issue(strconv.FormatInt(user.ID, 10), s.cfg.TokenTTL)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("issue token: %w", err))
	}

	return token, nil
}

// ResolveFromToken returns the active user identified by the token subject
func (s *Service) ResolveFromToken(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.cfg.Tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthenticated(MsgInvalidToken, err)
	}

	// Только десятичное число без знака и пробелов
	if subject == "" || strings.TrimLeft(subject, "0123456789") != "" {
		return nil, apperr.Unauthenticated(MsgInvalidToken, fmt.Errorf("non-numeric subject %q", subject))
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, apperr.Unauthenticated(MsgInvalidToken, err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.Unauthenticated(MsgInvalidToken, err)
		}
		return nil, apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}

	if !user.IsActive {
		return nil, apperr.Unauthenticated(MsgInvalidToken, errors.New("user is inactive"))
	}

	return user, nil
}

// ListUsers returns public views of all users ordered by id
func (s *Service) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list users: %w", err))
	}

	result := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		result = append(result, user.Public())
	}

	return result, nil
}
