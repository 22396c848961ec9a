package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Issuer is the value of the iss claim
const Issuer = "authstarter"

var (
	// ErrInvalidToken covers every verification failure: bad signature,
	// malformed structure, missing claims and expiry
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnsupportedAlgorithm indicates a signing algorithm other than HS256/HS384/HS512
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Service issues and verifies HMAC-signed access tokens
type Service struct {
	method *gojwt.SigningMethodHMAC
	now    func() time.Time
	secret []byte
}

// Option configures the Service
type Option func(*Service)

// WithClock overrides the time source (used in tests)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new JWT service.
// algorithm is a JOSE name such as "HS256".
func NewService(secret, algorithm string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}

	method, ok := gojwt.GetSigningMethod(algorithm).(*gojwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	s := &Service{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue creates a signed token for subject that expires after ttl.
// The issue instant is cut to whole seconds, the precision of NumericDate,
// so exp is exactly iat + ttl.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	now := s.now().Truncate(time.Second)

	claims := gojwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
	}

	token := gojwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the token and returns its subject.
// The token is rejected once now >= exp.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &gojwt.RegisteredClaims{}

	token, err := gojwt.ParseWithClaims(tokenString, claims,
		func(token *gojwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		// Принимаем только настроенный алгоритм (защита от alg=none и подмены)
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuer(Issuer),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
