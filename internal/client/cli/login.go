package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/authstarter/internal/client/storage"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.emailFrom(args)
	if err != nil {
		return err
	}

	password, err := c.getPassword("Password: ", false)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	token, err := c.apiClient.Login(ctx, email, password)
	if err != nil {
		return describe(err)
	}

	authData := &storage.AuthData{
		Email:       email,
		ServerURL:   c.apiClient.BaseURL(),
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		SavedAt:     c.now().UTC(),
	}
	if expiresAt, ok := tokenExpiry(token.AccessToken); ok {
		authData.ExpiresAt = expiresAt.Unix()
	}

	if err := c.store.SaveAuth(ctx, authData); err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", email)
	if authData.ExpiresAt != 0 {
		c.io.Printf("Access token expires: %s\n", time.Unix(authData.ExpiresAt, 0).UTC().Format(time.RFC3339))
	}
	c.io.Println()
	c.io.Println("Your session has been saved.")

	return nil
}

// tokenExpiry читает exp из токена без проверки подписи.
// Клиент не знает секрет, значение нужно только для подсказок пользователю.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
