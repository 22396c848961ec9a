package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/authstarter/internal/client/api"
	"github.com/iudanet/authstarter/internal/client/storage"
)

// errNotAuthenticated is returned by commands that need a saved session
var errNotAuthenticated = errors.New("not authenticated. Please run 'authstarter login' first")

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'authstarter login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	now := c.now()
	if authData.Expired(now) {
		c.io.Println("Status: Token expired")
	} else {
		c.io.Println("Status: Authenticated")
	}
	c.io.Printf("Email: %s\n", authData.Email)
	c.io.Printf("Server: %s\n", authData.ServerURL)

	if authData.ExpiresAt == 0 {
		return nil
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0)
	c.io.Printf("Token expires: %s\n", expiresAt.UTC().Format(time.RFC3339))
	if remaining := expiresAt.Sub(now); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}

	return nil
}

func (c *Cli) runWhoami(ctx context.Context) error {
	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return errNotAuthenticated
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	if authData.Expired(c.now()) {
		return fmt.Errorf("token expired. Please run 'authstarter login' again")
	}

	user, err := c.apiClient.Me(ctx, authData.AccessToken)
	if err != nil {
		if api.IsUnauthorized(err) {
			// Токен больше не принимается сервером, сессия бесполезна
			if delErr := c.store.DeleteAuth(ctx); delErr != nil && !errors.Is(delErr, storage.ErrAuthNotFound) {
				return fmt.Errorf("failed to delete rejected session: %w", delErr)
			}
			return fmt.Errorf("session rejected by server, please login again: %w", err)
		}
		return describe(err)
	}

	c.io.Printf("ID: %d\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	if user.FullName != nil {
		c.io.Printf("Full name: %s\n", *user.FullName)
	}
	c.io.Printf("Active: %t\n", user.IsActive)

	return nil
}
