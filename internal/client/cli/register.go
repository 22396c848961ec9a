package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/authstarter/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.emailFrom(args)
	if err != nil {
		return err
	}

	fullName, err := c.io.ReadInput("Full name (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read full name: %w", err)
	}

	password, err := c.getPassword("Password (min 8 chars): ", true)
	if err != nil {
		return err
	}

	req := api.RegisterRequest{Email: email, Password: password}
	if fullName != "" {
		req.FullName = &fullName
	}

	c.io.Println()
	c.io.Println("Registering user...")

	user, err := c.apiClient.Register(ctx, req)
	if err != nil {
		return describe(err)
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %d\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Println()
	c.io.Println("Please run 'authstarter login' to get an access token.")

	return nil
}
