package cli

import (
	"context"
)

func (c *Cli) runHealth(ctx context.Context) error {
	health, err := c.apiClient.Health(ctx)
	if err != nil {
		return describe(err)
	}

	c.io.Printf("Server: %s\n", c.apiClient.BaseURL())
	c.io.Printf("Status: %s\n", health.Status)
	if health.App != "" {
		c.io.Printf("App: %s\n", health.App)
	}
	if health.Env != "" {
		c.io.Printf("Env: %s\n", health.Env)
	}
	if health.Version != "" {
		c.io.Printf("Version: %s\n", health.Version)
	}

	return nil
}
