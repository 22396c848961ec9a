package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (c *Cli) runUsers(ctx context.Context) error {
	users, err := c.apiClient.Users(ctx)
	if err != nil {
		return describe(err)
	}

	if len(users) == 0 {
		c.io.Println("No users registered.")
		return nil
	}

	tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tFULL NAME\tACTIVE")
	for _, user := range users {
		fullName := "-"
		if user.FullName != nil {
			fullName = *user.FullName
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", user.ID, user.Email, fullName, user.IsActive)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to print users: %w", err)
	}

	c.io.Printf("\nTotal: %d\n", len(users))
	return nil
}
