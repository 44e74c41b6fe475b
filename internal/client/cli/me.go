package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runMe(ctx context.Context) error {
	profile, err := c.authService.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	c.io.Printf("ID:          %d\n", profile.ID)
	c.io.Printf("Name:        %s\n", profile.Name)
	c.io.Printf("Email:       %s\n", profile.Email)
	c.io.Printf("Roles:       %s\n", strings.Join(profile.Roles, ", "))
	c.io.Printf("Permissions: %s\n", strings.Join(profile.Permissions, ", "))

	return nil
}
