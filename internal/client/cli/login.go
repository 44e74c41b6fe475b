package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		email, err = c.io.ReadInput("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	password, err := c.getPassword()
	if err != nil {
		return err
	}

	c.io.Println("Authenticating...")

	session, err := c.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Name:  %s\n", session.Name)
	c.io.Printf("Email: %s\n", session.Email)
	if len(session.Permissions) > 0 {
		c.io.Printf("Permissions: %s\n", strings.Join(session.Permissions, ", "))
	}
	c.io.Printf("Access token expires: %s\n", time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))

	return nil
}
