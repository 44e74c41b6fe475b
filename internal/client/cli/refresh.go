package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runRefresh(ctx context.Context) error {
	session, err := c.authService.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	c.io.Println("✓ Tokens rotated")
	c.io.Printf("Access token expires: %s\n", time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))

	return nil
}
