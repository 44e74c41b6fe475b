package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/leaguehub/pkg/api"
)

func (c *Cli) runClubs(ctx context.Context, args []string) error {
	parsed, err := parseListArgs("clubs", args)
	if err != nil {
		return err
	}

	lang, err := c.language(ctx)
	if err != nil {
		return err
	}

	if parsed.id != 0 {
		club, err := c.content.GetClub(ctx, lang, parsed.id)
		if err != nil {
			return fmt.Errorf("failed to get club: %w", err)
		}
		c.printClub(club)
		return nil
	}

	page, err := c.content.ListClubs(ctx, lang, parsed.limit, parsed.offset)
	if err != nil {
		return fmt.Errorf("failed to list clubs: %w", err)
	}

	if len(page.Items) == 0 && page.Total == 0 {
		c.io.Println("No clubs found.")
		return nil
	}

	for _, club := range page.Items {
		line := fmt.Sprintf("%4d  %s", club.ID, club.Name)
		if club.City != "" {
			line += " (" + club.City + ")"
		}
		c.io.Println(line)
	}
	c.printPage(len(page.Items), page.Total, page.Offset)

	return nil
}

func (c *Cli) printClub(club *api.ClubView) {
	c.io.Printf("ID:      %d\n", club.ID)
	c.io.Printf("Name:    %s\n", club.Name)
	if club.City != "" {
		c.io.Printf("City:    %s\n", club.City)
	}
	if club.Founded != 0 {
		c.io.Printf("Founded: %d\n", club.Founded)
	}
	if club.LogoURL != "" {
		c.io.Printf("Logo:    %s\n", club.LogoURL)
	}
}
