package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/leaguehub/pkg/api"
)

const newsDateLayout = "2006-01-02 15:04"

func (c *Cli) runNews(ctx context.Context, args []string) error {
	parsed, err := parseListArgs("news", args)
	if err != nil {
		return err
	}

	lang, err := c.language(ctx)
	if err != nil {
		return err
	}

	if parsed.id != 0 {
		item, err := c.content.GetNews(ctx, lang, parsed.id)
		if err != nil {
			return fmt.Errorf("failed to get news: %w", err)
		}
		c.printNews(item)
		return nil
	}

	page, err := c.content.ListNews(ctx, lang, parsed.limit, parsed.offset)
	if err != nil {
		return fmt.Errorf("failed to list news: %w", err)
	}

	if len(page.Items) == 0 && page.Total == 0 {
		c.io.Println("No news published yet.")
		return nil
	}

	for _, item := range page.Items {
		c.io.Printf("%4d  %s  %s\n", item.ID, publishedAt(item.PublishedAt), item.Title)
	}
	c.printPage(len(page.Items), page.Total, page.Offset)

	return nil
}

func (c *Cli) printNews(item *api.NewsView) {
	c.io.Printf("#%d %s\n", item.ID, item.Title)
	c.io.Printf("Published: %s\n", publishedAt(item.PublishedAt))
	if item.ClubID != nil {
		c.io.Printf("Club: %d\n", *item.ClubID)
	}
	c.io.Println()
	c.io.Println(item.Body)
}

func publishedAt(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(newsDateLayout)
}
