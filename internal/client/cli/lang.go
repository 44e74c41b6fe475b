package cli

import (
	"context"
	"fmt"
	"strings"
)

// langDefault сбрасывает сохраненный язык
const langDefault = "default"

func (c *Cli) runLang(ctx context.Context, args []string) error {
	if len(args) == 0 {
		lang, err := c.prefs.GetLanguage(ctx)
		if err != nil {
			return fmt.Errorf("failed to get preferred language: %w", err)
		}
		if lang == "" {
			c.io.Println("Language: server default")
			return nil
		}
		c.io.Printf("Language: %s\n", lang)
		return nil
	}

	lang := strings.ToLower(strings.TrimSpace(args[0]))
	if lang == langDefault {
		lang = ""
	}

	// Набор языков проверяется на сервере
	if err := c.prefs.SaveLanguage(ctx, lang); err != nil {
		return fmt.Errorf("failed to save language: %w", err)
	}

	if lang == "" {
		c.io.Println("✓ Language reset to server default")
		return nil
	}
	c.io.Printf("✓ Language set to %s\n", lang)

	return nil
}
