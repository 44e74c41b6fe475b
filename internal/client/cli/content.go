package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
)

// listArgs разобранные аргументы команд clubs/news
type listArgs struct {
	id     int64 // 0 - список
	limit  int
	offset int
}

func parseListArgs(command string, args []string) (*listArgs, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var parsed listArgs
	fs.IntVar(&parsed.limit, "limit", 0, "page size")
	fs.IntVar(&parsed.offset, "offset", 0, "items to skip")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid %s arguments: %w", command, err)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q: must be a positive integer", fs.Arg(0))
		}
		parsed.id = id
	default:
		return nil, fmt.Errorf("usage: leaguectl %s [--limit N] [--offset N] [id]", command)
	}

	if parsed.limit < 0 || parsed.offset < 0 {
		return nil, fmt.Errorf("limit and offset must not be negative")
	}

	return &parsed, nil
}

// printPage печатает строку пагинации под списком
func (c *Cli) printPage(shown, total, offset int) {
	c.io.Println()
	if shown == 0 {
		c.io.Printf("Showing 0 of %d\n", total)
		return
	}
	c.io.Printf("Showing %d-%d of %d\n", offset+1, offset+shown, total)
}
