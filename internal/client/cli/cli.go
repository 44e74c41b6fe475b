package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/leaguehub/internal/client/auth"
	"github.com/iudanet/leaguehub/internal/client/iocli"
	"github.com/iudanet/leaguehub/internal/client/storage"
	"github.com/iudanet/leaguehub/pkg/api"
)

// PasswordEnv переменная окружения с паролем администратора
const PasswordEnv = "LEAGUEHUB_PASSWORD"

// ContentAPI - client API лиги. Реализуется *api.Client.
type ContentAPI interface {
	ListClubs(ctx context.Context, lang string, limit, offset int) (*api.ListResponse[api.ClubView], error)
	GetClub(ctx context.Context, lang string, id int64) (*api.ClubView, error)
	ListNews(ctx context.Context, lang string, limit, offset int) (*api.ListResponse[api.NewsView], error)
	GetNews(ctx context.Context, lang string, id int64) (*api.NewsView, error)
}

// Options глобальные флаги командной строки
type Options struct {
	Lang         string // --lang, перекрывает сохраненный язык
	PasswordFile string // --password-file
}

type Cli struct {
	io          iocli.IO
	authService *auth.Service
	content     ContentAPI
	prefs       storage.MetadataStorage
	opts        Options
}

func New(io iocli.IO, authService *auth.Service, content ContentAPI, prefs storage.MetadataStorage, opts Options) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		content:     content,
		prefs:       prefs,
		opts:        opts,
	}
}

// Run выполняет команду. Ошибка печатается вызывающим кодом.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	case "status":
		return c.runStatus(ctx)
	case "me":
		return c.runMe(ctx)
	case "clubs":
		return c.runClubs(ctx, args)
	case "news":
		return c.runNews(ctx, args)
	case "lang":
		return c.runLang(ctx, args)
	case "help":
		PrintUsage(c.io)
		return nil
	default:
		PrintUsage(c.io)
		return fmt.Errorf("unknown command: %s", command)
	}
}

// getPassword reads the admin password with priority:
// 1. Environment variable LEAGUEHUB_PASSWORD
// 2. File passed via --password-file
// 3. Interactive prompt (fallback)
func (c *Cli) getPassword() (string, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if c.opts.PasswordFile != "" {
		content, err := os.ReadFile(c.opts.PasswordFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// language возвращает язык контента: --lang, затем сохраненный выбор.
// Пустая строка означает язык сервера по умолчанию.
func (c *Cli) language(ctx context.Context) (string, error) {
	if c.opts.Lang != "" {
		return c.opts.Lang, nil
	}
	lang, err := c.prefs.GetLanguage(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get preferred language: %w", err)
	}
	return lang, nil
}

func PrintUsage(out iocli.IO) {
	out.Println("leaguectl - LeagueHub command line client")
	out.Println()
	out.Println("Usage:")
	out.Println("  leaguectl [OPTIONS] COMMAND [ARGS]")
	out.Println()
	out.Println("Options:")
	out.Println("  --version              Show version information")
	out.Println("  --server URL           Server URL (default: http://localhost:8080)")
	out.Println("  --db PATH              Path to local database (default: leaguectl.db)")
	out.Println("  --lang CODE            Content language for this call (uz, ru, en, kk, oz, qq)")
	out.Println("  --password-file PATH   Path to file containing the admin password")
	out.Println("  -v                     Verbose logging")
	out.Println()
	out.Println("Password Priority (highest to lowest):")
	out.Println("  1. LEAGUEHUB_PASSWORD environment variable")
	out.Println("  2. --password-file (file path)")
	out.Println("  3. Interactive prompt (fallback)")
	out.Println()
	out.Println("Commands:")
	out.Println("  login [email]           Sign in to the admin API")
	out.Println("  logout                  Revoke the session and delete it locally")
	out.Println("  refresh                 Rotate the token pair")
	out.Println("  status                  Show local session status")
	out.Println("  me                      Show the signed-in profile")
	out.Println("  clubs [id]              List clubs or show one club")
	out.Println("  news [id]               List published news or show one item")
	out.Println("  lang [code|default]     Show or save the preferred content language")
	out.Println()
	out.Println("List options:")
	out.Println("  --limit N               Page size")
	out.Println("  --offset N              Items to skip")
	out.Println()
	out.Println("Examples:")
	out.Println("  leaguectl login admin@league.uz")
	out.Println("  leaguectl --lang ru clubs")
	out.Println("  leaguectl news --limit 5")
	out.Println("  leaguectl lang en")
}
