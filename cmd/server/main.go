package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iudanet/leaguehub/internal/config"
	"github.com/iudanet/leaguehub/internal/crypto"
	"github.com/iudanet/leaguehub/internal/locale"
	"github.com/iudanet/leaguehub/internal/server"
	"github.com/iudanet/leaguehub/internal/server/auth"
	"github.com/iudanet/leaguehub/internal/server/cache"
	"github.com/iudanet/leaguehub/internal/server/jwt"
	"github.com/iudanet/leaguehub/internal/server/middleware"
	"github.com/iudanet/leaguehub/internal/server/storage"
	"github.com/iudanet/leaguehub/internal/server/storage/postgres"
	"github.com/iudanet/leaguehub/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// adminRole выдается администратору, созданному из конфигурации
const adminRole = "admin"

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg := config.MustLoad(configPath)

	log := cfg.NewLogger(os.Stdout)
	slog.SetDefault(log)
	log.Info("starting leaguehub server",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
		slog.String("storage", cfg.Storage.Driver),
	)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("server_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}

	log.Info("service_stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("storage_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	hasher, err := crypto.NewArgon2Hasher(cfg.Argon2.Params())
	if err != nil {
		return fmt.Errorf("failed to create hasher: %w", err)
	}

	tokens, err := jwt.NewService(jwt.Config{
		AccessSecret:    cfg.JWT.AccessSecret,
		RefreshSecret:   cfg.JWT.RefreshSecret,
		Issuer:          cfg.JWT.Issuer,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	authService := auth.NewService(log, store, hasher, tokens)

	if cfg.Admin.Email != "" {
		admin, err := authService.EnsureUser(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password, adminRole)
		if err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
		log.Info("admin_ready", slog.Int64("user_id", admin.ID))
	}

	locales, err := locale.NewSet(cfg.Locale.Supported, cfg.Locale.Default)
	if err != nil {
		return fmt.Errorf("invalid locale set: %w", err)
	}

	var responseCache cache.ResponseCache
	if cfg.Redis.Enabled() {
		responseCache, err = cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := responseCache.Close(); cerr != nil {
				log.Warn("cache_close_failed", slog.String("err", cerr.Error()))
			}
		}()
		log.Info("response_cache_enabled", slog.Duration("ttl", cfg.Redis.TTL))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.SignInAttempts, cfg.RateLimit.Window)
	defer limiter.Stop()
	if err := limiter.TrustProxies(cfg.RateLimit.TrustedProxies); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := server.NewRouter(server.Options{
		Logger:   log,
		Storage:  store,
		Auth:     authService,
		Tokens:   tokens,
		Locales:  locales,
		Cache:    responseCache,
		Limiter:  limiter,
		Registry: registry,
		Version:  Version,
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", httpAddr, err)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if serveErr != nil {
		return fmt.Errorf("http serve failed: %w", serveErr)
	}
	return nil
}

// openStorage открывает хранилище выбранного драйвера; миграции применяются внутри New.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return store, nil
	default:
		store, err := sqlite.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return store, nil
	}
}

func printVersion() {
	fmt.Printf("LeagueHub Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
