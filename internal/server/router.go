// Package server собирает HTTP API лиги: admin и client поверхности поверх chi.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/leaguehub/internal/locale"
	"github.com/iudanet/leaguehub/internal/server/auth"
	"github.com/iudanet/leaguehub/internal/server/cache"
	"github.com/iudanet/leaguehub/internal/server/handlers"
	"github.com/iudanet/leaguehub/internal/server/jwt"
	"github.com/iudanet/leaguehub/internal/server/middleware"
	"github.com/iudanet/leaguehub/internal/server/storage"
)

// Права, которыми защищены admin маршруты
const (
	PermClubsRead  = "clubs:read"
	PermClubsWrite = "clubs:write"
	PermNewsRead   = "news:read"
	PermNewsWrite  = "news:write"
)

// Options - зависимости, из которых собирается роутер.
type Options struct {
	Logger   *slog.Logger
	Storage  storage.Storage
	Auth     *auth.Service
	Tokens   *jwt.Service
	Locales  *locale.Set
	Cache    cache.ResponseCache     // nil - отключает кэш client API
	Limiter  *middleware.RateLimiter // nil - вход без ограничения частоты
	Registry *prometheus.Registry    // nil - метрики не собираются и /metrics не регистрируется
	Version  string
}

// NewRouter собирает http.Handler с chi и подключенными middleware/роутами.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	r.Use(
		middleware.RequestIDMiddleware(), // id нужен уже при восстановлении после паники
		middleware.RecoveryMiddleware(opts.Logger),
		middleware.LoggingWithSkip(opts.Logger, []string{"/api/v1/health", "/metrics"}),
	)
	if opts.Registry != nil {
		r.Use(middleware.MetricsMiddleware(middleware.NewMetrics(opts.Registry)))
	}
	r.Use(middleware.LocaleMiddleware(opts.Locales))

	// chi требует, чтобы все Use шли до первого маршрута
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	health := handlers.NewHealthHandler(opts.Logger, opts.Storage, opts.Version)
	authH := handlers.NewAuthHandler(opts.Logger, opts.Auth)
	clubs := handlers.NewClubHandler(opts.Logger, opts.Storage, opts.Locales, opts.Cache)
	news := handlers.NewNewsHandler(opts.Logger, opts.Storage, opts.Locales, opts.Cache)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Route("/admin", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				if opts.Limiter != nil {
					r.With(middleware.RateLimitMiddleware(opts.Logger, opts.Limiter)).
						Post("/sign-in", authH.SignIn)
				} else {
					r.Post("/sign-in", authH.SignIn)
				}
				r.With(middleware.RefreshAuthMiddleware(opts.Logger, opts.Tokens)).
					Post("/refresh", authH.Refresh)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AuthMiddleware(opts.Logger, opts.Tokens))
					r.Post("/logout", authH.Logout)
					r.Get("/me", authH.Me)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(opts.Logger, opts.Tokens))

				r.Route("/clubs", func(r chi.Router) {
					read := middleware.RequirePermissions(opts.Logger, opts.Auth, PermClubsRead)
					write := middleware.RequirePermissions(opts.Logger, opts.Auth, PermClubsWrite)

					r.With(read).Get("/", clubs.List)
					r.With(write).Post("/", clubs.Create)
					r.With(read).Get("/{id}", clubs.Get)
					r.With(write).Put("/{id}", clubs.Update)
					r.With(write).Delete("/{id}", clubs.Delete)
				})

				r.Route("/news", func(r chi.Router) {
					read := middleware.RequirePermissions(opts.Logger, opts.Auth, PermNewsRead)
					write := middleware.RequirePermissions(opts.Logger, opts.Auth, PermNewsWrite)

					r.With(read).Get("/", news.List)
					r.With(write).Post("/", news.Create)
					r.With(read).Get("/{id}", news.Get)
					r.With(write).Put("/{id}", news.Update)
					r.With(write).Delete("/{id}", news.Delete)
				})
			})
		})

		r.Route("/client", func(r chi.Router) {
			r.Get("/clubs", clubs.ClientList)
			r.Get("/clubs/{id}", clubs.ClientGet)
			r.Get("/news", news.ClientList)
			r.Get("/news/{id}", news.ClientGet)
		})
	})

	return r
}
