package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/leaguehub/internal/server/auth"
	"github.com/iudanet/leaguehub/internal/server/handlers"
	"github.com/iudanet/leaguehub/internal/server/jwt"
)

// AccessTokenParser проверяет access token
type AccessTokenParser interface {
	ParseAccess(token string) (*jwt.Claims, error)
}

// RefreshTokenParser проверяет подпись и срок refresh token
type RefreshTokenParser interface {
	ParseRefresh(token string) (*jwt.Claims, error)
}

// PermissionSource возвращает права пользователя
type PermissionSource interface {
	Permissions(ctx context.Context, userID int64) ([]string, error)
}

// AuthMiddleware создает middleware для проверки JWT access token
func AuthMiddleware(logger *slog.Logger, tokens AccessTokenParser) func(http.Handler) http.Handler {
	return bearerMiddleware(logger, "access", tokens.ParseAccess)
}

// RefreshAuthMiddleware проверяет подпись и срок действия refresh token.
// Сверка с сохраненным хешем выполняется уже в auth.Service.Refresh.
func RefreshAuthMiddleware(logger *slog.Logger, tokens RefreshTokenParser) func(http.Handler) http.Handler {
	return bearerMiddleware(logger, "refresh", tokens.ParseRefresh)
}

func bearerMiddleware(logger *slog.Logger, kind string, parse func(string) (*jwt.Claims, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "missing or malformed Authorization header", slog.String("token_kind", kind))
				handlers.WriteError(w, "missing or malformed bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := parse(tokenString)
			if err != nil {
				logger.WarnContext(ctx, "invalid token", slog.String("token_kind", kind), slog.Any("error", err))
				handlers.WriteError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			// parse уже проверил, что subject числовой
			userID, _ := claims.UserID()

			ctx = context.WithValue(ctx, handlers.UserIDKey, userID)
			ctx = context.WithValue(ctx, handlers.EmailKey, claims.Email)
			if kind == "refresh" {
				ctx = context.WithValue(ctx, handlers.RefreshTokenKey, tokenString)
			}

			logger.DebugContext(ctx, "token accepted", slog.String("token_kind", kind), slog.Int64("user_id", userID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequirePermissions пропускает запрос, только если у пользователя есть все перечисленные права.
// Должен стоять после AuthMiddleware.
func RequirePermissions(logger *slog.Logger, source PermissionSource, required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := handlers.GetUserID(ctx)
			if !ok {
				handlers.WriteError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			granted, err := source.Permissions(ctx, userID)
			if err != nil {
				logger.ErrorContext(ctx, "failed to load permissions", slog.Int64("user_id", userID), slog.Any("error", err))
				handlers.WriteError(w, "internal server error", http.StatusInternalServerError)
				return
			}

			if !auth.HasPermissions(granted, required) {
				logger.WarnContext(ctx, "permission denied",
					slog.Int64("user_id", userID),
					slog.Any("required", required))
				handlers.WriteError(w, "insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
