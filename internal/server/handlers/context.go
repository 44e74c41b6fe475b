package handlers

import "context"

type contextKey string

const (
	// UserIDKey ключ для хранения user_id в контексте
	UserIDKey contextKey = "user_id"
	// EmailKey ключ для хранения email в контексте
	EmailKey contextKey = "email"
	// RefreshTokenKey ключ для предъявленного refresh token (уже проверенного по подписи)
	RefreshTokenKey contextKey = "refresh_token"
)

// GetUserID извлекает user_id из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetEmail извлекает email из контекста
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetRefreshToken извлекает refresh token из контекста
func GetRefreshToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(RefreshTokenKey).(string)
	return token, ok && token != ""
}
