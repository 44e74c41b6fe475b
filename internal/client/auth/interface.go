package auth

import (
	"context"

	"github.com/iudanet/leaguehub/pkg/api"
)

// AuthAPI - часть admin API, нужная для управления сессией.
// Реализуется *api.Client.
type AuthAPI interface {
	// SignIn выполняет вход по email и паролю
	SignIn(ctx context.Context, req api.SignInRequest) (*api.SignInResponse, error)

	// Refresh обменивает refresh token на новую пару
	Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error)

	// Logout отзывает refresh token на сервере
	Logout(ctx context.Context, accessToken string) error

	// Me возвращает профиль владельца access token
	Me(ctx context.Context, accessToken string) (*api.ProfileResponse, error)
}
