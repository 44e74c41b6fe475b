package storage

import (
	"context"
)

// AuthStorage defines interface for storing the admin session on client.
// Only one session is kept: a new login replaces the previous one.
type AuthStorage interface {
	// SaveAuth stores session data, replacing any previous session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored session data
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored session data (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a session exists and its access token is not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the admin session in storage.
// Файл БД создается с правами 0600, токены хранятся как есть.
type AuthData struct {
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	Permissions  []string `json:"permissions,omitempty"`
	UserID       int64    `json:"user_id"`
	ExpiresAt    int64    `json:"expires_at"` // unix время истечения access token
}
