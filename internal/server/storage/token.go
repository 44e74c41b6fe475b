package storage

import "context"

// TokenStorage defines the single refresh token slot kept on the user row.
// Only a hash of the current refresh token is stored.
type TokenStorage interface {
	// SetRefreshTokenHash overwrites the user's refresh token hash
	// Returns ErrUserNotFound if user doesn't exist
	SetRefreshTokenHash(ctx context.Context, userID int64, hash string) error

	// ClearRefreshTokenHash sets the hash to NULL only if it is currently set.
	// Returns true if a session was cleared. Unknown user is not an error.
	ClearRefreshTokenHash(ctx context.Context, userID int64) (bool, error)
}
