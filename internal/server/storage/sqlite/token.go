package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/leaguehub/internal/server/storage"
)

// SetRefreshTokenHash overwrites the stored refresh token hash
func (s *Storage) SetRefreshTokenHash(ctx context.Context, userID int64, hash string) error {
	query := `UPDATE users SET refresh_token_hash = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, hash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to set refresh token hash: %w", err)
	}

	return rowsAffected(result, storage.ErrUserNotFound)
}

// ClearRefreshTokenHash clears the hash if the user has an active session
func (s *Storage) ClearRefreshTokenHash(ctx context.Context, userID int64) (bool, error) {
	query := `
		UPDATE users SET refresh_token_hash = NULL, updated_at = ?
		WHERE id = ? AND refresh_token_hash IS NOT NULL
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return false, fmt.Errorf("failed to clear refresh token hash: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}
