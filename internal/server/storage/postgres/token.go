package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/leaguehub/internal/server/storage"
)

// SetRefreshTokenHash перезаписывает хеш текущего refresh token.
func (s *Storage) SetRefreshTokenHash(ctx context.Context, userID int64, hash string) error {
	const op = "storage.postgres.SetRefreshTokenHash"

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

// ClearRefreshTokenHash сбрасывает хеш, только если сессия активна.
func (s *Storage) ClearRefreshTokenHash(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.postgres.ClearRefreshTokenHash"

	tag, err := s.db.Exec(ctx, `
		UPDATE users SET refresh_token_hash = NULL, updated_at = $1
		WHERE id = $2 AND refresh_token_hash IS NOT NULL`,
		time.Now().UTC(), userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}
