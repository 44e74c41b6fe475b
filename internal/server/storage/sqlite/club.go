package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/storage"
)

const clubColumns = `id, name, city, founded, logo_url, created_at, updated_at`

// CreateClub inserts a new club
func (s *Storage) CreateClub(ctx context.Context, club *models.Club) error {
	now := time.Now().UTC()
	club.CreatedAt = now
	club.UpdatedAt = now

	query := `
		INSERT INTO clubs (name, city, founded, logo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		club.Name,
		club.City,
		club.Founded,
		club.LogoURL,
		club.CreatedAt,
		club.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert club: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get club id: %w", err)
	}
	club.ID = id

	return nil
}

// GetClub retrieves a club by ID
func (s *Storage) GetClub(ctx context.Context, id int64) (*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = ?`

	club, err := scanClub(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}

	return club, nil
}

// ListClubs returns one page of clubs
func (s *Storage) ListClubs(ctx context.Context, page models.Page) ([]*models.Club, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clubs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clubs: %w", err)
	}

	query := `SELECT ` + clubColumns + ` FROM clubs ORDER BY id LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]*models.Club, 0, page.Limit)
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan club: %w", err)
		}
		clubs = append(clubs, club)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate clubs: %w", err)
	}

	return clubs, total, nil
}

// UpdateClub updates editable club fields
func (s *Storage) UpdateClub(ctx context.Context, club *models.Club) error {
	club.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE clubs
		SET name = ?, city = ?, founded = ?, logo_url = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		club.Name,
		club.City,
		club.Founded,
		club.LogoURL,
		club.UpdatedAt,
		club.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}

	return rowsAffected(result, storage.ErrClubNotFound)
}

// DeleteClub deletes a club by ID
func (s *Storage) DeleteClub(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM clubs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}

	return rowsAffected(result, storage.ErrClubNotFound)
}

// scanner позволяет использовать один код для *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanClub(row scanner) (*models.Club, error) {
	club := &models.Club{}
	err := row.Scan(
		&club.ID,
		&club.Name,
		&club.City,
		&club.Founded,
		&club.LogoURL,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return club, nil
}
