package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/storage"
)

const clubColumns = `id, name, city, founded, logo_url, created_at, updated_at`

// CreateClub создает клуб.
func (s *Storage) CreateClub(ctx context.Context, club *models.Club) error {
	const op = "storage.postgres.CreateClub"

	now := time.Now().UTC()
	club.CreatedAt = now
	club.UpdatedAt = now

	query := `
		INSERT INTO clubs (name, city, founded, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRow(ctx, query,
		club.Name,
		club.City,
		club.Founded,
		club.LogoURL,
		club.CreatedAt,
		club.UpdatedAt,
	).Scan(&club.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetClub находит клуб по ID.
func (s *Storage) GetClub(ctx context.Context, id int64) (*models.Club, error) {
	const op = "storage.postgres.GetClub"

	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`

	club, err := scanClub(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrClubNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return club, nil
}

// ListClubs возвращает страницу клубов и их общее количество.
func (s *Storage) ListClubs(ctx context.Context, page models.Page) ([]*models.Club, int, error) {
	const op = "storage.postgres.ListClubs"

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM clubs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+clubColumns+` FROM clubs ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	clubs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Club, error) {
		return scanClub(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return clubs, total, nil
}

// UpdateClub обновляет редактируемые поля клуба.
func (s *Storage) UpdateClub(ctx context.Context, club *models.Club) error {
	const op = "storage.postgres.UpdateClub"

	club.UpdatedAt = time.Now().UTC()

	tag, err := s.db.Exec(ctx, `
		UPDATE clubs
		SET name = $1, city = $2, founded = $3, logo_url = $4, updated_at = $5
		WHERE id = $6`,
		club.Name,
		club.City,
		club.Founded,
		club.LogoURL,
		club.UpdatedAt,
		club.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrClubNotFound)
	}

	return nil
}

// DeleteClub удаляет клуб.
func (s *Storage) DeleteClub(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteClub"

	tag, err := s.db.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrClubNotFound)
	}

	return nil
}

func scanClub(row pgx.Row) (*models.Club, error) {
	var club models.Club
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
	return &club, nil
}
