package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/storage"
)

const newsColumns = `id, club_id, title, body, published_at, created_at, updated_at`

// CreateNews создает новость.
func (s *Storage) CreateNews(ctx context.Context, news *models.News) error {
	const op = "storage.postgres.CreateNews"

	now := time.Now().UTC()
	news.CreatedAt = now
	news.UpdatedAt = now

	query := `
		INSERT INTO news (club_id, title, body, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRow(ctx, query,
		news.ClubID,
		news.Title,
		news.Body,
		news.PublishedAt,
		news.CreatedAt,
		news.UpdatedAt,
	).Scan(&news.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrClubNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetNews находит новость по ID.
func (s *Storage) GetNews(ctx context.Context, id int64) (*models.News, error) {
	const op = "storage.postgres.GetNews"

	news, err := scanNews(s.db.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNewsNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return news, nil
}

// ListNews возвращает страницу новостей по фильтру.
func (s *Storage) ListNews(ctx context.Context, filter storage.NewsFilter) ([]*models.News, int, error) {
	const op = "storage.postgres.ListNews"

	var (
		conds []string
		args  []any
	)
	if filter.ClubID != nil {
		args = append(args, *filter.ClubID)
		conds = append(conds, "club_id = $"+strconv.Itoa(len(args)))
	}
	if filter.PublishedAt != nil {
		args = append(args, *filter.PublishedAt)
		conds = append(conds, "published_at IS NOT NULL AND published_at <= $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM news`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	// Черновики (published_at IS NULL) идут первыми
	query := `SELECT ` + newsColumns + ` FROM news` + where +
		` ORDER BY published_at IS NOT NULL, published_at DESC, id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	rows, err := s.db.Query(ctx, query, append(args, filter.Page.Limit, filter.Page.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.News, error) {
		return scanNews(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return items, total, nil
}

// UpdateNews обновляет редактируемые поля новости.
func (s *Storage) UpdateNews(ctx context.Context, news *models.News) error {
	const op = "storage.postgres.UpdateNews"

	news.UpdatedAt = time.Now().UTC()

	tag, err := s.db.Exec(ctx, `
		UPDATE news
		SET club_id = $1, title = $2, body = $3, published_at = $4, updated_at = $5
		WHERE id = $6`,
		news.ClubID,
		news.Title,
		news.Body,
		news.PublishedAt,
		news.UpdatedAt,
		news.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrClubNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNewsNotFound)
	}

	return nil
}

// DeleteNews удаляет новость.
func (s *Storage) DeleteNews(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteNews"

	tag, err := s.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNewsNotFound)
	}

	return nil
}

func scanNews(row pgx.Row) (*models.News, error) {
	var news models.News
	err := row.Scan(
		&news.ID,
		&news.ClubID,
		&news.Title,
		&news.Body,
		&news.PublishedAt,
		&news.CreatedAt,
		&news.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &news, nil
}
