package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/storage"
)

const newsColumns = `id, club_id, title, body, published_at, created_at, updated_at`

// CreateNews inserts a news item
func (s *Storage) CreateNews(ctx context.Context, news *models.News) error {
	now := time.Now().UTC()
	news.CreatedAt = now
	news.UpdatedAt = now

	query := `
		INSERT INTO news (club_id, title, body, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		news.ClubID,
		news.Title,
		news.Body,
		utcPtr(news.PublishedAt),
		news.CreatedAt,
		news.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrClubNotFound
		}
		return fmt.Errorf("failed to insert news: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get news id: %w", err)
	}
	news.ID = id

	return nil
}

// GetNews retrieves a news item by ID
func (s *Storage) GetNews(ctx context.Context, id int64) (*models.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = ?`

	news, err := scanNews(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to get news: %w", err)
	}

	return news, nil
}

// ListNews returns one page of news matching the filter
func (s *Storage) ListNews(ctx context.Context, filter storage.NewsFilter) ([]*models.News, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ClubID != nil {
		conds = append(conds, "club_id = ?")
		args = append(args, *filter.ClubID)
	}
	if filter.PublishedAt != nil {
		conds = append(conds, "published_at IS NOT NULL AND published_at <= ?")
		args = append(args, filter.PublishedAt.UTC())
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}

	// Черновики (published_at IS NULL) идут первыми
	query := `SELECT ` + newsColumns + ` FROM news` + where +
		` ORDER BY published_at IS NOT NULL, published_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, append(args, filter.Page.Limit, filter.Page.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	items := make([]*models.News, 0, filter.Page.Limit)
	for rows.Next() {
		news, err := scanNews(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan news: %w", err)
		}
		items = append(items, news)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate news: %w", err)
	}

	return items, total, nil
}

// UpdateNews updates editable news fields
func (s *Storage) UpdateNews(ctx context.Context, news *models.News) error {
	news.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE news
		SET club_id = ?, title = ?, body = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		news.ClubID,
		news.Title,
		news.Body,
		utcPtr(news.PublishedAt),
		news.UpdatedAt,
		news.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrClubNotFound
		}
		return fmt.Errorf("failed to update news: %w", err)
	}

	return rowsAffected(result, storage.ErrNewsNotFound)
}

// DeleteNews deletes a news item by ID
func (s *Storage) DeleteNews(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}

	return rowsAffected(result, storage.ErrNewsNotFound)
}

func scanNews(row scanner) (*models.News, error) {
	news := &models.News{}
	var (
		clubID      sql.NullInt64
		publishedAt sql.NullTime
	)

	err := row.Scan(
		&news.ID,
		&clubID,
		&news.Title,
		&news.Body,
		&publishedAt,
		&news.CreatedAt,
		&news.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clubID.Valid {
		news.ClubID = &clubID.Int64
	}
	if publishedAt.Valid {
		news.PublishedAt = &publishedAt.Time
	}

	return news, nil
}

// utcPtr приводит время к UTC, чтобы строковое сравнение в SQLite было корректным
func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
