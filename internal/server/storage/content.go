package storage

import (
	"context"
	"time"

	"github.com/iudanet/leaguehub/internal/models"
)

// ClubStorage defines interface for club persistence
type ClubStorage interface {
	// CreateClub inserts a club and sets its ID and timestamps
	CreateClub(ctx context.Context, club *models.Club) error

	// GetClub returns ErrClubNotFound if club doesn't exist
	GetClub(ctx context.Context, id int64) (*models.Club, error)

	// ListClubs returns one page of clubs ordered by ID and the total count
	ListClubs(ctx context.Context, page models.Page) ([]*models.Club, int, error)

	// UpdateClub replaces editable fields
	// Returns ErrClubNotFound if club doesn't exist
	UpdateClub(ctx context.Context, club *models.Club) error

	// DeleteClub removes a club; news referencing it lose the reference
	// Returns ErrClubNotFound if club doesn't exist
	DeleteClub(ctx context.Context, id int64) error
}

// NewsFilter narrows ListNews
type NewsFilter struct {
	ClubID *int64
	// PublishedAt, если задан, оставляет только новости опубликованные не позже этого момента
	PublishedAt *time.Time
	Page        models.Page
}

// NewsStorage defines interface for news persistence
type NewsStorage interface {
	// CreateNews inserts a news item and sets its ID and timestamps
	// Returns ErrClubNotFound if ClubID references a missing club
	CreateNews(ctx context.Context, news *models.News) error

	// GetNews returns ErrNewsNotFound if item doesn't exist
	GetNews(ctx context.Context, id int64) (*models.News, error)

	// ListNews returns one page ordered by publication date (newest first), then ID
	ListNews(ctx context.Context, filter NewsFilter) ([]*models.News, int, error)

	// UpdateNews replaces editable fields
	// Returns ErrNewsNotFound or ErrClubNotFound
	UpdateNews(ctx context.Context, news *models.News) error

	// DeleteNews returns ErrNewsNotFound if item doesn't exist
	DeleteNews(ctx context.Context, id int64) error
}
