package models

import "time"

// News представляет новость, опционально привязанную к клубу
type News struct {
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClubID      *int64     `json:"club_id,omitempty"`      // клуб, к которому относится новость
	PublishedAt *time.Time `json:"published_at,omitempty"` // nil - черновик, не виден в client API
	Title       Localized  `json:"title"`
	Body        Localized  `json:"body"`
	ID          int64      `json:"id"`
}

// IsPublished reports whether the news item is visible at the given moment.
func (n *News) IsPublished(now time.Time) bool {
	return n.PublishedAt != nil && !n.PublishedAt.After(now)
}
