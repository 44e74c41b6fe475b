package api

import (
	"encoding/json"
	"time"
)

// ClubRequest тело запроса на создание/обновление клуба.
// Локализованные поля передаются как JSON объект {"uz": "...", "en": "..."}.
type ClubRequest struct {
	Name    json.RawMessage `json:"name"`
	City    json.RawMessage `json:"city,omitempty"`
	LogoURL string          `json:"logo_url,omitempty"`
	Founded int             `json:"founded,omitempty"`
}

// NewsRequest тело запроса на создание/обновление новости
type NewsRequest struct {
	ClubID      *int64          `json:"club_id,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"` // nil - черновик
	Title       json.RawMessage `json:"title"`
	Body        json.RawMessage `json:"body"`
}

// ListResponse страница списка
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ClubView клуб в client API после проекции на один язык
type ClubView struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	LogoURL string `json:"logo_url"`
	ID      int64  `json:"id"`
	Founded int    `json:"founded"`
}

// NewsView новость в client API после проекции на один язык
type NewsView struct {
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ClubID      *int64     `json:"club_id,omitempty"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	ID          int64      `json:"id"`
}
