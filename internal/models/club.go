package models

import "time"

// Club представляет футбольный клуб лиги
type Club struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      Localized `json:"name"`     // название на всех языках
	City      Localized `json:"city"`     // город на всех языках
	LogoURL   string    `json:"logo_url"` // ссылка на логотип
	ID        int64     `json:"id"`
	Founded   int       `json:"founded"` // год основания
}
