package models

import "time"

// User представляет учетную запись администратора/редактора
type User struct {
	CreatedAt        time.Time `json:"created_at"` // время создания
	UpdatedAt        time.Time `json:"updated_at"` // время последнего обновления
	RefreshTokenHash *string   `json:"-"`          // argon2id хеш текущего refresh token, nil если сессии нет
	Name             string    `json:"name"`       // отображаемое имя
	Email            string    `json:"email"`      // уникальный email (нормализованный)
	PasswordHash     string    `json:"-"`          // argon2id хеш пароля
	ID               int64     `json:"id"`         // первичный ключ
}

// HasSession reports whether the user currently holds a refresh token slot.
func (u *User) HasSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}

// Role представляет роль пользователя вместе с ее правами
type Role struct {
	Name        string   `json:"name"`        // уникальное имя роли (admin, editor, viewer)
	Permissions []string `json:"permissions"` // имена прав, выданных роли
	ID          int64    `json:"id"`
}

// TokenPair содержит пару выданных токенов
type TokenPair struct {
	AccessToken  string `json:"access_token"`  // короткоживущий JWT
	RefreshToken string `json:"refresh_token"` // долгоживущий JWT, ротируется при каждом использовании
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}
