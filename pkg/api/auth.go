package api

// SignInRequest представляет запрос на вход в admin API
type SignInRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль в открытом виде (только по TLS)
}

// SignInResponse представляет ответ на успешный вход
type SignInResponse struct {
	AccessToken  string   `json:"access_token"`  // JWT access token
	RefreshToken string   `json:"refresh_token"` // JWT refresh token
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`       // имена ролей пользователя
	Permissions  []string `json:"permissions"` // плоский список прав без дубликатов
	ExpiresIn    int64    `json:"expires_in"`  // время жизни access token в секундах
	ID           int64    `json:"id"`
}

// TokenResponse представляет ответ с новой парой токенов
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // JWT refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}

// ProfileResponse описывает текущего пользователя
type ProfileResponse struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	ID          int64    `json:"id"`
}

// SuccessResponse возвращается операциями без полезной нагрузки
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
