package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	// MaxEmailLen максимальная длина email (RFC 5321)
	MaxEmailLen = 254
	// MinPasswordLen минимальная длина пароля при создании пользователя
	MinPasswordLen = 8
	// MaxPasswordLen ограничивает размер входа для Argon2id
	MaxPasswordLen = 128
)

// NormalizeEmail приводит email к каноничному виду: без пробелов, в нижнем регистре
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет, что email синтаксически корректен.
// Ожидается уже нормализованное значение.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email has invalid format")
	}

	if !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("email domain must contain a dot")
	}

	return nil
}

// ValidateSignInPassword проверяет только наличие пароля и его верхнюю границу.
// Требования к сложности применяются при создании, а не при входе.
func ValidateSignInPassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLen)
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к новому паролю
func ValidatePassword(password string) error {
	if err := ValidateSignInPassword(password); err != nil {
		return err
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}
