package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/leaguehub/internal/client/api"
	"github.com/iudanet/leaguehub/internal/client/storage"
	"github.com/iudanet/leaguehub/internal/validation"
	pkgapi "github.com/iudanet/leaguehub/pkg/api"
)

// ErrNotLoggedIn возвращается, когда локальной сессии нет
var ErrNotLoggedIn = errors.New("not logged in, run 'leaguectl login' first")

// Service управляет сессией администратора: вход, ротация токенов, выход.
// Сессия хранится в storage.AuthStorage между запусками CLI.
type Service struct {
	api    AuthAPI
	store  storage.AuthStorage
	logger *slog.Logger
	now    func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(logger *slog.Logger, apiClient AuthAPI, store storage.AuthStorage) *Service {
	return &Service{
		api:    apiClient,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Login выполняет вход и сохраняет сессию, заменяя предыдущую
func (s *Service) Login(ctx context.Context, email, password string) (*storage.AuthData, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidateSignInPassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.api.SignIn(ctx, pkgapi.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	session := &storage.AuthData{
		Email:        resp.Email,
		Name:         resp.Name,
		UserID:       resp.ID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Permissions:  resp.Permissions,
		ExpiresAt:    s.now().Unix() + resp.ExpiresIn,
	}

	if err := s.store.SaveAuth(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Session возвращает сохраненную сессию или ErrNotLoggedIn
func (s *Service) Session(ctx context.Context) (*storage.AuthData, error) {
	session, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// IsAuthenticated проверяет, что сессия есть и access token не истек
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.store.IsAuthenticated(ctx)
}

// Refresh ротирует пару токенов. После успешного вызова старый refresh token
// на сервере больше не действует, поэтому новая пара сохраняется сразу.
func (s *Service) Refresh(ctx context.Context) (*storage.AuthData, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh failed: %w", err)
	}

	session.AccessToken = resp.AccessToken
	session.RefreshToken = resp.RefreshToken
	session.ExpiresAt = s.now().Unix() + resp.ExpiresIn

	if err := s.store.SaveAuth(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Profile запрашивает профиль. Если сервер отклонил access token,
// выполняется одна попытка refresh и повтор запроса.
func (s *Service) Profile(ctx context.Context) (*pkgapi.ProfileResponse, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.api.Me(ctx, session.AccessToken)
	if err == nil {
		return profile, nil
	}
	if !api.IsUnauthorized(err) {
		return nil, err
	}

	s.logger.DebugContext(ctx, "access token rejected, refreshing")

	session, err = s.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	return s.api.Me(ctx, session.AccessToken)
}

// Logout выполняет выход из системы
// Удаляет локальные данные авторизации и уведомляет сервер
func (s *Service) Logout(ctx context.Context) error {
	session, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotLoggedIn
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	logoutErr := s.api.Logout(ctx, session.AccessToken)
	if api.IsUnauthorized(logoutErr) {
		// access token истек: отзываем refresh token через новую пару
		if refreshed, err := s.Refresh(ctx); err == nil {
			logoutErr = s.api.Logout(ctx, refreshed.AccessToken)
		}
	}
	// Не прерываем процесс, если сервер недоступен
	if logoutErr != nil {
		s.logger.WarnContext(ctx, "failed to logout on server", slog.String("error", logoutErr.Error()))
	}

	// Всегда удаляем локальные данные
	if err := s.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	return nil
}
