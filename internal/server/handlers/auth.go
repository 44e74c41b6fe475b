package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/auth"
	"github.com/iudanet/leaguehub/internal/validation"
	"github.com/iudanet/leaguehub/pkg/api"
)

// maxAuthBodySize ограничивает тело запроса на вход
const maxAuthBodySize = 1 << 16

// AuthService описывает операции auth.Service, нужные handler'у
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*auth.SignInResult, error)
	Refresh(ctx context.Context, userID int64, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	Profile(ctx context.Context, userID int64) (*auth.SignInResult, error)
}

// AuthHandler обрабатывает запросы авторизации admin API
type AuthHandler struct {
	service AuthService
	responder
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service AuthService) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

// SignIn обрабатывает POST /api/v1/admin/auth/sign-in
// Вход по email и паролю, выдает новую пару токенов
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.SignInRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBodySize)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode sign-in request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateSignInPassword(req.Password); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.SignIn(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "sign-in failed", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.SignInResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		ID:           result.User.ID,
		Name:         result.User.Name,
		Email:        result.User.Email,
		Roles:        result.Roles,
		Permissions:  result.Permissions,
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Refresh обрабатывает POST /api/v1/admin/auth/refresh
// Подпись refresh token уже проверена RefreshAuthMiddleware
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	token, ok := GetRefreshToken(ctx)
	if !ok {
		h.sendError(w, "refresh token is required", http.StatusUnauthorized)
		return
	}

	pair, err := h.service.Refresh(ctx, userID, token)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			h.sendError(w, "refresh token is not valid anymore", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "refresh failed", slog.Int64("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Logout обрабатывает POST /api/v1/admin/auth/logout
// Освобождает слот refresh token; повторный вызов тоже успешен
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "logout failed", slog.Int64("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.SuccessResponse{Success: true}, http.StatusOK)
}

// Me обрабатывает GET /api/v1/admin/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.service.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			h.sendError(w, "user no longer exists", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load profile", slog.Int64("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ProfileResponse{
		ID:          profile.User.ID,
		Name:        profile.User.Name,
		Email:       profile.User.Email,
		Roles:       profile.Roles,
		Permissions: profile.Permissions,
	}

	h.sendJSON(w, resp, http.StatusOK)
}
