package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/auth"
	"github.com/iudanet/leaguehub/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockAuthService is a mock implementation of AuthService for testing
type mockAuthService struct {
	signIn  func(ctx context.Context, email, password string) (*auth.SignInResult, error)
	refresh func(ctx context.Context, userID int64, token string) (*models.TokenPair, error)
	logout  func(ctx context.Context, userID int64) error
	profile func(ctx context.Context, userID int64) (*auth.SignInResult, error)
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*auth.SignInResult, error) {
	return m.signIn(ctx, email, password)
}

func (m *mockAuthService) Refresh(ctx context.Context, userID int64, token string) (*models.TokenPair, error) {
	return m.refresh(ctx, userID, token)
}

func (m *mockAuthService) Logout(ctx context.Context, userID int64) error {
	return m.logout(ctx, userID)
}

func (m *mockAuthService) Profile(ctx context.Context, userID int64) (*auth.SignInResult, error) {
	return m.profile(ctx, userID)
}

func testUser() *models.User {
	return &models.User{ID: 42, Name: "Admin", Email: "admin@league.uz"}
}

func testPair() *models.TokenPair {
	return &models.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}
}

// withIdentity имитирует работу AuthMiddleware
func withIdentity(r *http.Request, userID int64, refreshToken string) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, EmailKey, "admin@league.uz")
	if refreshToken != "" {
		ctx = context.WithValue(ctx, RefreshTokenKey, refreshToken)
	}
	return r.WithContext(ctx)
}

func signInBody(t *testing.T, email, password string) io.Reader {
	t.Helper()
	body, err := json.Marshal(api.SignInRequest{Email: email, Password: password})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	var gotEmail, gotPassword string
	svc := &mockAuthService{
		signIn: func(ctx context.Context, email, password string) (*auth.SignInResult, error) {
			gotEmail, gotPassword = email, password
			return &auth.SignInResult{
				User:        testUser(),
				Tokens:      testPair(),
				Roles:       []string{"admin"},
				Permissions: []string{"clubs:read", "clubs:write"},
			}, nil
		},
	}
	handler := NewAuthHandler(setupTestLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", signInBody(t, "  Admin@League.UZ ", "s3cret-pass"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.SignIn(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@league.uz", gotEmail, "email should be normalized")
	assert.Equal(t, "s3cret-pass", gotPassword)

	var resp api.SignInResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "admin@league.uz", resp.Email)
	assert.Equal(t, []string{"admin"}, resp.Roles)
	assert.Equal(t, []string{"clubs:read", "clubs:write"}, resp.Permissions)
}

func TestAuthHandler_SignIn_BadRequest(t *testing.T) {
	svc := &mockAuthService{
		signIn: func(ctx context.Context, email, password string) (*auth.SignInResult, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}
	handler := NewAuthHandler(setupTestLogger(), svc)

	tests := []struct {
		body io.Reader
		name string
	}{
		{name: "invalid json", body: strings.NewReader("invalid json")},
		{name: "empty email", body: signInBody(t, "", "password")},
		{name: "malformed email", body: signInBody(t, "not-an-email", "password")},
		{name: "empty password", body: signInBody(t, "admin@league.uz", "")},
		{name: "too long password", body: signInBody(t, "admin@league.uz", strings.Repeat("p", 129))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", tt.body)
			w := httptest.NewRecorder()

			handler.SignIn(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_SignIn_Errors(t *testing.T) {
	tests := []struct {
		err          error
		name         string
		expectedCode int
	}{
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, expectedCode: http.StatusUnauthorized},
		{name: "wrapped invalid credentials", err: errors.Join(errors.New("ctx"), auth.ErrInvalidCredentials), expectedCode: http.StatusUnauthorized},
		{name: "storage failure", err: errors.New("database is locked"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				signIn: func(ctx context.Context, email, password string) (*auth.SignInResult, error) {
					return nil, tt.err
				},
			}
			handler := NewAuthHandler(setupTestLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/sign-in", signInBody(t, "admin@league.uz", "password"))
			w := httptest.NewRecorder()

			handler.SignIn(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.NotContains(t, resp.Message, "database", "internal details must not leak")
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotUserID int64
		var gotToken string
		svc := &mockAuthService{
			refresh: func(ctx context.Context, userID int64, token string) (*models.TokenPair, error) {
				gotUserID, gotToken = userID, token
				return testPair(), nil
			},
		}
		handler := NewAuthHandler(setupTestLogger(), svc)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/refresh", nil), 42, "old-refresh")
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(42), gotUserID)
		assert.Equal(t, "old-refresh", gotToken)

		var resp api.TokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "access", resp.AccessToken)
		assert.Equal(t, "refresh", resp.RefreshToken)
	})

	t.Run("stale token", func(t *testing.T) {
		svc := &mockAuthService{
			refresh: func(ctx context.Context, userID int64, token string) (*models.TokenPair, error) {
				return nil, auth.ErrAccessDenied
			},
		}
		handler := NewAuthHandler(setupTestLogger(), svc)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/", nil), 42, "stale")
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &mockAuthService{
			refresh: func(ctx context.Context, userID int64, token string) (*models.TokenPair, error) {
				return nil, errors.New("boom")
			},
		}
		handler := NewAuthHandler(setupTestLogger(), svc)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/", nil), 42, "token")
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("no refresh token in context", func(t *testing.T) {
		handler := NewAuthHandler(setupTestLogger(), &mockAuthService{})

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/", nil), 42, "")
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no identity in context", func(t *testing.T) {
		handler := NewAuthHandler(setupTestLogger(), &mockAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var calls int
		svc := &mockAuthService{
			logout: func(ctx context.Context, userID int64) error {
				calls++
				assert.Equal(t, int64(42), userID)
				return nil
			},
		}
		handler := NewAuthHandler(setupTestLogger(), svc)

		// повторный logout тоже успешен
		for i := 0; i < 2; i++ {
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/logout", nil), 42, "")
			w := httptest.NewRecorder()

			handler.Logout(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var resp api.SuccessResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.True(t, resp.Success)
		}
		assert.Equal(t, 2, calls)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &mockAuthService{
			logout: func(ctx context.Context, userID int64) error {
				return errors.New("disk full")
			},
		}
		handler := NewAuthHandler(setupTestLogger(), svc)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/", nil), 42, "")
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler := NewAuthHandler(setupTestLogger(), &mockAuthService{})

		w := httptest.NewRecorder()
		handler.Logout(w, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockAuthService{
			profile: func(ctx context.Context, userID int64) (*auth.SignInResult, error) {
				return &auth.SignInResult{
					User:        testUser(),
					Roles:       []string{"editor"},
					Permissions: []string{"news:read", "news:write"},
				}, nil
			},
		}
		handler := NewAuthHandler(setupTestLogger(), svc)

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil), 42, "")
		w := httptest.NewRecorder()

		handler.Me(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp api.ProfileResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "Admin", resp.Name)
		assert.Equal(t, []string{"editor"}, resp.Roles)
		assert.Equal(t, []string{"news:read", "news:write"}, resp.Permissions)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc := &mockAuthService{
			profile: func(ctx context.Context, userID int64) (*auth.SignInResult, error) {
				return nil, auth.ErrAccessDenied
			},
		}
		handler := NewAuthHandler(setupTestLogger(), svc)

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), 42, "")
		w := httptest.NewRecorder()

		handler.Me(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
