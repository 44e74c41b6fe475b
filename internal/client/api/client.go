package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/leaguehub/pkg/api"
)

// Error ответ сервера со статусом вне 2xx
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized сообщает, что сервер отклонил токен (401)
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// requestOption дополняет запрос заголовками
type requestOption func(req *http.Request)

func withBearer(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func withLanguage(lang string) requestOption {
	return func(req *http.Request) {
		if lang != "" {
			req.Header.Set("Accept-Language", lang)
		}
	}
}

// SignIn выполняет вход в admin API
func (c *Client) SignIn(ctx context.Context, req api.SignInRequest) (*api.SignInResponse, error) {
	var resp api.SignInResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/admin/auth/sign-in", req, &resp); err != nil {
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает refresh token на новую пару токенов
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/admin/auth/refresh", nil, &resp, withBearer(refreshToken)); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Logout отзывает refresh token на сервере
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	var resp api.SuccessResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/admin/auth/logout", nil, &resp, withBearer(accessToken)); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Me возвращает профиль текущего пользователя
func (c *Client) Me(ctx context.Context, accessToken string) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/admin/auth/me", nil, &resp, withBearer(accessToken)); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// ListClubs возвращает страницу клубов на выбранном языке
func (c *Client) ListClubs(ctx context.Context, lang string, limit, offset int) (*api.ListResponse[api.ClubView], error) {
	var resp api.ListResponse[api.ClubView]
	path := "/api/v1/client/clubs" + pageQuery(limit, offset)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp, withLanguage(lang)); err != nil {
		return nil, fmt.Errorf("list clubs request failed: %w", err)
	}
	return &resp, nil
}

// GetClub возвращает клуб на выбранном языке
func (c *Client) GetClub(ctx context.Context, lang string, id int64) (*api.ClubView, error) {
	var resp api.ClubView
	path := fmt.Sprintf("/api/v1/client/clubs/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp, withLanguage(lang)); err != nil {
		return nil, fmt.Errorf("get club request failed: %w", err)
	}
	return &resp, nil
}

// ListNews возвращает страницу опубликованных новостей
func (c *Client) ListNews(ctx context.Context, lang string, limit, offset int) (*api.ListResponse[api.NewsView], error) {
	var resp api.ListResponse[api.NewsView]
	path := "/api/v1/client/news" + pageQuery(limit, offset)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp, withLanguage(lang)); err != nil {
		return nil, fmt.Errorf("list news request failed: %w", err)
	}
	return &resp, nil
}

// GetNews возвращает опубликованную новость
func (c *Client) GetNews(ctx context.Context, lang string, id int64) (*api.NewsView, error) {
	var resp api.NewsView
	path := fmt.Sprintf("/api/v1/client/news/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp, withLanguage(lang)); err != nil {
		return nil, fmt.Errorf("get news request failed: %w", err)
	}
	return &resp, nil
}

// pageQuery строит ?limit=&offset=, нулевые значения не передаются
func pageQuery(limit, offset int) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, opts ...requestOption) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		} else {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
