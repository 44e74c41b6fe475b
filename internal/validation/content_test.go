package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/leaguehub/pkg/api"
)

var supported = []string{"uz", "ru", "en", "kk", "oz", "qq"}

func TestValidateLocalized(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "single language", raw: `{"uz":"Paxtakor"}`},
		{name: "partial set is fine", raw: `{"ru":"Пахтакор","en":"Pakhtakor"}`},
		{name: "missing", raw: ``, wantErr: "name is required"},
		{name: "null", raw: `null`, wantErr: "name is required"},
		{name: "empty object", raw: `{}`, wantErr: "at least one language"},
		{name: "plain string", raw: `"Paxtakor"`, wantErr: "must be an object"},
		{name: "nested value", raw: `{"uz":{"x":"y"}}`, wantErr: "must be an object"},
		{name: "unsupported language", raw: `{"fr":"Pakhtakor"}`, wantErr: `unsupported language "fr"`},
		{name: "blank value", raw: `{"uz":"  "}`, wantErr: "name[uz] cannot be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocalized("name", json.RawMessage(tt.raw), supported)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateClub(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	valid := func() *api.ClubRequest {
		return &api.ClubRequest{
			Name:    json.RawMessage(`{"uz":"Paxtakor","ru":"Пахтакор"}`),
			City:    json.RawMessage(`{"uz":"Toshkent"}`),
			LogoURL: "https://cdn.league.uz/logo/1.png",
			Founded: 1956,
		}
	}

	tests := []struct {
		mutate  func(r *api.ClubRequest)
		name    string
		wantErr string
	}{
		{name: "valid", mutate: func(r *api.ClubRequest) {}},
		{name: "optional fields omitted", mutate: func(r *api.ClubRequest) { r.City, r.LogoURL, r.Founded = nil, "", 0 }},
		{name: "bad name", mutate: func(r *api.ClubRequest) { r.Name = nil }, wantErr: "name is required"},
		{name: "bad city", mutate: func(r *api.ClubRequest) { r.City = json.RawMessage(`{"de":"Taschkent"}`) }, wantErr: "city contains"},
		{name: "founded too early", mutate: func(r *api.ClubRequest) { r.Founded = 1700 }, wantErr: "founded must be between 1850 and 2025"},
		{name: "founded in future", mutate: func(r *api.ClubRequest) { r.Founded = 2026 }, wantErr: "founded"},
		{name: "founded this year", mutate: func(r *api.ClubRequest) { r.Founded = 2025 }},
		{name: "relative logo", mutate: func(r *api.ClubRequest) { r.LogoURL = "/logo.png" }, wantErr: "logo_url"},
		{name: "ftp logo", mutate: func(r *api.ClubRequest) { r.LogoURL = "ftp://cdn.league.uz/logo.png" }, wantErr: "logo_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)

			err := ValidateClub(req, supported, now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNews(t *testing.T) {
	clubID := int64(3)
	badID := int64(0)

	tests := []struct {
		req     *api.NewsRequest
		name    string
		wantErr string
	}{
		{
			name: "valid",
			req: &api.NewsRequest{
				Title:  json.RawMessage(`{"en":"Match day"}`),
				Body:   json.RawMessage(`{"en":"Kick-off at 19:00"}`),
				ClubID: &clubID,
			},
		},
		{
			name:    "missing body",
			req:     &api.NewsRequest{Title: json.RawMessage(`{"en":"Match day"}`)},
			wantErr: "body is required",
		},
		{
			name:    "bad title",
			req:     &api.NewsRequest{Title: json.RawMessage(`[]`), Body: json.RawMessage(`{"en":"x"}`)},
			wantErr: "title must be an object",
		},
		{
			name: "non-positive club",
			req: &api.NewsRequest{
				Title:  json.RawMessage(`{"en":"Match day"}`),
				Body:   json.RawMessage(`{"en":"x"}`),
				ClubID: &badID,
			},
			wantErr: "club_id must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNews(tt.req, supported)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
