package validation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/iudanet/leaguehub/pkg/api"
)

// MinFoundedYear самый ранний допустимый год основания клуба
const MinFoundedYear = 1850

// ValidateLocalized проверяет форму локализованного поля:
// JSON объект, все значения строки, ключи из списка поддерживаемых языков,
// хотя бы один ключ. Полнота набора языков не проверяется.
func ValidateLocalized(field string, raw json.RawMessage, supported []string) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%s is required", field)
	}

	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("%s must be an object of language code to string", field)
	}

	if len(values) == 0 {
		return fmt.Errorf("%s must contain at least one language", field)
	}

	for lang, value := range values {
		if !slices.Contains(supported, lang) {
			return fmt.Errorf("%s contains unsupported language %q", field, lang)
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s[%s] cannot be blank", field, lang)
		}
	}

	return nil
}

// ValidateClub проверяет запрос на создание/обновление клуба
func ValidateClub(req *api.ClubRequest, supported []string, now time.Time) error {
	if err := ValidateLocalized("name", req.Name, supported); err != nil {
		return err
	}

	if len(req.City) > 0 {
		if err := ValidateLocalized("city", req.City, supported); err != nil {
			return err
		}
	}

	if req.Founded != 0 && (req.Founded < MinFoundedYear || req.Founded > now.Year()) {
		return fmt.Errorf("founded must be between %d and %d", MinFoundedYear, now.Year())
	}

	if req.LogoURL != "" {
		u, err := url.Parse(req.LogoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("logo_url must be an absolute http(s) URL")
		}
	}

	return nil
}

// ValidateNews проверяет запрос на создание/обновление новости
func ValidateNews(req *api.NewsRequest, supported []string) error {
	if err := ValidateLocalized("title", req.Title, supported); err != nil {
		return err
	}

	if err := ValidateLocalized("body", req.Body, supported); err != nil {
		return err
	}

	if req.ClubID != nil && *req.ClubID <= 0 {
		return fmt.Errorf("club_id must be positive")
	}

	return nil
}
