package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/iudanet/leaguehub/internal/locale"
)

// LocaleMiddleware определяет язык запроса и кладет его в контекст.
// Приоритет: параметр ?lang=, затем Accept-Language с наибольшим весом.
// В ответ добавляется Content-Language с выбранным языком.
func LocaleMiddleware(set *locale.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.URL.Query().Get("lang")
			if raw == "" {
				raw = preferredLanguage(r.Header.Get("Accept-Language"))
			}

			ctx := locale.WithPreferred(r.Context(), raw)
			w.Header().Set("Content-Language", set.Resolve(raw))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// preferredLanguage возвращает тег с наибольшим q из Accept-Language.
// x/text не знает часть настроенных кодов (qq, oz) и отвергает весь
// заголовок, тогда веса разбираются вручную.
func preferredLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err == nil && len(tags) > 0 {
		return tags[0].String()
	}

	return heaviestEntry(header)
}

// heaviestEntry выбирает запись с наибольшим q; при равных весах
// побеждает записанная раньше. Записи с q=0 и некорректным q пропускаются.
func heaviestEntry(header string) string {
	best, bestQ := "", 0.0
	for entry := range strings.SplitSeq(header, ",") {
		tag, params, _ := strings.Cut(entry, ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" {
			continue
		}

		q := 1.0
		for param := range strings.SplitSeq(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || parsed < 0 || parsed > 1 {
				q = 0
			} else {
				q = parsed
			}
		}

		if q > bestQ {
			best, bestQ = tag, q
		}
	}
	return best
}
