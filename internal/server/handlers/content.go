package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/leaguehub/internal/locale"
	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/cache"
	"github.com/iudanet/leaguehub/internal/server/storage"
)

// maxContentBodySize ограничивает тело запросов admin CRUD
const maxContentBodySize = 1 << 20

// CacheStatusHeader сообщает, был ли ответ client API взят из кэша
const CacheStatusHeader = "X-Cache"

// errNotVisible используется client API для черновиков: для клиента их не существует
var errNotVisible = errors.New("not visible")

// contentBase содержит общие зависимости handler'ов клубов и новостей
type contentBase struct {
	cache   cache.ResponseCache // nil отключает кэширование
	locales *locale.Set
	responder
}

// parseID извлекает положительный {id} из пути
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parsePage читает limit/offset из query. Отсутствующие значения берутся по умолчанию,
// нечисловые считаются ошибкой запроса.
func parsePage(r *http.Request) (models.Page, error) {
	q := r.URL.Query()

	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		return models.Page{}, fmt.Errorf("limit must be an integer")
	}
	offset, err := optionalInt(q.Get("offset"))
	if err != nil {
		return models.Page{}, fmt.Errorf("offset must be an integer")
	}

	return models.NewPage(limit, offset), nil
}

// parseOptionalID читает необязательный числовой параметр (например club_id)
func parseOptionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	return &id, nil
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// decodeJSON читает тело запроса с ограничением размера
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContentBodySize))
	return dec.Decode(dst)
}

// localized переносит уже проверенный JSON объект в модель без лишних пробелов
func localized(raw json.RawMessage) models.Localized {
	if len(raw) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return models.Localized(raw)
	}
	return models.Localized(buf.Bytes())
}

// invalidate сбрасывает кэш client API для ресурсов после записи
func (h *contentBase) invalidate(r *http.Request, resources ...string) {
	if h.cache == nil {
		return
	}
	for _, resource := range resources {
		if err := h.cache.Invalidate(r.Context(), resource); err != nil {
			h.logger.WarnContext(r.Context(), "failed to invalidate cache",
				slog.String("resource", resource),
				slog.Any("error", err))
		}
	}
}

// serveProjected отдает ответ client API: модель кодируется в JSON,
// локализованные поля сворачиваются к языку запроса, результат кэшируется.
// load вызывается только при промахе кэша.
func (h *contentBase) serveProjected(w http.ResponseWriter, r *http.Request, resource string, load func() (any, error)) {
	ctx := r.Context()
	lang := locale.FromContext(ctx, h.locales)
	key := cache.Key(resource, lang, r.URL.RequestURI())

	if h.cache != nil {
		body, ok, err := h.cache.Get(ctx, key)
		if err != nil {
			// кэш недоступен, отвечаем из хранилища
			h.logger.WarnContext(ctx, "cache get failed", slog.String("key", key), slog.Any("error", err))
		} else if ok {
			w.Header().Set(CacheStatusHeader, "HIT")
			h.sendRaw(w, body, http.StatusOK)
			return
		}
	}

	data, err := load()
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrClubNotFound),
			errors.Is(err, storage.ErrNewsNotFound),
			errors.Is(err, errNotVisible):
			h.sendError(w, resource+" item not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "failed to load content", slog.String("resource", resource), slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode content", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	body, err := h.locales.ProjectJSON(raw, lang)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to project content", slog.String("lang", lang), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, body); err != nil {
			h.logger.WarnContext(ctx, "cache set failed", slog.String("key", key), slog.Any("error", err))
		}
		w.Header().Set(CacheStatusHeader, "MISS")
	}

	h.sendRaw(w, body, http.StatusOK)
}
