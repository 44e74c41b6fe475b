package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/leaguehub/internal/locale"
	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/cache"
	"github.com/iudanet/leaguehub/internal/server/storage"
	"github.com/iudanet/leaguehub/internal/validation"
	"github.com/iudanet/leaguehub/pkg/api"
)

// NewsHandler обрабатывает запросы к новостям
type NewsHandler struct {
	store storage.NewsStorage
	now   func() time.Time
	contentBase
}

// NewNewsHandler создает handler новостей. responseCache может быть nil.
func NewNewsHandler(logger *slog.Logger, store storage.NewsStorage, locales *locale.Set, responseCache cache.ResponseCache) *NewsHandler {
	return &NewsHandler{
		contentBase: contentBase{
			responder: responder{logger: logger},
			locales:   locales,
			cache:     responseCache,
		},
		store: store,
		now:   time.Now,
	}
}

// List обрабатывает GET /api/v1/admin/news
// Возвращает и черновики, и опубликованные новости. Фильтр: ?club_id=
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := newsFilter(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, total, err := h.store.ListNews(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list news", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.ListResponse[*models.News]{
		Items:  items,
		Total:  total,
		Limit:  filter.Page.Limit,
		Offset: filter.Page.Offset,
	}, http.StatusOK)
}

// Get обрабатывает GET /api/v1/admin/news/{id}
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.store.GetNews(r.Context(), id)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	h.sendJSON(w, item, http.StatusOK)
}

// Create обрабатывает POST /api/v1/admin/news
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, ok := h.decodeNews(w, r)
	if !ok {
		return
	}

	if err := h.store.CreateNews(ctx, item); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "news created", slog.Int64("news_id", item.ID))
	h.invalidate(r, resourceNews)

	h.sendJSON(w, item, http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/admin/news/{id}
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, ok := h.decodeNews(w, r)
	if !ok {
		return
	}
	item.ID = id

	if err := h.store.UpdateNews(ctx, item); err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.store.GetNews(ctx, id)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "news updated", slog.Int64("news_id", id))
	h.invalidate(r, resourceNews)

	h.sendJSON(w, updated, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/admin/news/{id}
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteNews(ctx, id); err != nil {
		h.storageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "news deleted", slog.Int64("news_id", id))
	h.invalidate(r, resourceNews)

	w.WriteHeader(http.StatusNoContent)
}

// ClientList обрабатывает GET /api/v1/client/news
// Только опубликованные новости, свежие первыми
func (h *NewsHandler) ClientList(w http.ResponseWriter, r *http.Request) {
	filter, err := newsFilter(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.serveProjected(w, r, resourceNews, func() (any, error) {
		now := h.now().UTC()
		filter.PublishedAt = &now

		items, total, err := h.store.ListNews(r.Context(), filter)
		if err != nil {
			return nil, err
		}
		return api.ListResponse[*models.News]{
			Items:  items,
			Total:  total,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		}, nil
	})
}

// ClientGet обрабатывает GET /api/v1/client/news/{id}
// Черновик или новость с датой публикации в будущем отдается как 404
func (h *NewsHandler) ClientGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.serveProjected(w, r, resourceNews, func() (any, error) {
		item, err := h.store.GetNews(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if !item.IsPublished(h.now()) {
			return nil, errNotVisible
		}
		return item, nil
	})
}

func (h *NewsHandler) decodeNews(w http.ResponseWriter, r *http.Request) (*models.News, bool) {
	var req api.NewsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode news request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}

	if err := validation.ValidateNews(&req, h.locales.Supported()); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	item := &models.News{
		ClubID: req.ClubID,
		Title:  localized(req.Title),
		Body:   localized(req.Body),
	}
	if req.PublishedAt != nil {
		published := req.PublishedAt.UTC()
		item.PublishedAt = &published
	}

	return item, true
}

// writeError: ссылка на несуществующий клуб - ошибка запроса, а не 404 ресурса
func (h *NewsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrClubNotFound) {
		h.sendError(w, "club_id references a missing club", http.StatusBadRequest)
		return
	}
	h.storageError(w, r, err)
}

func newsFilter(r *http.Request) (storage.NewsFilter, error) {
	page, err := parsePage(r)
	if err != nil {
		return storage.NewsFilter{}, err
	}

	clubID, err := parseOptionalID(r, "club_id")
	if err != nil {
		return storage.NewsFilter{}, err
	}

	return storage.NewsFilter{ClubID: clubID, Page: page}, nil
}
