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

// Ресурсы client API, по которым ведется кэш
const (
	resourceClubs = "clubs"
	resourceNews  = "news"
)

// ClubHandler обрабатывает запросы к клубам
type ClubHandler struct {
	store storage.ClubStorage
	now   func() time.Time
	contentBase
}

// NewClubHandler создает handler клубов. responseCache может быть nil.
func NewClubHandler(logger *slog.Logger, store storage.ClubStorage, locales *locale.Set, responseCache cache.ResponseCache) *ClubHandler {
	return &ClubHandler{
		contentBase: contentBase{
			responder: responder{logger: logger},
			locales:   locales,
			cache:     responseCache,
		},
		store: store,
		now:   time.Now,
	}
}

// List обрабатывает GET /api/v1/admin/clubs
// Возвращает клубы со всеми переводами
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := parsePage(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	clubs, total, err := h.store.ListClubs(ctx, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list clubs", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.ListResponse[*models.Club]{
		Items:  clubs,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, http.StatusOK)
}

// Get обрабатывает GET /api/v1/admin/clubs/{id}
func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	club, err := h.store.GetClub(ctx, id)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	h.sendJSON(w, club, http.StatusOK)
}

// Create обрабатывает POST /api/v1/admin/clubs
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	club, ok := h.decodeClub(w, r)
	if !ok {
		return
	}

	if err := h.store.CreateClub(ctx, club); err != nil {
		h.storageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "club created", slog.Int64("club_id", club.ID))
	h.invalidate(r, resourceClubs)

	h.sendJSON(w, club, http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/admin/clubs/{id}
func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	club, ok := h.decodeClub(w, r)
	if !ok {
		return
	}
	club.ID = id

	if err := h.store.UpdateClub(ctx, club); err != nil {
		h.storageError(w, r, err)
		return
	}

	// перечитываем, чтобы вернуть created_at
	updated, err := h.store.GetClub(ctx, id)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "club updated", slog.Int64("club_id", id))
	h.invalidate(r, resourceClubs)

	h.sendJSON(w, updated, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/admin/clubs/{id}
func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteClub(ctx, id); err != nil {
		h.storageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "club deleted", slog.Int64("club_id", id))
	// новости теряют ссылку на клуб
	h.invalidate(r, resourceClubs, resourceNews)

	w.WriteHeader(http.StatusNoContent)
}

// ClientList обрабатывает GET /api/v1/client/clubs
// Локализованные поля возвращаются на языке запроса
func (h *ClubHandler) ClientList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.serveProjected(w, r, resourceClubs, func() (any, error) {
		clubs, total, err := h.store.ListClubs(r.Context(), page)
		if err != nil {
			return nil, err
		}
		return api.ListResponse[*models.Club]{
			Items:  clubs,
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		}, nil
	})
}

// ClientGet обрабатывает GET /api/v1/client/clubs/{id}
func (h *ClubHandler) ClientGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.serveProjected(w, r, resourceClubs, func() (any, error) {
		return h.store.GetClub(r.Context(), id)
	})
}

// decodeClub читает и проверяет тело запроса. При ошибке ответ уже отправлен.
func (h *ClubHandler) decodeClub(w http.ResponseWriter, r *http.Request) (*models.Club, bool) {
	var req api.ClubRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode club request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}

	if err := validation.ValidateClub(&req, h.locales.Supported(), h.now()); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return &models.Club{
		Name:    localized(req.Name),
		City:    localized(req.City),
		LogoURL: req.LogoURL,
		Founded: req.Founded,
	}, true
}

// storageError переводит ошибки хранилища в HTTP статусы
func (h *contentBase) storageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrClubNotFound):
		h.sendError(w, "club not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrNewsNotFound):
		h.sendError(w, "news not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		h.sendError(w, "already exists", http.StatusConflict)
	default:
		h.logger.ErrorContext(r.Context(), "storage operation failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}
