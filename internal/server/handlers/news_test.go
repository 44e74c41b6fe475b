package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/storage"
	"github.com/iudanet/leaguehub/pkg/api"
)

// mockNewsStorage is an in-memory NewsStorage for testing
type mockNewsStorage struct {
	items      map[int64]*models.News
	knownClubs map[int64]bool
	lastFilter storage.NewsFilter
	nextID     int64
	mu         sync.Mutex
}

func newMockNewsStorage(clubIDs ...int64) *mockNewsStorage {
	m := &mockNewsStorage{items: make(map[int64]*models.News), knownClubs: make(map[int64]bool)}
	for _, id := range clubIDs {
		m.knownClubs[id] = true
	}
	return m
}

func (m *mockNewsStorage) CreateNews(ctx context.Context, news *models.News) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if news.ClubID != nil && !m.knownClubs[*news.ClubID] {
		return storage.ErrClubNotFound
	}
	m.nextID++
	news.ID = m.nextID
	stored := *news
	m.items[news.ID] = &stored
	return nil
}

func (m *mockNewsStorage) GetNews(ctx context.Context, id int64) (*models.News, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, storage.ErrNewsNotFound
	}
	n := *item
	return &n, nil
}

func (m *mockNewsStorage) ListNews(ctx context.Context, filter storage.NewsFilter) ([]*models.News, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter

	var matched []*models.News
	for _, item := range m.items {
		if filter.ClubID != nil && (item.ClubID == nil || *item.ClubID != *filter.ClubID) {
			continue
		}
		if filter.PublishedAt != nil && !item.IsPublished(*filter.PublishedAt) {
			continue
		}
		n := *item
		matched = append(matched, &n)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if filter.Page.Offset >= total {
		return []*models.News{}, total, nil
	}
	end := min(filter.Page.Offset+filter.Page.Limit, total)
	return matched[filter.Page.Offset:end], total, nil
}

func (m *mockNewsStorage) UpdateNews(ctx context.Context, news *models.News) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[news.ID]; !ok {
		return storage.ErrNewsNotFound
	}
	if news.ClubID != nil && !m.knownClubs[*news.ClubID] {
		return storage.ErrClubNotFound
	}
	stored := *news
	m.items[news.ID] = &stored
	return nil
}

func (m *mockNewsStorage) DeleteNews(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return storage.ErrNewsNotFound
	}
	delete(m.items, id)
	return nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupNewsHandler(store *mockNewsStorage) *NewsHandler {
	h := NewNewsHandler(setupTestLogger(), store, testLocales(), nil)
	h.now = func() time.Time { return testNow }
	return h
}

func seedNews(t *testing.T, store *mockNewsStorage, title string, publishedAt *time.Time, clubID *int64) *models.News {
	t.Helper()
	item := &models.News{
		Title:       models.NewLocalized("uz", title, "ru", title+" (ru)"),
		Body:        models.NewLocalized("uz", "matn"),
		PublishedAt: publishedAt,
		ClubID:      clubID,
	}
	require.NoError(t, store.CreateNews(t.Context(), item))
	return item
}

func ptr[T any](v T) *T { return &v }

func TestNewsHandler_Create(t *testing.T) {
	t.Run("draft", func(t *testing.T) {
		store := newMockNewsStorage()
		handler := setupNewsHandler(store)

		body := `{"title":{"uz":"Gol!"},"body":{"uz":"Matn"}}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", bytes.NewReader([]byte(body))))

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Contains(t, store.items, int64(1))
		assert.Nil(t, store.items[1].PublishedAt)
	})

	t.Run("published with club, time normalized to UTC", func(t *testing.T) {
		store := newMockNewsStorage(7)
		handler := setupNewsHandler(store)

		body := `{"title":{"uz":"Gol!"},"body":{"uz":"Matn"},"club_id":7,"published_at":"2025-05-01T15:00:00+05:00"}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", bytes.NewReader([]byte(body))))

		require.Equal(t, http.StatusCreated, w.Code)
		stored := store.items[1]
		require.NotNil(t, stored.PublishedAt)
		assert.Equal(t, time.UTC, stored.PublishedAt.Location())
		assert.True(t, stored.PublishedAt.Equal(time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)))
		assert.Equal(t, int64(7), *stored.ClubID)
	})

	t.Run("unknown club", func(t *testing.T) {
		store := newMockNewsStorage()
		handler := setupNewsHandler(store)

		body := `{"title":{"uz":"Gol!"},"body":{"uz":"Matn"},"club_id":7}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", bytes.NewReader([]byte(body))))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "club_id")
	})

	t.Run("validation", func(t *testing.T) {
		store := newMockNewsStorage()
		handler := setupNewsHandler(store)

		for _, body := range []string{
			`{"body":{"uz":"Matn"}}`,
			`{"title":{"uz":"Gol!"}}`,
			`{"title":{"uz":"  "},"body":{"uz":"Matn"}}`,
			`{"title":{"uz":"Gol!"},"body":{"uz":"Matn"},"club_id":-1}`,
		} {
			w := httptest.NewRecorder()
			handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", bytes.NewReader([]byte(body))))
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
		assert.Empty(t, store.items)
	})
}

func TestNewsHandler_UpdateDelete(t *testing.T) {
	store := newMockNewsStorage()
	handler := setupNewsHandler(store)
	seedNews(t, store, "Eski", nil, nil)

	body := `{"title":{"uz":"Yangi"},"body":{"uz":"Matn"},"published_at":"2025-05-01T10:00:00Z"}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/", bytes.NewReader([]byte(body))), "id", "1")
	w := httptest.NewRecorder()
	handler.Update(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var updated models.News
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.JSONEq(t, `{"uz":"Yangi"}`, string(updated.Title))
	require.NotNil(t, updated.PublishedAt)

	req = withURLParam(httptest.NewRequest(http.MethodPut, "/", bytes.NewReader([]byte(body))), "id", "2")
	w = httptest.NewRecorder()
	handler.Update(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "1")
	w = httptest.NewRecorder()
	handler.Delete(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "1")
	w = httptest.NewRecorder()
	handler.Get(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewsHandler_AdminListIncludesDrafts(t *testing.T) {
	store := newMockNewsStorage(3)
	handler := setupNewsHandler(store)
	seedNews(t, store, "Draft", nil, ptr(int64(3)))
	seedNews(t, store, "Published", ptr(testNow.Add(-time.Hour)), nil)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/news", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.ListResponse[models.News]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Total)
	assert.Nil(t, store.lastFilter.PublishedAt)

	w = httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/news?club_id=3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, store.lastFilter.ClubID)
	assert.Equal(t, int64(3), *store.lastFilter.ClubID)

	w = httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/news?club_id=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewsHandler_ClientList_PublishedOnly(t *testing.T) {
	store := newMockNewsStorage()
	handler := setupNewsHandler(store)
	seedNews(t, store, "Draft", nil, nil)
	seedNews(t, store, "Old", ptr(testNow.Add(-48*time.Hour)), nil)
	seedNews(t, store, "Scheduled", ptr(testNow.Add(time.Hour)), nil)
	seedNews(t, store, "Fresh", ptr(testNow.Add(-time.Minute)), nil)

	req := withLang(httptest.NewRequest(http.MethodGet, "/api/v1/client/news", nil), "uz")
	w := httptest.NewRecorder()
	handler.ClientList(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.ListResponse[api.NewsView]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Fresh", resp.Items[0].Title)
	assert.Equal(t, "Old", resp.Items[1].Title)
	assert.Equal(t, "matn", resp.Items[0].Body)

	require.NotNil(t, store.lastFilter.PublishedAt)
	assert.True(t, store.lastFilter.PublishedAt.Equal(testNow))
}

func TestNewsHandler_ClientGet(t *testing.T) {
	store := newMockNewsStorage()
	handler := setupNewsHandler(store)
	seedNews(t, store, "Draft", nil, nil)
	seedNews(t, store, "Scheduled", ptr(testNow.Add(time.Hour)), nil)
	seedNews(t, store, "Live", ptr(testNow), nil)

	tests := []struct {
		id        string
		lang      string
		wantTitle string
		wantCode  int
	}{
		{id: "1", lang: "uz", wantCode: http.StatusNotFound},
		{id: "2", lang: "uz", wantCode: http.StatusNotFound},
		{id: "3", lang: "ru", wantCode: http.StatusOK, wantTitle: "Live (ru)"},
		{id: "3", lang: "en", wantCode: http.StatusOK, wantTitle: "Live"},
		{id: "4", lang: "uz", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.lang, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/client/news/"+tt.id, nil), "id", tt.id)
			req = withLang(req, tt.lang)
			w := httptest.NewRecorder()

			handler.ClientGet(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			var view api.NewsView
			require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
			assert.Equal(t, tt.wantTitle, view.Title)
			assert.Equal(t, "matn", view.Body)
		})
	}
}
