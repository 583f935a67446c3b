package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/events"
	"filmorate/internal/models"
	"filmorate/internal/services"
	"filmorate/internal/storage/memory"
	"filmorate/internal/validation"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	store := memory.NewStore()
	v := validation.New(validation.WithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	}))
	pub := events.NopPublisher{}

	r := mux.NewRouter()
	RegisterRoutes(r,
		NewFilmHandler(services.NewFilmService(store, v, pub), 10),
		NewUserHandler(services.NewUserService(store, v, pub)),
		NewCatalogHandler(services.NewCatalogService(store)),
	)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const inception = `{"name":"Inception","description":"Dreams","releaseDate":"2010-07-16","duration":148,"mpa":{"id":3},"genres":[{"id":4},{"id":2}]}`

func TestFilmLifecycle(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/films", inception)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Film](t, rec)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "PG-13", created.Mpa.Name)
	assert.Equal(t, []uint{2, 4}, created.GenreIDs())
	assert.Equal(t, "2010-07-16", created.ReleaseDate.String())

	rec = do(t, r, http.MethodPut, "/films", `{"id":1,"name":"Inception (2010)","releaseDate":"2010-07-16","duration":148}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Inception (2010)", decode[models.Film](t, rec).Name)

	rec = do(t, r, http.MethodGet, "/films/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Film](t, rec)
	assert.Nil(t, got.Mpa)
	assert.Empty(t, got.Genres)

	rec = do(t, r, http.MethodDelete, "/films/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/films/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "film with id 1 not found", body.Error)
}

func TestFilmWithoutGenres_RendersEmptyList(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/films", `{"name":"Memento","releaseDate":"2000-10-11","duration":113}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"genres":[]`)

	for _, path := range []string{"/films/1", "/films", "/films/popular"} {
		rec = do(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"genres":[]`, path)
		assert.NotContains(t, rec.Body.String(), `"genres":null`, path)
	}
}

func TestCreateFilm_ValidationErrors(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/films", `{"name":" ","releaseDate":"1890-01-01","duration":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	details, ok := body.Details.([]interface{})
	require.True(t, ok, "details should list every violated field")
	assert.Len(t, details, 3)

	rec = do(t, r, http.MethodGet, "/films", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateFilm_BadBody(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/films", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode[ErrorResponse](t, rec).Code)

	rec = do(t, r, http.MethodPost, "/films", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUnknownFilm(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodPut, "/films", `{"id":9,"name":"Nope","releaseDate":"2000-01-01","duration":10}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikesAndPopular(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/films", inception).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/films",
		`{"name":"Interstellar","releaseDate":"2014-11-07","duration":169}`).Code)
	for _, login := range []string{"u1", "u2"} {
		rec := do(t, r, http.MethodPost, "/users", `{"email":"`+login+`@example.com","login":"`+login+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPut, "/films/1/like/1", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPut, "/films/2/like/1", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPut, "/films/2/like/2", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPut, "/films/2/like/2", "").Code, "double like is a no-op")

	rec := do(t, r, http.MethodGet, "/films/popular?count=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	top := decode[[]models.FilmWithLikes](t, rec)
	require.Len(t, top, 1)
	assert.Equal(t, "Interstellar", top[0].Name)
	assert.Equal(t, 2, top[0].Likes)

	rec = do(t, r, http.MethodGet, "/films/popular", "")
	assert.Len(t, decode[[]models.FilmWithLikes](t, rec), 2)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/films/popular?count=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/films/popular?count=ten", "").Code)

	rec = do(t, r, http.MethodGet, "/films/2/likes", "")
	assert.Len(t, decode[[]models.User](t, rec), 2)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/films/2/like/2", "").Code)
	rec = do(t, r, http.MethodDelete, "/films/2/like/2", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[ErrorResponse](t, rec).Code)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/films/1/like/99", "").Code)
}

func TestFriends(t *testing.T) {
	r := newTestRouter(t)
	for _, login := range []string{"a", "b", "c"} {
		require.Equal(t, http.StatusCreated,
			do(t, r, http.MethodPost, "/users", `{"email":"`+login+`@example.com","login":"`+login+`","birthday":"1990-01-01"}`).Code)
	}

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPut, "/users/1/friends/3", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPut, "/users/2/friends/3", "").Code)
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPut, "/users/3/friends/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPut, "/users/1/friends/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/users/1/friends/42", "").Code)

	rec := do(t, r, http.MethodGet, "/users/3/friends", "")
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decode[[]models.User](t, rec)
	require.Len(t, friends, 2)
	assert.Equal(t, "a", friends[0].Login)

	rec = do(t, r, http.MethodGet, "/users/1/friends/common/2", "")
	common := decode[[]models.User](t, rec)
	require.Len(t, common, 1)
	assert.Equal(t, uint(3), common[0].ID)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/users/3/friends/1", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/users/3/friends/1", "").Code)
	rec = do(t, r, http.MethodGet, "/users/1/friends", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateUser_RejectsPaddedEmail(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/users", `{"email":" a@b ","login":"al"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", decode[ErrorResponse](t, rec).Code)

	rec = do(t, r, http.MethodGet, "/users", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUserNameDefaultsToLogin(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodPost, "/users", `{"email":"x@example.com","login":"xlogin","name":""}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "xlogin", decode[models.User](t, rec).Name)

	rec = do(t, r, http.MethodPost, "/users", `{"email":"no-at","login":"has space"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/genres", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Genre](t, rec), 6)

	rec = do(t, r, http.MethodGet, "/mpa/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "G", decode[models.Mpa](t, rec).Name)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/genres/99", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/nowhere", "").Code)
}
