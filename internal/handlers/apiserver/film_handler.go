package apiserver

import (
	"net/http"
	"strconv"

	"filmorate/internal/apperrors"
	"filmorate/internal/models"
	"filmorate/internal/services"
)

// FilmHandler 封装了电影相关的 HTTP 处理器方法。
type FilmHandler struct {
	filmService    services.FilmService
	popularDefault int
}

// NewFilmHandler 创建一个新的 FilmHandler 实例。
// popularDefault 是 /films/popular 未指定 count 时返回的数量。
func NewFilmHandler(filmService services.FilmService, popularDefault int) *FilmHandler {
	if popularDefault <= 0 {
		popularDefault = 10
	}
	return &FilmHandler{filmService: filmService, popularDefault: popularDefault}
}

// ListFilms 处理 GET /films。
func (h *FilmHandler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.filmService.ListFilms(r.Context())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, films)
}

// CreateFilm 处理 POST /films，请求体中的 id 会被忽略。
func (h *FilmHandler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := decodeJSON(w, r, &film); err != nil {
		writeJSONError(w, r, err)
		return
	}

	created, err := h.filmService.CreateFilm(r.Context(), film)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

// UpdateFilm 处理 PUT /films，按请求体中的 id 更新。
func (h *FilmHandler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := decodeJSON(w, r, &film); err != nil {
		writeJSONError(w, r, err)
		return
	}

	updated, err := h.filmService.UpdateFilm(r.Context(), film)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

func (h *FilmHandler) GetFilm(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	film, err := h.filmService.GetFilm(r.Context(), filmID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, film)
}

// DeleteFilm 处理 DELETE /films/{id}，返回被删除的电影。
func (h *FilmHandler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	removed, err := h.filmService.DeleteFilm(r.Context(), filmID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, removed)
}

// LikeFilm 处理 PUT /films/{id}/like/{userId}。
func (h *FilmHandler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := likeIDs(r)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	if err := h.filmService.LikeFilm(r.Context(), filmID, userID); err != nil {
		writeJSONError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnlikeFilm 处理 DELETE /films/{id}/like/{userId}。
func (h *FilmHandler) UnlikeFilm(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := likeIDs(r)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	if err := h.filmService.UnlikeFilm(r.Context(), filmID, userID); err != nil {
		writeJSONError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Likers 处理 GET /films/{id}/likes。
func (h *FilmHandler) Likers(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	users, err := h.filmService.Likers(r.Context(), filmID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, users)
}

// PopularFilms 处理 GET /films/popular?count=N。
func (h *FilmHandler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	count := h.popularDefault
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, r, apperrors.InvalidArgument("count must be an integer, got %q", raw))
			return
		}
		count = n
	}

	films, err := h.filmService.TopFilms(r.Context(), count)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, films)
}

func likeIDs(r *http.Request) (uint, uint, error) {
	filmID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	return filmID, userID, nil
}
