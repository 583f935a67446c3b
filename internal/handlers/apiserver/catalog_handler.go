package apiserver

import (
	"net/http"

	"filmorate/internal/services"
)

// CatalogHandler 提供类型和分级的只读接口。
type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalogService.ListGenres(r.Context())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, genres)
}

func (h *CatalogHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	genre, err := h.catalogService.GetGenre(r.Context(), id)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, genre)
}

func (h *CatalogHandler) ListMpa(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.catalogService.ListMpa(r.Context())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, ratings)
}

func (h *CatalogHandler) GetMpa(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	mpa, err := h.catalogService.GetMpa(r.Context(), id)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, mpa)
}
