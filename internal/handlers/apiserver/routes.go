package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes 把所有 API 路由注册到 r 上。
// /films/popular 必须先于 /films/{id} 注册。
func RegisterRoutes(r *mux.Router, films *FilmHandler, users *UserHandler, catalog *CatalogHandler) {
	r.HandleFunc("/films", films.ListFilms).Methods(http.MethodGet)
	r.HandleFunc("/films", films.CreateFilm).Methods(http.MethodPost)
	r.HandleFunc("/films", films.UpdateFilm).Methods(http.MethodPut)
	r.HandleFunc("/films/popular", films.PopularFilms).Methods(http.MethodGet)
	r.HandleFunc("/films/{id:[0-9]+}", films.GetFilm).Methods(http.MethodGet)
	r.HandleFunc("/films/{id:[0-9]+}", films.DeleteFilm).Methods(http.MethodDelete)
	r.HandleFunc("/films/{id:[0-9]+}/likes", films.Likers).Methods(http.MethodGet)
	r.HandleFunc("/films/{id:[0-9]+}/like/{userId:[0-9]+}", films.LikeFilm).Methods(http.MethodPut)
	r.HandleFunc("/films/{id:[0-9]+}/like/{userId:[0-9]+}", films.UnlikeFilm).Methods(http.MethodDelete)

	r.HandleFunc("/users", users.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", users.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users", users.UpdateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}", users.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", users.DeleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/users/{id:[0-9]+}/friends", users.ListFriends).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}/friends/common/{otherId:[0-9]+}", users.CommonFriends).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}/friends/{friendId:[0-9]+}", users.AddFriend).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}/friends/{friendId:[0-9]+}", users.RemoveFriend).Methods(http.MethodDelete)

	r.HandleFunc("/genres", catalog.ListGenres).Methods(http.MethodGet)
	r.HandleFunc("/genres/{id:[0-9]+}", catalog.GetGenre).Methods(http.MethodGet)
	r.HandleFunc("/mpa", catalog.ListMpa).Methods(http.MethodGet)
	r.HandleFunc("/mpa/{id:[0-9]+}", catalog.GetMpa).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(w, http.StatusNotFound, ErrorResponse{Error: "route not found", Code: "NOT_FOUND"})
	})
}
