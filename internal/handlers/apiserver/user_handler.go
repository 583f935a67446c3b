package apiserver

import (
	"net/http"

	"filmorate/internal/models"
	"filmorate/internal/services"
)

// UserHandler 封装了用户和好友相关的 HTTP 处理器方法。
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, users)
}

// CreateUser 处理 POST /users。name 为空时使用 login。
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(w, r, &user); err != nil {
		writeJSONError(w, r, err)
		return
	}

	created, err := h.userService.CreateUser(r.Context(), user)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(w, r, &user); err != nil {
		writeJSONError(w, r, err)
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), user)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}

// DeleteUser 处理 DELETE /users/{id}，同时删除该用户的点赞和好友关系。
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	removed, err := h.userService.DeleteUser(r.Context(), userID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, removed)
}

// AddFriend 处理 PUT /users/{id}/friends/{friendId}。
func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := pairIDs(r, "friendId")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	if err := h.userService.AddFriend(r.Context(), userID, friendID); err != nil {
		writeJSONError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFriend 处理 DELETE /users/{id}/friends/{friendId}。
func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := pairIDs(r, "friendId")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	if err := h.userService.RemoveFriend(r.Context(), userID, friendID); err != nil {
		writeJSONError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFriends 处理 GET /users/{id}/friends。
func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	friends, err := h.userService.Friends(r.Context(), userID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, friends)
}

// CommonFriends 处理 GET /users/{id}/friends/common/{otherId}。
func (h *UserHandler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, otherID, err := pairIDs(r, "otherId")
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	common, err := h.userService.CommonFriends(r.Context(), userID, otherID)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, common)
}

func pairIDs(r *http.Request, second string) (uint, uint, error) {
	userID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	otherID, err := pathID(r, second)
	if err != nil {
		return 0, 0, err
	}
	return userID, otherID, nil
}
