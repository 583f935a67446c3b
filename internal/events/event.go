// Package events describes the activity events emitted after successful
// mutations and the publishers that ship them.
package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"filmorate/internal/models"
)

// Type 是事件类型，格式为 "<实体>.<动作>"。
type Type string

const (
	FilmCreated   Type = "film.created"
	FilmUpdated   Type = "film.updated"
	FilmDeleted   Type = "film.deleted"
	FilmLiked     Type = "film.liked"
	FilmUnliked   Type = "film.unliked"
	UserCreated   Type = "user.created"
	UserUpdated   Type = "user.updated"
	UserDeleted   Type = "user.deleted"
	FriendAdded   Type = "friend.added"
	FriendRemoved Type = "friend.removed"
)

// Event is one activity record.
// Audience 为空表示广播给所有在线用户。
type Event struct {
	ID         string       `json:"id"`
	Type       Type         `json:"type"`
	FilmID     uint         `json:"filmId,omitempty"`
	UserID     uint         `json:"userId,omitempty"`
	FriendID   uint         `json:"friendId,omitempty"`
	Film       *models.Film `json:"film,omitempty"`
	User       *models.User `json:"user,omitempty"`
	Audience   []uint       `json:"audience,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

func newEvent(t Type) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

// ForFilm builds a film.created/updated/deleted event.
func ForFilm(t Type, film models.Film) Event {
	e := newEvent(t)
	e.FilmID = film.ID
	e.Film = &film
	return e
}

// ForLike builds a film.liked/unliked event addressed to audience.
func ForLike(t Type, filmID, userID uint, audience []uint) Event {
	e := newEvent(t)
	e.FilmID = filmID
	e.UserID = userID
	e.Audience = audience
	return e
}

// ForUser builds a user.created/updated/deleted event.
func ForUser(t Type, user models.User, audience []uint) Event {
	e := newEvent(t)
	e.UserID = user.ID
	e.User = &user
	e.Audience = audience
	return e
}

// ForFriendship 构造好友事件，两端用户都会收到。
func ForFriendship(t Type, userID, friendID uint) Event {
	e := newEvent(t)
	e.UserID = userID
	e.FriendID = friendID
	e.Audience = []uint{userID, friendID}
	return e
}

// Key 返回 Kafka 分区键：同一部电影或同一个用户的事件落在同一分区，保持顺序。
func (e Event) Key() []byte {
	switch {
	case e.UserID != 0:
		return []byte("user-" + strconv.FormatUint(uint64(e.UserID), 10))
	case e.FilmID != 0:
		return []byte("film-" + strconv.FormatUint(uint64(e.FilmID), 10))
	default:
		return []byte(e.ID)
	}
}

// Encode serializes the event as JSON.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses an event produced by Encode.
func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}
