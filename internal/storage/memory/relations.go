package memory

import (
	"context"
	"time"

	"filmorate/internal/models"
)

type likeRepository struct {
	s *Store
}

func (r *likeRepository) Add(_ context.Context, filmID, userID uint) (bool, error) {
	likers, ok := r.s.likes[filmID]
	if !ok {
		likers = make(map[uint]time.Time)
		r.s.likes[filmID] = likers
	}
	if _, liked := likers[userID]; liked {
		return false, nil
	}
	likers[userID] = r.s.now()
	return true, nil
}

func (r *likeRepository) Remove(_ context.Context, filmID, userID uint) (bool, error) {
	likers := r.s.likes[filmID]
	if _, liked := likers[userID]; !liked {
		return false, nil
	}
	delete(likers, userID)
	if len(likers) == 0 {
		delete(r.s.likes, filmID)
	}
	return true, nil
}

func (r *likeRepository) Count(_ context.Context, filmID uint) (int, error) {
	return len(r.s.likes[filmID]), nil
}

func (r *likeRepository) UserIDs(_ context.Context, filmID uint) ([]uint, error) {
	return sortedKeys(r.s.likes[filmID]), nil
}

func (r *likeRepository) Counts(_ context.Context) (map[uint]int, error) {
	counts := make(map[uint]int, len(r.s.likes))
	for filmID, likers := range r.s.likes {
		if len(likers) > 0 {
			counts[filmID] = len(likers)
		}
	}
	return counts, nil
}

func (r *likeRepository) DeleteByFilm(_ context.Context, filmID uint) error {
	delete(r.s.likes, filmID)
	return nil
}

func (r *likeRepository) DeleteByUser(_ context.Context, userID uint) error {
	for filmID, likers := range r.s.likes {
		delete(likers, userID)
		if len(likers) == 0 {
			delete(r.s.likes, filmID)
		}
	}
	return nil
}

// friendshipRepository 在同一个临界区内写入两个方向，关系始终对称。
type friendshipRepository struct {
	s *Store
}

func (r *friendshipRepository) Create(_ context.Context, friendship *models.Friendship) error {
	friendship.EnsureCanonicalOrder()
	friendship.CreatedAt = r.s.now()
	r.link(friendship.UserID1, friendship.UserID2, friendship.CreatedAt)
	r.link(friendship.UserID2, friendship.UserID1, friendship.CreatedAt)
	return nil
}

func (r *friendshipRepository) link(from, to uint, at time.Time) {
	edges, ok := r.s.friends[from]
	if !ok {
		edges = make(map[uint]time.Time)
		r.s.friends[from] = edges
	}
	edges[to] = at
}

func (r *friendshipRepository) unlink(from, to uint) bool {
	edges := r.s.friends[from]
	if _, ok := edges[to]; !ok {
		return false
	}
	delete(edges, to)
	if len(edges) == 0 {
		delete(r.s.friends, from)
	}
	return true
}

func (r *friendshipRepository) AreUsersFriends(_ context.Context, userID1, userID2 uint) (bool, error) {
	_, ok := r.s.friends[userID1][userID2]
	return ok, nil
}

func (r *friendshipRepository) Delete(_ context.Context, userID1, userID2 uint) (bool, error) {
	forward := r.unlink(userID1, userID2)
	backward := r.unlink(userID2, userID1)
	return forward || backward, nil
}

func (r *friendshipRepository) GetFriendIDs(_ context.Context, userID uint) ([]uint, error) {
	return sortedKeys(r.s.friends[userID]), nil
}

func (r *friendshipRepository) DeleteByUser(_ context.Context, userID uint) error {
	for friendID := range r.s.friends[userID] {
		r.unlink(friendID, userID)
	}
	delete(r.s.friends, userID)
	return nil
}
