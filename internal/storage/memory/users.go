package memory

import (
	"context"

	"filmorate/internal/models"
	"filmorate/internal/storage"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	now := r.s.now()
	user.ID = r.s.userSeq.Next()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, storage.NotFound(storage.EntityUser, id)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	wanted := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.s.users[id]; ok {
			wanted[id] = struct{}{}
		}
	}
	users := make([]models.User, 0, len(wanted))
	for _, id := range sortedKeys(wanted) {
		users = append(users, r.s.users[id])
	}
	return users, nil
}

func (r *userRepository) Update(_ context.Context, user *models.User) error {
	existing, ok := r.s.users[user.ID]
	if !ok {
		return storage.NotFound(storage.EntityUser, user.ID)
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) Delete(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, storage.NotFound(storage.EntityUser, id)
	}
	delete(r.s.users, id)
	return &user, nil
}

func (r *userRepository) List(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		users = append(users, r.s.users[id])
	}
	return users, nil
}

func (r *userRepository) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := r.s.users[id]
	return ok, nil
}
