package memory

import (
	"context"

	"filmorate/internal/models"
	"filmorate/internal/storage"
)

type catalogRepository struct {
	s *Store
}

func (r *catalogRepository) ListGenres(_ context.Context) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(r.s.genres))
	for _, id := range sortedKeys(r.s.genres) {
		genres = append(genres, r.s.genres[id])
	}
	return genres, nil
}

func (r *catalogRepository) GetGenre(_ context.Context, id uint) (*models.Genre, error) {
	genre, ok := r.s.genres[id]
	if !ok {
		return nil, storage.NotFound(storage.EntityGenre, id)
	}
	return &genre, nil
}

func (r *catalogRepository) GetGenresByIDs(_ context.Context, ids []uint) ([]models.Genre, error) {
	found := make(map[uint]models.Genre, len(ids))
	for _, id := range ids {
		if g, ok := r.s.genres[id]; ok {
			found[id] = g
		}
	}
	genres := make([]models.Genre, 0, len(found))
	for _, id := range sortedKeys(found) {
		genres = append(genres, found[id])
	}
	return genres, nil
}

func (r *catalogRepository) ListMpa(_ context.Context) ([]models.Mpa, error) {
	ratings := make([]models.Mpa, 0, len(r.s.mpa))
	for _, id := range sortedKeys(r.s.mpa) {
		ratings = append(ratings, r.s.mpa[id])
	}
	return ratings, nil
}

func (r *catalogRepository) GetMpa(_ context.Context, id uint) (*models.Mpa, error) {
	mpa, ok := r.s.mpa[id]
	if !ok {
		return nil, storage.NotFound(storage.EntityMpa, id)
	}
	return &mpa, nil
}
