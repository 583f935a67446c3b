package memory

import (
	"context"

	"filmorate/internal/models"
	"filmorate/internal/storage"
)

type filmRepository struct {
	s *Store
}

func (r *filmRepository) Create(_ context.Context, film *models.Film) error {
	now := r.s.now()
	film.ID = r.s.filmSeq.Next()
	film.CreatedAt = now
	film.UpdatedAt = now
	syncMpaID(film)
	r.s.films[film.ID] = film.Clone()
	return nil
}

func (r *filmRepository) GetByID(_ context.Context, id uint) (*models.Film, error) {
	film, ok := r.s.films[id]
	if !ok {
		return nil, storage.NotFound(storage.EntityFilm, id)
	}
	film = film.Clone()
	return &film, nil
}

func (r *filmRepository) Update(_ context.Context, film *models.Film) error {
	existing, ok := r.s.films[film.ID]
	if !ok {
		return storage.NotFound(storage.EntityFilm, film.ID)
	}
	film.CreatedAt = existing.CreatedAt
	film.UpdatedAt = r.s.now()
	syncMpaID(film)
	r.s.films[film.ID] = film.Clone()
	return nil
}

// Delete 删除电影记录，类型关联保存在记录内部，随之一起删除。
func (r *filmRepository) Delete(_ context.Context, id uint) (*models.Film, error) {
	film, ok := r.s.films[id]
	if !ok {
		return nil, storage.NotFound(storage.EntityFilm, id)
	}
	delete(r.s.films, id)
	return &film, nil
}

func (r *filmRepository) List(_ context.Context) ([]models.Film, error) {
	films := make([]models.Film, 0, len(r.s.films))
	for _, id := range sortedKeys(r.s.films) {
		films = append(films, r.s.films[id].Clone())
	}
	return films, nil
}

func (r *filmRepository) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := r.s.films[id]
	return ok, nil
}

func syncMpaID(film *models.Film) {
	film.MpaID = nil
	if film.Mpa != nil {
		id := film.Mpa.ID
		film.MpaID = &id
	}
}
