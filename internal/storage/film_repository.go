package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"filmorate/internal/models"
)

// gormFilmRepository implements FilmRepository using GORM.
type gormFilmRepository struct {
	db *gorm.DB
}

// NewGormFilmRepository creates a new GORM-based FilmRepository.
func NewGormFilmRepository(db *gorm.DB) FilmRepository {
	return &gormFilmRepository{db: db}
}

// withRefs 预加载分级和类型，类型按 ID 排序。
func withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Mpa").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.id")
	})
}

// Create inserts the film and its genre links. Genres and ratings are reference
// data and are never upserted from here.
func (r *gormFilmRepository) Create(ctx context.Context, film *models.Film) error {
	film.ID = 0
	if film.Mpa != nil {
		film.MpaID = &film.Mpa.ID
	}
	err := r.db.WithContext(ctx).Omit("Mpa", "Genres.*").Create(film).Error
	return wrapInternal(err, "create film")
}

func (r *gormFilmRepository) GetByID(ctx context.Context, id uint) (*models.Film, error) {
	var film models.Film
	if err := withRefs(r.db.WithContext(ctx)).First(&film, id).Error; err != nil {
		return nil, translate(err, EntityFilm, id)
	}
	return &film, nil
}

// Update 只更新列出的字段，RowsAffected 为 0 说明记录不存在。
func (r *gormFilmRepository) Update(ctx context.Context, film *models.Film) error {
	db := r.db.WithContext(ctx)
	film.MpaID = nil
	if film.Mpa != nil {
		film.MpaID = &film.Mpa.ID
	}
	film.UpdatedAt = time.Now()

	result := db.Model(film).
		Select("name", "description", "release_date", "duration", "mpa_id", "updated_at").
		Updates(film)
	if result.Error != nil {
		return wrapInternal(result.Error, "update film")
	}
	if result.RowsAffected == 0 {
		return NotFound(EntityFilm, film.ID)
	}

	genres := db.Model(film).Omit("Genres.*").Association("Genres")
	if len(film.Genres) == 0 {
		return wrapInternal(genres.Clear(), "clear film genres")
	}
	return wrapInternal(genres.Replace(film.Genres), "replace film genres")
}

// Delete removes the film row and its genre links.
func (r *gormFilmRepository) Delete(ctx context.Context, id uint) (*models.Film, error) {
	film, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Select("Genres").Delete(film).Error; err != nil {
		return nil, wrapInternal(err, "delete film")
	}
	return film, nil
}

func (r *gormFilmRepository) List(ctx context.Context) ([]models.Film, error) {
	var films []models.Film
	err := withRefs(r.db.WithContext(ctx)).Order("id").Find(&films).Error
	if err != nil {
		return nil, wrapInternal(err, "list films")
	}
	return films, nil
}

func (r *gormFilmRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Film{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, wrapInternal(err, "check film")
	}
	return count > 0, nil
}
