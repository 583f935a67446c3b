package storage

import (
	"context"

	"gorm.io/gorm"

	"filmorate/internal/models"
)

type gormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a CatalogRepository over the genres and mpa_ratings tables.
func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	return &gormCatalogRepository{db: db}
}

func (r *gormCatalogRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres := []models.Genre{}
	if err := r.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, wrapInternal(err, "list genres")
	}
	return genres, nil
}

func (r *gormCatalogRepository) GetGenre(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, translate(err, EntityGenre, id)
	}
	return &genre, nil
}

func (r *gormCatalogRepository) GetGenresByIDs(ctx context.Context, ids []uint) ([]models.Genre, error) {
	genres := []models.Genre{}
	if len(ids) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&genres).Error; err != nil {
		return nil, wrapInternal(err, "get genres by ids")
	}
	return genres, nil
}

func (r *gormCatalogRepository) ListMpa(ctx context.Context) ([]models.Mpa, error) {
	ratings := []models.Mpa{}
	if err := r.db.WithContext(ctx).Order("id").Find(&ratings).Error; err != nil {
		return nil, wrapInternal(err, "list mpa ratings")
	}
	return ratings, nil
}

func (r *gormCatalogRepository) GetMpa(ctx context.Context, id uint) (*models.Mpa, error) {
	var mpa models.Mpa
	if err := r.db.WithContext(ctx).First(&mpa, id).Error; err != nil {
		return nil, translate(err, EntityMpa, id)
	}
	return &mpa, nil
}
