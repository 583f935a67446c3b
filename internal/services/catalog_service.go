package services

import (
	"context"

	"filmorate/internal/models"
	"filmorate/internal/storage"
)

// CatalogService exposes the read-only genre and MPA rating reference data.
type CatalogService interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, id uint) (*models.Genre, error)
	ListMpa(ctx context.Context) ([]models.Mpa, error)
	GetMpa(ctx context.Context, id uint) (*models.Mpa, error)
}

type catalogService struct {
	tx storage.Transactor
}

// NewCatalogService 创建一个新的 CatalogService 实例。
func NewCatalogService(tx storage.Transactor) CatalogService {
	return &catalogService{tx: tx}
}

func (s *catalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		genres, err = repos.Catalog.ListGenres(ctx)
		return err
	})
	return genres, err
}

func (s *catalogService) GetGenre(ctx context.Context, id uint) (*models.Genre, error) {
	var genre *models.Genre
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		genre, err = repos.Catalog.GetGenre(ctx, id)
		return err
	})
	return genre, err
}

func (s *catalogService) ListMpa(ctx context.Context) ([]models.Mpa, error) {
	var ratings []models.Mpa
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		ratings, err = repos.Catalog.ListMpa(ctx)
		return err
	})
	return ratings, err
}

func (s *catalogService) GetMpa(ctx context.Context, id uint) (*models.Mpa, error) {
	var mpa *models.Mpa
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		mpa, err = repos.Catalog.GetMpa(ctx, id)
		return err
	})
	return mpa, err
}
