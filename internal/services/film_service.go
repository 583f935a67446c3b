package services

import (
	"context"

	"filmorate/internal/apperrors"
	"filmorate/internal/events"
	"filmorate/internal/logger"
	"filmorate/internal/metrics"
	"filmorate/internal/models"
	"filmorate/internal/ranking"
	"filmorate/internal/storage"
	"filmorate/internal/validation"
)

// FilmService 定义了电影、点赞和热门排行相关的操作。
type FilmService interface {
	CreateFilm(ctx context.Context, film models.Film) (*models.Film, error)
	UpdateFilm(ctx context.Context, film models.Film) (*models.Film, error)
	DeleteFilm(ctx context.Context, filmID uint) (*models.Film, error)
	GetFilm(ctx context.Context, filmID uint) (*models.Film, error)
	ListFilms(ctx context.Context) ([]models.Film, error)
	// LikeFilm 是幂等的：重复点赞不报错，也不会增加点赞数。
	LikeFilm(ctx context.Context, filmID, userID uint) error
	// UnlikeFilm 在用户没有点过赞时返回 ErrNotLiked。
	UnlikeFilm(ctx context.Context, filmID, userID uint) error
	Likers(ctx context.Context, filmID uint) ([]models.User, error)
	// TopFilms 返回点赞最多的 count 部电影，count 必须为正数。
	TopFilms(ctx context.Context, count int) ([]models.FilmWithLikes, error)
}

// filmService 是 FilmService 的实现。
type filmService struct {
	tx        storage.Transactor
	validator *validation.Validator
	publisher events.Publisher
}

// NewFilmService 创建一个新的 FilmService 实例。
func NewFilmService(tx storage.Transactor, validator *validation.Validator, publisher events.Publisher) FilmService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &filmService{tx: tx, validator: validator, publisher: publisher}
}

func (s *filmService) CreateFilm(ctx context.Context, film models.Film) (*models.Film, error) {
	film.ID = 0
	if err := s.validator.ValidateFilm(&film); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := resolveReferences(ctx, repos.Catalog, &film); err != nil {
			return err
		}
		return repos.Films.Create(ctx, &film)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("film created", "filmId", film.ID, "name", film.Name)
	publish(ctx, s.publisher, events.ForFilm(events.FilmCreated, film))
	return &film, nil
}

func (s *filmService) UpdateFilm(ctx context.Context, film models.Film) (*models.Film, error) {
	if err := s.validator.ValidateFilm(&film); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		exists, err := repos.Films.Exists(ctx, film.ID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.NotFound(storage.EntityFilm, film.ID)
		}
		if err := resolveReferences(ctx, repos.Catalog, &film); err != nil {
			return err
		}
		return repos.Films.Update(ctx, &film)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.ForFilm(events.FilmUpdated, film))
	return &film, nil
}

// DeleteFilm 删除电影以及它收到的所有点赞。
func (s *filmService) DeleteFilm(ctx context.Context, filmID uint) (*models.Film, error) {
	var removed *models.Film
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		exists, err := repos.Films.Exists(ctx, filmID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.NotFound(storage.EntityFilm, filmID)
		}
		if err := repos.Likes.DeleteByFilm(ctx, filmID); err != nil {
			return err
		}
		removed, err = repos.Films.Delete(ctx, filmID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("film deleted", "filmId", filmID)
	publish(ctx, s.publisher, events.ForFilm(events.FilmDeleted, *removed))
	return removed, nil
}

func (s *filmService) GetFilm(ctx context.Context, filmID uint) (*models.Film, error) {
	var film *models.Film
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		film, err = repos.Films.GetByID(ctx, filmID)
		return err
	})
	return film, err
}

func (s *filmService) ListFilms(ctx context.Context) ([]models.Film, error) {
	var films []models.Film
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		films, err = repos.Films.List(ctx)
		return err
	})
	return films, err
}

func (s *filmService) LikeFilm(ctx context.Context, filmID, userID uint) error {
	var (
		added    bool
		audience []uint
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireFilmAndUser(ctx, repos, filmID, userID); err != nil {
			return err
		}
		var err error
		added, err = repos.Likes.Add(ctx, filmID, userID)
		if err != nil || !added {
			return err
		}
		friendIDs, err := repos.Friendships.GetFriendIDs(ctx, userID)
		if err != nil {
			return err
		}
		audience = audienceOf(userID, friendIDs)
		return nil
	})
	if err != nil {
		return err
	}

	if !added {
		metrics.LikeChanged("duplicate")
		logger.Debug("film already liked", "filmId", filmID, "userId", userID)
		return nil
	}
	metrics.LikeChanged("added")
	publish(ctx, s.publisher, events.ForLike(events.FilmLiked, filmID, userID, audience))
	return nil
}

func (s *filmService) UnlikeFilm(ctx context.Context, filmID, userID uint) error {
	var audience []uint
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireFilmAndUser(ctx, repos, filmID, userID); err != nil {
			return err
		}
		removed, err := repos.Likes.Remove(ctx, filmID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotLiked
		}
		friendIDs, err := repos.Friendships.GetFriendIDs(ctx, userID)
		if err != nil {
			return err
		}
		audience = audienceOf(userID, friendIDs)
		return nil
	})
	if err != nil {
		return err
	}

	metrics.LikeChanged("removed")
	publish(ctx, s.publisher, events.ForLike(events.FilmUnliked, filmID, userID, audience))
	return nil
}

func (s *filmService) Likers(ctx context.Context, filmID uint) ([]models.User, error) {
	var users []models.User
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		exists, err := repos.Films.Exists(ctx, filmID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.NotFound(storage.EntityFilm, filmID)
		}
		ids, err := repos.Likes.UserIDs(ctx, filmID)
		if err != nil {
			return err
		}
		users, err = repos.Users.GetByIDs(ctx, ids)
		return err
	})
	return users, err
}

// TopFilms 在同一个读快照中读取电影和点赞数，排行不会看到写了一半的数据。
func (s *filmService) TopFilms(ctx context.Context, count int) ([]models.FilmWithLikes, error) {
	if count <= 0 {
		return nil, apperrors.InvalidArgument("count must be positive, got %d", count)
	}

	var ranked []models.FilmWithLikes
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		films, err := repos.Films.List(ctx)
		if err != nil {
			return err
		}
		likes, err := repos.Likes.Counts(ctx)
		if err != nil {
			return err
		}
		ranked, err = ranking.Top(films, likes, count)
		return err
	})
	return ranked, err
}

func requireFilmAndUser(ctx context.Context, repos storage.Repositories, filmID, userID uint) error {
	exists, err := repos.Films.Exists(ctx, filmID)
	if err != nil {
		return err
	}
	if !exists {
		return storage.NotFound(storage.EntityFilm, filmID)
	}
	return requireUsers(ctx, repos.Users, userID)
}

// resolveReferences 用目录中的记录替换电影引用的分级和类型。
// 类型去重并按 ID 排序；引用不存在的 ID 返回 NOT_FOUND。
func resolveReferences(ctx context.Context, catalog storage.CatalogRepository, film *models.Film) error {
	if film.Mpa != nil {
		mpa, err := catalog.GetMpa(ctx, film.Mpa.ID)
		if err != nil {
			return err
		}
		film.Mpa = mpa
	}

	if len(film.Genres) == 0 {
		film.Genres = []models.Genre{}
		return nil
	}
	requested := film.GenreIDs()
	genres, err := catalog.GetGenresByIDs(ctx, requested)
	if err != nil {
		return err
	}
	known := make(map[uint]struct{}, len(genres))
	for _, g := range genres {
		known[g.ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := known[id]; !ok {
			return storage.NotFound(storage.EntityGenre, id)
		}
	}
	film.Genres = genres
	return nil
}
