package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"filmorate/internal/apperrors"
	"filmorate/internal/models"
)

type gormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GORM-based LikeRepository.
func NewGormLikeRepository(db *gorm.DB) LikeRepository {
	return &gormLikeRepository{db: db}
}

// Add 依赖 (film_id, user_id) 主键，重复点赞被 ON CONFLICT DO NOTHING 吞掉。
func (r *gormLikeRepository) Add(ctx context.Context, filmID, userID uint) (bool, error) {
	like := models.Like{FilmID: filmID, UserID: userID}
	result := r.db.WithContext(ctx).
		Omit("Film", "User").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		missing := apperrors.NotFound("film %d or user %d not found", filmID, userID)
		return false, translateWrite(result.Error, "add like", missing)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormLikeRepository) Remove(ctx context.Context, filmID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("film_id = ? AND user_id = ?", filmID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, wrapInternal(result.Error, "remove like")
	}
	return result.RowsAffected > 0, nil
}

func (r *gormLikeRepository) Count(ctx context.Context, filmID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("film_id = ?", filmID).Count(&count).Error
	if err != nil {
		return 0, wrapInternal(err, "count likes")
	}
	return int(count), nil
}

func (r *gormLikeRepository) UserIDs(ctx context.Context, filmID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("film_id = ?", filmID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, wrapInternal(err, "list likers")
	}
	return ids, nil
}

type likeCountRow struct {
	FilmID uint
	Likes  int
}

func (r *gormLikeRepository) Counts(ctx context.Context) (map[uint]int, error) {
	var rows []likeCountRow
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("film_id, COUNT(*) AS likes").
		Group("film_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapInternal(err, "count likes per film")
	}
	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.FilmID] = row.Likes
	}
	return counts, nil
}

func (r *gormLikeRepository) DeleteByFilm(ctx context.Context, filmID uint) error {
	err := r.db.WithContext(ctx).Where("film_id = ?", filmID).Delete(&models.Like{}).Error
	return wrapInternal(err, "delete film likes")
}

func (r *gormLikeRepository) DeleteByUser(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Like{}).Error
	return wrapInternal(err, "delete user likes")
}
