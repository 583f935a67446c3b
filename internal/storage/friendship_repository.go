package storage

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"filmorate/internal/apperrors"
	"filmorate/internal/models"
)

type gormFriendshipRepository struct {
	db *gorm.DB
}

// NewGormFriendshipRepository creates a new GormFriendshipRepository.
func NewGormFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &gormFriendshipRepository{db: db}
}

// Create creates a new friendship record in the database.
// The row is stored in canonical order, so it is symmetric by construction.
// A concurrent insert of the same pair yields ErrFriendshipExists.
func (r *gormFriendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	friendship.EnsureCanonicalOrder()
	result := r.db.WithContext(ctx).
		Omit("User1", "User2").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(friendship)
	if result.Error != nil {
		missing := apperrors.NotFound("user %d or user %d not found", friendship.UserID1, friendship.UserID2)
		return translateWrite(result.Error, "create friendship", missing)
	}
	if result.RowsAffected == 0 {
		return ErrFriendshipExists
	}
	return nil
}

// AreUsersFriends checks if two users are already friends.
func (r *gormFriendshipRepository) AreUsersFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	edge := models.NewFriendship(userID1, userID2)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id1 = ? AND user_id2 = ?", edge.UserID1, edge.UserID2).
		Count(&count).Error
	if err != nil {
		return false, wrapInternal(err, "check friendship")
	}
	return count > 0, nil
}

func (r *gormFriendshipRepository) Delete(ctx context.Context, userID1, userID2 uint) (bool, error) {
	edge := models.NewFriendship(userID1, userID2)
	result := r.db.WithContext(ctx).
		Where("user_id1 = ? AND user_id2 = ?", edge.UserID1, edge.UserID2).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return false, wrapInternal(result.Error, "delete friendship")
	}
	return result.RowsAffected > 0, nil
}

// GetFriendIDs retrieves the IDs of the users who are friends with userID.
// The user may sit on either side of the canonical row.
func (r *gormFriendshipRepository) GetFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var rows []models.Friendship
	err := r.db.WithContext(ctx).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, wrapInternal(err, "list friends")
	}

	friendIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		friendIDs = append(friendIDs, row.Other(userID))
	}
	sort.Slice(friendIDs, func(i, j int) bool { return friendIDs[i] < friendIDs[j] })
	return friendIDs, nil
}

func (r *gormFriendshipRepository) DeleteByUser(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Delete(&models.Friendship{}).Error
	return wrapInternal(err, "delete user friendships")
}
