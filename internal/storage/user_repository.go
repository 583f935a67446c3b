package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"filmorate/internal/models"
)

// gormUserRepository implements UserRepository using GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based UserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create creates a new user record in the database.
func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = 0
	return wrapInternal(r.db.WithContext(ctx).Create(user).Error, "create user")
}

// GetByID retrieves a user by their ID.
func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, EntityUser, id)
	}
	return &user, nil
}

func (r *gormUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error
	if err != nil {
		return nil, wrapInternal(err, "get users by ids")
	}
	return users, nil
}

// Update updates an existing user record in the database.
// 使用 Select 显式列出字段，零值 (例如清空的生日) 也会被写入。
func (r *gormUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return NotFound(EntityUser, 0)
	}
	user.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(user).
		Select("email", "login", "name", "birthday", "updated_at").
		Updates(user)
	if result.Error != nil {
		return wrapInternal(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return NotFound(EntityUser, user.ID)
	}
	return nil
}

func (r *gormUserRepository) Delete(ctx context.Context, id uint) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(user).Error; err != nil {
		return nil, wrapInternal(err, "delete user")
	}
	return user, nil
}

func (r *gormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, wrapInternal(err, "list users")
	}
	return users, nil
}

func (r *gormUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, wrapInternal(err, "check user")
	}
	return count > 0, nil
}
