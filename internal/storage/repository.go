package storage

import (
	"context"

	"filmorate/internal/models"
)

// FilmRepository defines the interface for film data operations.
// GetByID, Update and Delete return a NOT_FOUND error for an unknown id.
type FilmRepository interface {
	// Create 总是分配新的 ID，忽略 film.ID 原有的值。
	Create(ctx context.Context, film *models.Film) error
	GetByID(ctx context.Context, id uint) (*models.Film, error)
	// Update 只更新已存在的记录，从不插入。
	Update(ctx context.Context, film *models.Film) error
	// Delete 删除电影及其类型关联，返回被删除的记录。点赞由 LikeRepository 清理。
	Delete(ctx context.Context, id uint) (*models.Film, error)
	// List 按 ID 升序返回全部电影，即创建顺序。
	List(ctx context.Context) ([]models.Film, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIDs 按 ID 升序返回存在的用户，不存在的 ID 被忽略。
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// LikeRepository 维护 (film, user) 点赞关系，同一对最多一条。
type LikeRepository interface {
	// Add 返回 false 表示该用户已经点过赞，此时不做任何修改。
	Add(ctx context.Context, filmID, userID uint) (bool, error)
	// Remove 返回 false 表示点赞不存在。
	Remove(ctx context.Context, filmID, userID uint) (bool, error)
	Count(ctx context.Context, filmID uint) (int, error)
	// UserIDs 按 ID 升序返回给电影点赞的用户。
	UserIDs(ctx context.Context, filmID uint) ([]uint, error)
	// Counts 返回每部至少有一个赞的电影的点赞数。
	Counts(ctx context.Context) (map[uint]int, error)
	DeleteByFilm(ctx context.Context, filmID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

// FriendshipRepository defines the interface for friendship data operations.
// 好友关系是对称的：一条边同时代表两个方向。
type FriendshipRepository interface {
	// Create 创建好友关系，调用方负责检查是否已经是好友。
	Create(ctx context.Context, friendship *models.Friendship) error
	AreUsersFriends(ctx context.Context, userID1, userID2 uint) (bool, error)
	// Delete 同时删除两个方向，返回 false 表示两人原本不是好友。
	Delete(ctx context.Context, userID1, userID2 uint) (bool, error)
	// GetFriendIDs 按 ID 升序返回好友。
	GetFriendIDs(ctx context.Context, userID uint) ([]uint, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

// CatalogRepository 提供只读的类型和分级数据。
type CatalogRepository interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, id uint) (*models.Genre, error)
	// GetGenresByIDs 按 ID 升序返回存在的类型，不存在的 ID 被忽略。
	GetGenresByIDs(ctx context.Context, ids []uint) ([]models.Genre, error)
	ListMpa(ctx context.Context) ([]models.Mpa, error)
	GetMpa(ctx context.Context, id uint) (*models.Mpa, error)
}

// Repositories groups the repositories bound to one transaction.
type Repositories struct {
	Films       FilmRepository
	Users       UserRepository
	Likes       LikeRepository
	Friendships FriendshipRepository
	Catalog     CatalogRepository
}

// Transactor runs a unit of work against a consistent view of the store.
// fn 返回错误时事务回滚；内存后端要求 fn 在修改数据之前完成全部检查。
type Transactor interface {
	// WithinTx 以独占方式执行读写操作。
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// WithinReadTx 执行只读操作，可以和其他读操作并发。
	WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
