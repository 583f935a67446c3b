package storage

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// NewGormRepositories binds every repository to db, which may be a transaction.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Films:       NewGormFilmRepository(db),
		Users:       NewGormUserRepository(db),
		Likes:       NewGormLikeRepository(db),
		Friendships: NewGormFriendshipRepository(db),
		Catalog:     NewGormCatalogRepository(db),
	}
}

type gormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor returns a Transactor backed by database transactions.
func NewGormTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// WithinTx 在同一个事务中重建全部 repository，fn 出错时整体回滚。
func (t *gormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewGormRepositories(tx))
	})
}

// WithinReadTx 使用只读的可重复读事务，多表读取看到同一个快照。
func (t *gormTransactor) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewGormRepositories(tx))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}
