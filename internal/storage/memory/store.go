// Package memory implements the storage interfaces on top of in-process maps.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"filmorate/internal/models"
	"filmorate/internal/storage"
)

// Store 保存全部电影、用户和关系数据。
// 所有 map 由同一把读写锁保护；repository 只能通过 WithinTx/WithinReadTx 获得，
// 因此 ID 分配、存在性检查和修改总是看到一致的快照。
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	filmSeq Sequence
	userSeq Sequence

	films   map[uint]models.Film
	users   map[uint]models.User
	likes   map[uint]map[uint]time.Time // filmID -> userID -> 点赞时间
	friends map[uint]map[uint]time.Time // userID -> friendID，两个方向都存
	genres  map[uint]models.Genre
	mpa     map[uint]models.Mpa
}

// Option configures a Store.
type Option func(*Store)

// WithClock 替换记录时间戳用的时钟。
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store seeded with the default genres and ratings.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:     time.Now,
		films:   make(map[uint]models.Film),
		users:   make(map[uint]models.User),
		likes:   make(map[uint]map[uint]time.Time),
		friends: make(map[uint]map[uint]time.Time),
		genres:  make(map[uint]models.Genre),
		mpa:     make(map[uint]models.Mpa),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, g := range models.DefaultGenres {
		s.genres[g.ID] = g
	}
	for _, m := range models.DefaultMpaRatings {
		s.mpa[m.ID] = m
	}
	return s
}

var _ storage.Transactor = (*Store)(nil)

// WithinTx runs fn while holding the write lock.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos storage.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, s.repositories())
}

// WithinReadTx runs fn while holding the read lock.
func (s *Store) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos storage.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, s.repositories())
}

func (s *Store) repositories() storage.Repositories {
	return storage.Repositories{
		Films:       &filmRepository{s: s},
		Users:       &userRepository{s: s},
		Likes:       &likeRepository{s: s},
		Friendships: &friendshipRepository{s: s},
		Catalog:     &catalogRepository{s: s},
	}
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
