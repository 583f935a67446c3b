package services

import (
	"context"

	"filmorate/internal/events"
	"filmorate/internal/logger"
	"filmorate/internal/metrics"
	"filmorate/internal/models"
	"filmorate/internal/social"
	"filmorate/internal/storage"
	"filmorate/internal/validation"
)

// UserService 定义了用户和好友关系相关的操作。
type UserService interface {
	// CreateUser 名字为空时使用登录名。
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	// DeleteUser 同时删除该用户的点赞和好友关系。
	DeleteUser(ctx context.Context, userID uint) (*models.User, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	AddFriend(ctx context.Context, userID, friendID uint) error
	// RemoveFriend 两个用户都必须存在；原本不是好友时不做任何事。
	RemoveFriend(ctx context.Context, userID, friendID uint) error
	Friends(ctx context.Context, userID uint) ([]models.User, error)
	CommonFriends(ctx context.Context, userID, otherID uint) ([]models.User, error)
}

// userService 是 UserService 的实现。
type userService struct {
	tx        storage.Transactor
	validator *validation.Validator
	publisher events.Publisher
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(tx storage.Transactor, validator *validation.Validator, publisher events.Publisher) UserService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &userService{tx: tx, validator: validator, publisher: publisher}
}

func (s *userService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = 0
	if err := s.validator.NormalizeUser(&user); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		return repos.Users.Create(ctx, &user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("user created", "userId", user.ID, "login", user.Login)
	publish(ctx, s.publisher, events.ForUser(events.UserCreated, user, []uint{user.ID}))
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	if err := s.validator.NormalizeUser(&user); err != nil {
		return nil, err
	}

	var audience []uint
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := repos.Users.Update(ctx, &user); err != nil {
			return err
		}
		friendIDs, err := repos.Friendships.GetFriendIDs(ctx, user.ID)
		if err != nil {
			return err
		}
		audience = audienceOf(user.ID, friendIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.ForUser(events.UserUpdated, user, audience))
	return &user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uint) (*models.User, error) {
	var (
		removed   *models.User
		friendIDs []uint
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireUsers(ctx, repos.Users, userID); err != nil {
			return err
		}
		var err error
		friendIDs, err = repos.Friendships.GetFriendIDs(ctx, userID)
		if err != nil {
			return err
		}
		if err := repos.Likes.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := repos.Friendships.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		removed, err = repos.Users.Delete(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("user deleted", "userId", userID, "friendshipsRemoved", len(friendIDs))
	publish(ctx, s.publisher, events.ForUser(events.UserDeleted, *removed, audienceOf(userID, friendIDs)))
	return removed, nil
}

func (s *userService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user *models.User
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		return err
	})
	return user, err
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		users, err = repos.Users.List(ctx)
		return err
	})
	return users, err
}

// AddFriend 建立对称的好友关系，已经是好友时返回 ErrAlreadyFriends 且不修改任何数据。
func (s *userService) AddFriend(ctx context.Context, userID, friendID uint) error {
	if userID == friendID {
		return ErrSelfFriendship
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireUsers(ctx, repos.Users, userID, friendID); err != nil {
			return err
		}
		areFriends, err := repos.Friendships.AreUsersFriends(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if areFriends {
			return ErrAlreadyFriends
		}
		friendship := models.NewFriendship(userID, friendID)
		return repos.Friendships.Create(ctx, &friendship)
	})
	if err != nil {
		return err
	}

	metrics.FriendshipChanged("added")
	publish(ctx, s.publisher, events.ForFriendship(events.FriendAdded, userID, friendID))
	return nil
}

func (s *userService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	var removed bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireUsers(ctx, repos.Users, userID, friendID); err != nil {
			return err
		}
		var err error
		removed, err = repos.Friendships.Delete(ctx, userID, friendID)
		return err
	})
	if err != nil {
		return err
	}

	if !removed {
		logger.Debug("friendship to remove did not exist", "userId", userID, "friendId", friendID)
		return nil
	}
	metrics.FriendshipChanged("removed")
	publish(ctx, s.publisher, events.ForFriendship(events.FriendRemoved, userID, friendID))
	return nil
}

func (s *userService) Friends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireUsers(ctx, repos.Users, userID); err != nil {
			return err
		}
		ids, err := social.FriendIDs(ctx, repos.Friendships, userID)
		if err != nil {
			return err
		}
		friends, err = repos.Users.GetByIDs(ctx, ids)
		return err
	})
	return friends, err
}

func (s *userService) CommonFriends(ctx context.Context, userID, otherID uint) ([]models.User, error) {
	var common []models.User
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireUsers(ctx, repos.Users, userID, otherID); err != nil {
			return err
		}
		ids, err := social.CommonFriendIDs(ctx, repos.Friendships, userID, otherID)
		if err != nil {
			return err
		}
		common, err = repos.Users.GetByIDs(ctx, ids)
		return err
	})
	return common, err
}

// requireUsers 检查所有用户都存在，返回第一个不存在的用户的 NOT_FOUND。
func requireUsers(ctx context.Context, users storage.UserRepository, ids ...uint) error {
	for _, id := range ids {
		exists, err := users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return storage.NotFound(storage.EntityUser, id)
		}
	}
	return nil
}
