package storage

import (
	"errors"

	"gorm.io/gorm"

	"filmorate/internal/apperrors"
)

// Entity names used in NOT_FOUND messages.
const (
	EntityFilm  = "film"
	EntityUser  = "user"
	EntityGenre = "genre"
	EntityMpa   = "mpa"
)

// ErrFriendshipExists 在好友关系已存在时返回，包括并发插入同一行的情况。
var ErrFriendshipExists = apperrors.New(apperrors.KindConflict, "already friends")

// NotFound 构造统一格式的 NOT_FOUND 错误，两种后端共用。
func NotFound(entity string, id uint) error {
	return apperrors.NotFound("%s with id %d not found", entity, id)
}

// translate 把 gorm 的错误转换为核心层的错误种类。
func translate(err error, entity string, id uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity, id)
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Internal(err, entity+" storage failure")
}

func wrapInternal(err error, op string) error {
	if err == nil {
		return nil
	}
	return apperrors.Internal(err, op)
}

// translateWrite 处理写入时的约束冲突 (需要 gorm.Config.TranslateError)。
// 外键失败说明引用的行已被并发删除，返回 missing。
func translateWrite(err error, op string, missing error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return missing
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("%s: duplicate key", op)
	default:
		return wrapInternal(err, op)
	}
}
