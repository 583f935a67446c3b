package services

import (
	"filmorate/internal/apperrors"
	"filmorate/internal/storage"
)

// 业务规则错误。handlers 用 errors.Is 识别，再按 Kind 映射状态码。
var (
	ErrAlreadyFriends = storage.ErrFriendshipExists
	ErrNotLiked       = apperrors.New(apperrors.KindConflict, "not liked")
	ErrSelfFriendship = apperrors.New(apperrors.KindInvalidArgument, "a user cannot befriend themselves")
)
