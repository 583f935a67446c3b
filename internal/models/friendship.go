package models

import "time"

// Friendship represents a symmetric friendship between two users.
// To avoid duplicates and simplify queries, UserID1 is always less than UserID2,
// so one row stands for both directions of the edge.
type Friendship struct {
	UserID1   uint      `gorm:"primaryKey;autoIncrement:false"`
	User1     User      `gorm:"foreignKey:UserID1;constraint:OnDelete:CASCADE"`
	UserID2   uint      `gorm:"primaryKey;autoIncrement:false;index"`
	User2     User      `gorm:"foreignKey:UserID2;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName 指定 Friendship 模型的表名。
func (Friendship) TableName() string {
	return "friendships"
}

// NewFriendship builds a friendship edge in canonical order.
func NewFriendship(a, b uint) Friendship {
	f := Friendship{UserID1: a, UserID2: b}
	f.EnsureCanonicalOrder()
	return f
}

// EnsureCanonicalOrder sets UserID1 to the smaller ID and UserID2 to the larger ID.
// This should be called before creating a Friendship record.
func (f *Friendship) EnsureCanonicalOrder() {
	if f.UserID1 > f.UserID2 {
		f.UserID1, f.UserID2 = f.UserID2, f.UserID1
	}
}

// Other 返回这条边上另一端的用户 ID。
func (f *Friendship) Other(userID uint) uint {
	if f.UserID1 == userID {
		return f.UserID2
	}
	return f.UserID1
}
