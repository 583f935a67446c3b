package models

import "strings"

// User 代表系统中的用户。
type User struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);not null" json:"email" validate:"notblank,emailshape"`
	Login    string `gorm:"type:varchar(100);not null" json:"login" validate:"notblank,nowhitespace"`
	Name     string `gorm:"type:varchar(255)" json:"name"`
	Birthday Date   `json:"birthday"`
}

// TableName 指定 User 模型的表名。
func (User) TableName() string {
	return "users"
}

// DisplayName 返回展示名，名字为空时退回到登录名。
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Name) == "" {
		return u.Login
	}
	return u.Name
}

// Normalize 把空白的展示名替换为登录名。
func (u *User) Normalize() {
	u.Name = u.DisplayName()
}
