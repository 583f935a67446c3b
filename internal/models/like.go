package models

import "time"

// Like 记录一个用户对一部电影的点赞，(FilmID, UserID) 唯一。
type Like struct {
	FilmID    uint      `gorm:"primaryKey;autoIncrement:false" json:"filmId"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Film Film `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定 Like 模型的表名。
func (Like) TableName() string {
	return "film_likes"
}
