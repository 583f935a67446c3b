package models

// Film 代表目录中的一部电影。
// 点赞不嵌入在电影记录中，由 LikeRepository 单独维护。
type Film struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"notblank"`
	Description string `gorm:"type:varchar(200)" json:"description,omitempty" validate:"max=200"`
	ReleaseDate Date   `gorm:"not null" json:"releaseDate"`
	Duration    int    `gorm:"not null" json:"duration" validate:"gt=0"`

	MpaID  *uint   `gorm:"index" json:"-"`
	Mpa    *Mpa    `gorm:"foreignKey:MpaID" json:"mpa,omitempty"`
	Genres []Genre `gorm:"many2many:film_genres;constraint:OnDelete:CASCADE" json:"genres"`
}

// TableName 指定 Film 模型的表名。
func (Film) TableName() string {
	return "films"
}

// GenreIDs returns the ids of the film's genres in their current order.
func (f *Film) GenreIDs() []uint {
	ids := make([]uint, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// Clone 返回深拷贝，内存存储用它避免调用方修改共享数据。
func (f Film) Clone() Film {
	if f.Mpa != nil {
		mpa := *f.Mpa
		f.Mpa = &mpa
	}
	if f.MpaID != nil {
		id := *f.MpaID
		f.MpaID = &id
	}
	// 空列表保持非 nil，JSON 输出为 []
	genres := make([]Genre, len(f.Genres))
	copy(genres, f.Genres)
	f.Genres = genres
	return f
}

// FilmWithLikes 是热门电影排行的一项。
type FilmWithLikes struct {
	Film
	Likes int `json:"likes"`
}
