package models

// Genre 是电影类型，属于只读的参考数据。
type Genre struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(64);not null" json:"name,omitempty"`
}

// TableName 指定 Genre 模型的表名。
func (Genre) TableName() string {
	return "genres"
}

// Mpa 是 MPA 年龄分级。
type Mpa struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(16);not null" json:"name,omitempty"`
}

// TableName 指定 Mpa 模型的表名。
func (Mpa) TableName() string {
	return "mpa_ratings"
}

// DefaultGenres 是初始化数据库时写入的类型。
var DefaultGenres = []Genre{
	{ID: 1, Name: "Комедия"},
	{ID: 2, Name: "Драма"},
	{ID: 3, Name: "Мультфильм"},
	{ID: 4, Name: "Триллер"},
	{ID: 5, Name: "Документальный"},
	{ID: 6, Name: "Боевик"},
}

// DefaultMpaRatings 是初始化数据库时写入的分级。
var DefaultMpaRatings = []Mpa{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}
