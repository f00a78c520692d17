package db

// Doc 可下载的文档
type Doc struct {
	Base
	Title    string `gorm:"size:150;not null"`
	Desc     string `gorm:"type:text"`
	FileURL  string `gorm:"column:file_url;size:255;not null"`
	ImageURL string `gorm:"column:image_url;size:255"`
	AuthorID *uint  `gorm:"index"`
	Author   *User
}

func (Doc) TableName() string { return "tb_docs" }
