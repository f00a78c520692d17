package db

// Tag 定义了新闻标签模型
type Tag struct {
	Base
	Name string `gorm:"size:64;uniqueIndex;not null"`
	News []News
}

func (Tag) TableName() string { return "tb_tag" }
