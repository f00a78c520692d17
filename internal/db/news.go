package db

// News 定义了新闻文章模型
type News struct {
	Base
	Title    string `gorm:"size:150;not null"`
	Digest   string `gorm:"size:200;not null"`
	Content  string `gorm:"type:text;not null"`
	Clicks   int    `gorm:"not null;default:0"`
	ImageURL string `gorm:"column:image_url;size:255"`
	TagID    uint   `gorm:"index"`
	Tag      Tag
	AuthorID uint `gorm:"index"`
	Author   User
}

func (News) TableName() string { return "tb_news" }

// HotNews 热门新闻，按新闻唯一。
type HotNews struct {
	Base
	NewsID   uint `gorm:"uniqueIndex;not null"`
	News     News
	Priority int `gorm:"not null;default:3"`
}

func (HotNews) TableName() string { return "tb_hotnews" }

// Banner 轮播图，按新闻唯一。
type Banner struct {
	Base
	NewsID   uint `gorm:"uniqueIndex;not null"`
	News     News
	Priority int    `gorm:"not null;default:6"`
	ImageURL string `gorm:"column:image_url;size:255"`
}

func (Banner) TableName() string { return "tb_banner" }

// Comment 新闻评论，ParentID 指向同一新闻下被回复的评论。
type Comment struct {
	Base
	Content  string `gorm:"type:text;not null"`
	AuthorID uint   `gorm:"index"`
	Author   User
	NewsID   uint `gorm:"index;not null"`
	News     News
	ParentID *uint `gorm:"index"`
	Parent   *Comment
}

func (Comment) TableName() string { return "tb_comments" }

// PriorityChoices 热门新闻与轮播图共用的优先级枚举。
var PriorityChoices = []struct {
	Value int
	Label string
}{
	{1, "第一级"},
	{2, "第二级"},
	{3, "第三级"},
}

// ValidPriority 判断优先级是否在枚举范围内。
func ValidPriority(priority int) bool {
	for _, choice := range PriorityChoices {
		if choice.Value == priority {
			return true
		}
	}
	return false
}
