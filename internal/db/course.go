package db

// Teacher 讲师信息
type Teacher struct {
	Base
	Name            string `gorm:"size:150;not null"`
	PositionalTitle string `gorm:"size:150"`
	Profile         string `gorm:"type:text"`
	AvatarURL       string `gorm:"column:avatar_url;size:255"`
}

func (Teacher) TableName() string { return "tb_teachers" }

// CourseCategory 课程分类
type CourseCategory struct {
	Base
	Name string `gorm:"size:100;not null"`
}

func (CourseCategory) TableName() string { return "tb_course_category" }

// Course 在线视频课程
type Course struct {
	Base
	Title      string  `gorm:"size:150;not null"`
	CoverURL   string  `gorm:"column:cover_url;size:255"`
	VideoURL   string  `gorm:"column:video_url;size:255"`
	Duration   float64 `gorm:"not null;default:0"`
	Profile    string  `gorm:"type:text"`
	Outline    string  `gorm:"type:text"`
	TeacherID  *uint   `gorm:"index"`
	Teacher    *Teacher
	CategoryID *uint `gorm:"index"`
	Category   *CourseCategory
}

func (Course) TableName() string { return "tb_course" }
