package service

import (
	"errors"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrCategoryNotFound = errors.New("course category not found")
)

// CourseService 管理视频课程及其讲师、分类。
type CourseService struct {
	db *gorm.DB
}

// CourseInput 发布与编辑课程时提交的字段。
type CourseInput struct {
	Title      string
	CoverURL   string
	VideoURL   string
	Duration   float64
	Profile    string
	Outline    string
	TeacherID  uint
	CategoryID uint
}

// CourseDetail 课程详情，简介与大纲已渲染为 HTML。
type CourseDetail struct {
	Course      db.Course
	ProfileHTML string
	OutlineHTML string
}

// NewCourseService creates a CourseService instance.
func NewCourseService(gdb *gorm.DB) *CourseService {
	return &CourseService{db: gdb}
}

// List 返回未删除的课程及讲师。
func (s *CourseService) List() ([]db.Course, error) {
	var courses []db.Course
	err := s.db.Scopes(db.Alive).
		Preload("Teacher").
		Preload("Category").
		Order("id asc").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// Get 读取未删除的课程。
func (s *CourseService) Get(id uint) (*db.Course, error) {
	var course db.Course
	if err := s.db.Scopes(db.Alive).Preload("Teacher").Preload("Category").First(&course, id).Error; err != nil {
		return nil, mapMissing(err, ErrCourseNotFound)
	}
	return &course, nil
}

// Detail 读取课程并渲染简介与大纲。
func (s *CourseService) Detail(id uint) (*CourseDetail, error) {
	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{
		Course:      *course,
		ProfileHTML: RenderMarkdown(course.Profile),
		OutlineHTML: RenderMarkdown(course.Outline),
	}, nil
}

// Create 发布课程，讲师与分类必须存在。
func (s *CourseService) Create(input CourseInput) (*db.Course, error) {
	if err := s.checkRefs(input); err != nil {
		return nil, err
	}
	course := db.Course{
		Title:      input.Title,
		CoverURL:   input.CoverURL,
		VideoURL:   input.VideoURL,
		Duration:   input.Duration,
		Profile:    input.Profile,
		Outline:    input.Outline,
		TeacherID:  optionalID(input.TeacherID),
		CategoryID: optionalID(input.CategoryID),
	}
	if err := s.db.Create(&course).Error; err != nil {
		return nil, err
	}
	return s.Get(course.ID)
}

// Update 只更新提交的字段。
func (s *CourseService) Update(id uint, input CourseInput) (*db.Course, error) {
	if err := s.checkRefs(input); err != nil {
		return nil, err
	}
	result := s.db.Model(&db.Course{}).Scopes(db.Alive).Where("id = ?", id).Updates(map[string]any{
		"title":       input.Title,
		"cover_url":   input.CoverURL,
		"video_url":   input.VideoURL,
		"duration":    input.Duration,
		"profile":     input.Profile,
		"outline":     input.Outline,
		"teacher_id":  optionalID(input.TeacherID),
		"category_id": optionalID(input.CategoryID),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCourseNotFound
	}
	return s.Get(id)
}

// Delete 逻辑删除课程。
func (s *CourseService) Delete(id uint) error {
	return mapMissing(softDelete(s.db, &db.Course{}, id), ErrCourseNotFound)
}

// Teachers 返回未删除的讲师。
func (s *CourseService) Teachers() ([]db.Teacher, error) {
	var teachers []db.Teacher
	if err := s.db.Scopes(db.Alive).Order("id asc").Find(&teachers).Error; err != nil {
		return nil, err
	}
	return teachers, nil
}

// Categories 返回未删除的课程分类。
func (s *CourseService) Categories() ([]db.CourseCategory, error) {
	var categories []db.CourseCategory
	if err := s.db.Scopes(db.Alive).Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Count 未删除课程数量。
func (s *CourseService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&db.Course{}).Scopes(db.Alive).Count(&count).Error
	return count, err
}

func (s *CourseService) checkRefs(input CourseInput) error {
	if input.TeacherID > 0 {
		if err := s.requireAlive(&db.Teacher{}, input.TeacherID, ErrTeacherNotFound); err != nil {
			return err
		}
	}
	if input.CategoryID > 0 {
		if err := s.requireAlive(&db.CourseCategory{}, input.CategoryID, ErrCategoryNotFound); err != nil {
			return err
		}
	}
	return nil
}

func (s *CourseService) requireAlive(model any, id uint, sentinel error) error {
	var count int64
	if err := s.db.Model(model).Scopes(db.Alive).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return sentinel
	}
	return nil
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
