package service

import (
	"errors"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

var ErrDocNotFound = errors.New("doc not found")

// DocService 管理可下载文档。
type DocService struct {
	db *gorm.DB
}

// DocInput 发布与编辑文档时提交的字段。
type DocInput struct {
	Title    string
	Desc     string
	FileURL  string
	ImageURL string
}

// NewDocService creates a DocService instance.
func NewDocService(gdb *gorm.DB) *DocService {
	return &DocService{db: gdb}
}

// List 返回未删除的文档，最新更新的在前。
func (s *DocService) List() ([]db.Doc, error) {
	var docs []db.Doc
	if err := s.db.Scopes(db.Alive).Order("update_time desc").Order("id desc").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Get 读取未删除的文档。
func (s *DocService) Get(id uint) (*db.Doc, error) {
	var doc db.Doc
	if err := s.db.Scopes(db.Alive).First(&doc, id).Error; err != nil {
		return nil, mapMissing(err, ErrDocNotFound)
	}
	return &doc, nil
}

// Create 发布文档。
func (s *DocService) Create(authorID uint, input DocInput) (*db.Doc, error) {
	doc := db.Doc{
		Title:    input.Title,
		Desc:     input.Desc,
		FileURL:  input.FileURL,
		ImageURL: input.ImageURL,
	}
	if authorID > 0 {
		doc.AuthorID = &authorID
	}
	if err := s.db.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update 只更新提交的字段。
func (s *DocService) Update(id uint, input DocInput) (*db.Doc, error) {
	result := s.db.Model(&db.Doc{}).Scopes(db.Alive).Where("id = ?", id).Updates(map[string]any{
		"title":     input.Title,
		"desc":      input.Desc,
		"file_url":  input.FileURL,
		"image_url": input.ImageURL,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrDocNotFound
	}
	return s.Get(id)
}

// Delete 逻辑删除文档。
func (s *DocService) Delete(id uint) error {
	return mapMissing(softDelete(s.db, &db.Doc{}, id), ErrDocNotFound)
}

// Count 未删除文档数量。
func (s *DocService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&db.Doc{}).Scopes(db.Alive).Count(&count).Error
	return count, err
}
