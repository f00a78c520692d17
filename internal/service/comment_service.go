package service

import (
	"errors"
	"strings"
	"time"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentEmpty         = errors.New("comment content is required")
	ErrCommentParentInvalid = errors.New("parent comment invalid")
)

// CommentService 处理新闻评论。
type CommentService struct {
	db *gorm.DB
}

// CommentView 评论的对外表示，parent 只展开一层。
type CommentView struct {
	ContentID  uint         `json:"content_id"`
	Content    string       `json:"content"`
	Author     string       `json:"author"`
	UpdateTime string       `json:"update_time"`
	Parent     *CommentView `json:"parent,omitempty"`
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create 在新闻下发表评论。parentID 非空时父评论必须属于同一新闻且未删除。
func (s *CommentService) Create(newsID, authorID uint, content string, parentID *uint) (*db.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if err := requireNews(s.db, newsID); err != nil {
		return nil, err
	}

	if parentID != nil {
		var count int64
		err := s.db.Model(&db.Comment{}).
			Scopes(db.Alive).
			Where("id = ? AND news_id = ?", *parentID, newsID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrCommentParentInvalid
		}
	}

	comment := db.Comment{Content: content, AuthorID: authorID, NewsID: newsID, ParentID: parentID}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").Preload("Parent.Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForNews 返回新闻下未删除的评论，最新的在前。
func (s *CommentService) ListForNews(newsID uint) ([]db.Comment, error) {
	var comments []db.Comment
	err := s.db.Scopes(db.Alive).
		Where("news_id = ?", newsID).
		Preload("Author").
		Preload("Parent.Author").
		Order("update_time desc").
		Order("id desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentViewOf 将评论转换为对外表示。
func CommentViewOf(c db.Comment) CommentView {
	view := CommentView{
		ContentID:  c.ID,
		Content:    c.Content,
		Author:     c.Author.Username,
		UpdateTime: c.UpdatedAt.Local().Format(time.DateTime),
	}
	if c.Parent != nil {
		view.Parent = &CommentView{
			ContentID:  c.Parent.ID,
			Content:    c.Parent.Content,
			Author:     c.Parent.Author.Username,
			UpdateTime: c.Parent.UpdatedAt.Local().Format(time.DateTime),
		}
	}
	return view
}
