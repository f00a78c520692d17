package service

import (
	"errors"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

const (
	// HotNewsLimit 首页与后台展示的热门新闻条数
	HotNewsLimit = 3
)

var (
	ErrHotNewsNotFound   = errors.New("hot news not found")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrPriorityUnchanged = errors.New("priority unchanged")
)

// HotNewsService 维护热门新闻。
type HotNewsService struct {
	db *gorm.DB
}

// NewHotNewsService creates a HotNewsService instance.
func NewHotNewsService(gdb *gorm.DB) *HotNewsService {
	return &HotNewsService{db: gdb}
}

// List 按优先级升序、点击数降序返回热门新闻，limit <= 0 表示不限制。
func (s *HotNewsService) List(limit int) ([]db.HotNews, error) {
	var hot []db.HotNews
	query := s.db.Model(&db.HotNews{}).
		Joins("JOIN tb_news ON tb_news.id = tb_hotnews.news_id AND tb_news.is_delete = ?", false).
		Where("tb_hotnews.is_delete = ?", false).
		Preload("News.Tag").
		Order("tb_hotnews.priority asc").
		Order("tb_news.clicks desc").
		Order("tb_hotnews.id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&hot).Error; err != nil {
		return nil, err
	}
	return hot, nil
}

// Add 按新闻获取或创建热门记录并设置优先级；已删除的记录会被恢复。
func (s *HotNewsService) Add(newsID uint, priority int) (*db.HotNews, Outcome, error) {
	if err := requireNews(s.db, newsID); err != nil {
		return nil, NotFound, err
	}
	if !db.ValidPriority(priority) {
		return nil, NotFound, ErrInvalidPriority
	}

	var hot db.HotNews
	outcome := Found
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("news_id = ?", newsID).First(&hot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = Created
			hot = db.HotNews{NewsID: newsID, Priority: priority}
			return tx.Create(&hot).Error
		}
		if err != nil {
			return err
		}
		if hot.IsDelete {
			outcome = Created
		}
		hot.Priority = priority
		hot.IsDelete = false
		return tx.Model(&hot).Updates(map[string]any{"priority": priority, "is_delete": false}).Error
	})
	if err != nil {
		return nil, NotFound, err
	}
	return &hot, outcome, nil
}

// UpdatePriority 修改优先级，与当前值相同时返回 ErrPriorityUnchanged。
func (s *HotNewsService) UpdatePriority(id uint, priority int) error {
	if !db.ValidPriority(priority) {
		return ErrInvalidPriority
	}
	var hot db.HotNews
	if err := s.db.Scopes(db.Alive).First(&hot, id).Error; err != nil {
		return mapMissing(err, ErrHotNewsNotFound)
	}
	if hot.Priority == priority {
		return ErrPriorityUnchanged
	}
	return s.db.Model(&hot).Update("priority", priority).Error
}

// Delete 逻辑删除热门新闻。
func (s *HotNewsService) Delete(id uint) error {
	return mapMissing(softDelete(s.db, &db.HotNews{}, id), ErrHotNewsNotFound)
}

func requireNews(tx *gorm.DB, newsID uint) error {
	var count int64
	if err := tx.Model(&db.News{}).Scopes(db.Alive).Where("id = ?", newsID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNewsNotFound
	}
	return nil
}
