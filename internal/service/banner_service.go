package service

import (
	"errors"
	"strings"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

const (
	// BannerLimit 前台轮播图数量
	BannerLimit = 6
)

var ErrBannerNotFound = errors.New("banner not found")

// BannerService 维护首页轮播图。
type BannerService struct {
	db *gorm.DB
}

// BannerItem 前台轮播图条目。
type BannerItem struct {
	ImageURL  string `json:"image_url"`
	NewsID    uint   `json:"news_id"`
	NewsTitle string `json:"news_title"`
}

// NewBannerService creates a BannerService instance.
func NewBannerService(gdb *gorm.DB) *BannerService {
	return &BannerService{db: gdb}
}

// List 按优先级升序、新闻点击数降序返回轮播图，limit <= 0 表示不限制。
func (s *BannerService) List(limit int) ([]db.Banner, error) {
	var banners []db.Banner
	query := s.db.Model(&db.Banner{}).
		Joins("JOIN tb_news ON tb_news.id = tb_banner.news_id AND tb_news.is_delete = ?", false).
		Where("tb_banner.is_delete = ?", false).
		Preload("News").
		Order("tb_banner.priority asc").
		Order("tb_news.clicks desc").
		Order("tb_banner.id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// Items 前台轮播图数据。
func (s *BannerService) Items() ([]BannerItem, error) {
	banners, err := s.List(BannerLimit)
	if err != nil {
		return nil, err
	}
	items := make([]BannerItem, 0, len(banners))
	for _, b := range banners {
		items = append(items, BannerItem{ImageURL: b.ImageURL, NewsID: b.NewsID, NewsTitle: b.News.Title})
	}
	return items, nil
}

// Add 按新闻获取或创建轮播图，并覆盖优先级与图片地址。
func (s *BannerService) Add(newsID uint, priority int, imageURL string) (*db.Banner, Outcome, error) {
	if err := requireNews(s.db, newsID); err != nil {
		return nil, NotFound, err
	}
	if !db.ValidPriority(priority) {
		return nil, NotFound, ErrInvalidPriority
	}
	imageURL = strings.TrimSpace(imageURL)

	var banner db.Banner
	outcome := Found
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("news_id = ?", newsID).First(&banner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = Created
			banner = db.Banner{NewsID: newsID, Priority: priority, ImageURL: imageURL}
			return tx.Create(&banner).Error
		}
		if err != nil {
			return err
		}
		if banner.IsDelete {
			outcome = Created
		}
		banner.Priority = priority
		banner.ImageURL = imageURL
		banner.IsDelete = false
		return tx.Model(&banner).Updates(map[string]any{
			"priority":  priority,
			"image_url": imageURL,
			"is_delete": false,
		}).Error
	})
	if err != nil {
		return nil, NotFound, err
	}
	return &banner, outcome, nil
}

// Update 修改优先级，imageURL 非空时一并替换图片。优先级未变化时返回 ErrPriorityUnchanged，图片不会单独更新。
func (s *BannerService) Update(id uint, priority int, imageURL string) error {
	if !db.ValidPriority(priority) {
		return ErrInvalidPriority
	}
	var banner db.Banner
	if err := s.db.Scopes(db.Alive).First(&banner, id).Error; err != nil {
		return mapMissing(err, ErrBannerNotFound)
	}
	if banner.Priority == priority {
		return ErrPriorityUnchanged
	}

	updates := map[string]any{"priority": priority}
	if imageURL = strings.TrimSpace(imageURL); imageURL != "" {
		updates["image_url"] = imageURL
	}
	return s.db.Model(&banner).Updates(updates).Error
}

// Delete 逻辑删除轮播图。
func (s *BannerService) Delete(id uint) error {
	return mapMissing(softDelete(s.db, &db.Banner{}, id), ErrBannerNotFound)
}
