package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/search"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// PublicNewsPerPage 前台新闻列表每页条数
	PublicNewsPerPage = 5
	// AdminNewsPerPage 后台新闻管理每页条数
	AdminNewsPerPage = 8
	// FilterDateLayout 后台筛选日期格式
	FilterDateLayout = "2006/01/02"
	// ListTimeLayout 前台列表展示的更新时间格式
	ListTimeLayout = "2006年01月02日 15:04"
)

var ErrNewsNotFound = errors.New("news not found")

// NewsService 负责新闻的增删改查、筛选分页以及索引事件发布。
type NewsService struct {
	db          *gorm.DB
	indexer     search.Indexer
	logger      *zap.Logger
	policy      *bluemonday.Policy
	indexTagIDs []uint
}

// NewsInput 发布与编辑新闻时提交的字段。
type NewsInput struct {
	Title    string
	Digest   string
	Content  string
	ImageURL string
	TagID    uint
}

// NewsItem 前台列表中的一条新闻。
type NewsItem struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Digest     string `json:"digest"`
	ImageURL   string `json:"image_url"`
	UpdateTime string `json:"update_time"`
	TagName    string `json:"tag_name"`
	Author     string `json:"author"`
}

// NewsBrief 只包含 id 与标题。
type NewsBrief struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// NewsFilter 后台新闻筛选条件，零值表示不过滤。
type NewsFilter struct {
	TagID      uint
	Start      *time.Time
	End        *time.Time
	Title      string
	AuthorName string
}

// NewNewsService creates a NewsService. indexer 为空时不发布索引事件。
func NewNewsService(gdb *gorm.DB, indexer search.Indexer, logger *zap.Logger, indexTagIDs []uint) *NewsService {
	if indexer == nil {
		indexer = search.NopIndexer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsService{
		db:          gdb,
		indexer:     indexer,
		logger:      logger,
		policy:      bluemonday.UGCPolicy(),
		indexTagIDs: indexTagIDs,
	}
}

// ParseDateRange 解析 YYYY/MM/DD 格式的起止日期，任一解析失败则两者都不生效。
func ParseDateRange(start, end string) (*time.Time, *time.Time) {
	var startAt, endAt *time.Time
	if start = strings.TrimSpace(start); start != "" {
		t, err := time.ParseInLocation(FilterDateLayout, start, time.Local)
		if err != nil {
			return nil, nil
		}
		startAt = &t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, err := time.ParseInLocation(FilterDateLayout, end, time.Local)
		if err != nil {
			return nil, nil
		}
		endAt = &t
	}
	return startAt, endAt
}

func (s *NewsService) alive() *gorm.DB {
	return s.db.Model(&db.News{}).Scopes(db.AliveIn("tb_news")).Session(&gorm.Session{})
}

func withNewsRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Tag").Preload("Author").Order("tb_news.update_time desc").Order("tb_news.id desc")
}

// PublicList 前台分页列表。按标签过滤后为空时回退到全部新闻。
func (s *NewsService) PublicList(tagID uint, page int) ([]NewsItem, Page, error) {
	query := s.alive()
	if tagID > 0 {
		filtered := query.Where("tb_news.tag_id = ?", tagID).Session(&gorm.Session{})
		var count int64
		if err := filtered.Count(&count).Error; err != nil {
			return nil, Page{}, err
		}
		if count > 0 {
			query = filtered
		} else {
			s.logger.Info("标签下没有新闻，返回全部新闻", zap.Uint("tag_id", tagID))
		}
	}

	var news []db.News
	p, err := paginate(query, page, PublicNewsPerPage, &news, withNewsRelations)
	if err != nil {
		return nil, p, err
	}
	return toNewsItems(news), p, nil
}

// AdminList 后台筛选分页列表。
func (s *NewsService) AdminList(filter NewsFilter, page int) ([]db.News, Page, error) {
	query := s.alive()

	if filter.TagID > 0 {
		query = query.Where("tb_news.tag_id = ?", filter.TagID)
	}
	if filter.Start != nil {
		query = query.Where("tb_news.update_time >= ?", *filter.Start)
	}
	if filter.End != nil {
		// 结束日期当天的记录也包含在内
		query = query.Where("tb_news.update_time < ?", filter.End.AddDate(0, 0, 1))
	}
	if title := strings.TrimSpace(filter.Title); title != "" {
		query = query.Where("LOWER(tb_news.title) LIKE ?", likePattern(title))
	}
	if author := strings.TrimSpace(filter.AuthorName); author != "" {
		query = query.Where("tb_news.author_id IN (?)",
			s.db.Model(&db.User{}).Select("id").Where("LOWER(username) LIKE ?", likePattern(author)))
	}

	var news []db.News
	p, err := paginate(query, page, AdminNewsPerPage, &news, withNewsRelations)
	if err != nil {
		return nil, p, err
	}
	return news, p, nil
}

// ListByTag 返回标签下未删除新闻的 id 与标题。
func (s *NewsService) ListByTag(tagID uint) ([]NewsBrief, error) {
	briefs := []NewsBrief{}
	err := s.alive().
		Select("tb_news.id, tb_news.title").
		Where("tb_news.tag_id = ?", tagID).
		Order("tb_news.id asc").
		Scan(&briefs).Error
	if err != nil {
		return nil, err
	}
	return briefs, nil
}

// Exists reports whether an alive news with the id exists.
func (s *NewsService) Exists(id uint) (bool, error) {
	var count int64
	if err := s.alive().Where("tb_news.id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get 读取未删除的新闻及其标签与作者。
func (s *NewsService) Get(id uint) (*db.News, error) {
	var news db.News
	if err := s.db.Scopes(db.Alive).Preload("Tag").Preload("Author").First(&news, id).Error; err != nil {
		return nil, mapMissing(err, ErrNewsNotFound)
	}
	return &news, nil
}

// Detail 读取新闻详情并累加一次点击，点击数不改变更新时间。
func (s *NewsService) Detail(id uint) (*db.News, error) {
	result := s.db.Model(&db.News{}).
		Scopes(db.Alive).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNewsNotFound
	}
	return s.Get(id)
}

// Create 发布新闻，内容会经过 HTML 清洗。
func (s *NewsService) Create(ctx context.Context, authorID uint, input NewsInput) (*db.News, error) {
	news := db.News{
		Title:    input.Title,
		Digest:   input.Digest,
		Content:  s.policy.Sanitize(input.Content),
		ImageURL: input.ImageURL,
		TagID:    input.TagID,
		AuthorID: authorID,
	}
	if err := s.db.Create(&news).Error; err != nil {
		return nil, err
	}
	s.publish(ctx, news.ID)
	return &news, nil
}

// Update 只更新提交的字段。
func (s *NewsService) Update(ctx context.Context, id uint, input NewsInput) (*db.News, error) {
	updates := map[string]any{
		"title":     input.Title,
		"digest":    input.Digest,
		"content":   s.policy.Sanitize(input.Content),
		"image_url": input.ImageURL,
		"tag_id":    input.TagID,
	}
	result := s.db.Model(&db.News{}).Scopes(db.Alive).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNewsNotFound
	}
	s.publish(ctx, id)
	return s.Get(id)
}

// Delete 逻辑删除新闻并从索引中移除。
func (s *NewsService) Delete(ctx context.Context, id uint) error {
	if err := softDelete(s.db, &db.News{}, id); err != nil {
		return mapMissing(err, ErrNewsNotFound)
	}
	if err := s.indexer.Remove(ctx, id); err != nil {
		s.logger.Error("发布索引删除事件失败", zap.Uint("news_id", id), zap.Error(err))
	}
	return nil
}

// Search 在可索引新闻的标题、摘要与正文中做子串匹配。
func (s *NewsService) Search(keyword string, page int) ([]NewsItem, Page, error) {
	pattern := likePattern(strings.TrimSpace(keyword))
	query := s.indexable().
		Where("LOWER(tb_news.title) LIKE ? OR LOWER(tb_news.digest) LIKE ? OR LOWER(tb_news.content) LIKE ?", pattern, pattern, pattern)

	var news []db.News
	p, err := paginate(query, page, PublicNewsPerPage, &news, withNewsRelations)
	if err != nil {
		return nil, p, err
	}
	return toNewsItems(news), p, nil
}

// IndexableDocuments 实现 search.Source，供定时重建索引使用。
func (s *NewsService) IndexableDocuments(ctx context.Context) ([]search.Document, error) {
	var news []db.News
	if err := s.indexable().WithContext(ctx).Preload("Tag").Preload("Author").Order("tb_news.id asc").Find(&news).Error; err != nil {
		return nil, err
	}
	docs := make([]search.Document, 0, len(news))
	for _, n := range news {
		docs = append(docs, toDocument(n))
	}
	return docs, nil
}

// Count 未删除新闻总数。
func (s *NewsService) Count() (int64, error) {
	var count int64
	err := s.alive().Count(&count).Error
	return count, err
}

func (s *NewsService) indexable() *gorm.DB {
	query := s.alive()
	if len(s.indexTagIDs) > 0 {
		query = query.Where("tb_news.tag_id IN ?", s.indexTagIDs)
	}
	return query
}

func (s *NewsService) shouldIndex(tagID uint) bool {
	if len(s.indexTagIDs) == 0 {
		return true
	}
	for _, id := range s.indexTagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// publish 发布索引事件，失败只记录日志。
func (s *NewsService) publish(ctx context.Context, id uint) {
	news, err := s.Get(id)
	if err != nil {
		s.logger.Error("读取待索引新闻失败", zap.Uint("news_id", id), zap.Error(err))
		return
	}
	if !s.shouldIndex(news.TagID) {
		err = s.indexer.Remove(ctx, id)
	} else {
		err = s.indexer.Index(ctx, toDocument(*news))
	}
	if err != nil {
		s.logger.Error("发布索引事件失败", zap.Uint("news_id", id), zap.Error(err))
	}
}

func toDocument(n db.News) search.Document {
	return search.Document{
		ID:         n.ID,
		Title:      n.Title,
		Digest:     n.Digest,
		Content:    n.Content,
		ImageURL:   n.ImageURL,
		TagID:      n.TagID,
		TagName:    n.Tag.Name,
		Author:     n.Author.Username,
		UpdateTime: n.UpdatedAt,
	}
}

func toNewsItems(news []db.News) []NewsItem {
	items := make([]NewsItem, 0, len(news))
	for _, n := range news {
		items = append(items, NewsItem{
			ID:         n.ID,
			Title:      n.Title,
			Digest:     n.Digest,
			ImageURL:   n.ImageURL,
			UpdateTime: n.UpdatedAt.Local().Format(ListTimeLayout),
			TagName:    n.Tag.Name,
			Author:     n.Author.Username,
		})
	}
	return items
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
