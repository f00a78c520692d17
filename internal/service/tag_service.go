package service

import (
	"errors"
	"strings"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists    = errors.New("tag already exists")
	ErrTagNotFound  = errors.New("tag not found")
	ErrTagUnchanged = errors.New("tag name unchanged")
	ErrTagNameEmpty = errors.New("tag name is required")
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagUsage 描述标签及其下未删除新闻的数量
type TagUsage struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	NewsCount int64  `json:"num_news"`
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// Alive returns tags that have not been deleted, ordered by id.
func (s *TagService) Alive() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Scopes(db.Alive).Order("id asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListWithUsage 返回未删除标签及其新闻数量，按数量倒序。
func (s *TagService) ListWithUsage() ([]TagUsage, error) {
	var usages []TagUsage
	err := s.db.Table("tb_tag").
		Select("tb_tag.id, tb_tag.name, COUNT(tb_news.id) AS news_count").
		Joins("LEFT JOIN tb_news ON tb_news.tag_id = tb_tag.id AND tb_news.is_delete = ?", false).
		Where("tb_tag.is_delete = ?", false).
		Group("tb_tag.id, tb_tag.name").
		Order("news_count desc").
		Order("tb_tag.id asc").
		Scan(&usages).Error
	if err != nil {
		return nil, err
	}
	if usages == nil {
		usages = []TagUsage{}
	}
	return usages, nil
}

// Exists reports whether an alive tag with the id exists.
func (s *TagService) Exists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.Tag{}).Scopes(db.Alive).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get returns an alive tag.
func (s *TagService) Get(id uint) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Scopes(db.Alive).First(&tag, id).Error; err != nil {
		return nil, mapMissing(err, ErrTagNotFound)
	}
	return &tag, nil
}

// GetOrCreate 按名称查找标签，不存在时创建；已被删除的同名标签会被恢复并视为新建。
func (s *TagService) GetOrCreate(name string) (*db.Tag, Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NotFound, ErrTagNameEmpty
	}

	var tag db.Tag
	outcome := Created
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&tag).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			tag = db.Tag{Name: name}
			return tx.Create(&tag).Error
		case err != nil:
			return err
		case tag.IsDelete:
			tag.IsDelete = false
			return tx.Model(&tag).Update("is_delete", false).Error
		default:
			outcome = Found
			return nil
		}
	})
	if err != nil {
		return nil, NotFound, err
	}
	return &tag, outcome, nil
}

// Rename 修改标签名称。同名返回 ErrTagUnchanged，名称被其他标签占用返回 ErrTagExists。
func (s *TagService) Rename(id uint, name string) (*db.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameEmpty
	}

	tag, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if tag.Name == name {
		return nil, ErrTagUnchanged
	}

	// 唯一索引覆盖已删除的行，所以这里不加 Alive。
	var taken int64
	if err := s.db.Model(&db.Tag{}).Where("name = ? AND id <> ?", name, id).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrTagExists
	}

	if err := s.db.Model(tag).Update("name", name).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete 逻辑删除标签。
func (s *TagService) Delete(id uint) error {
	return mapMissing(softDelete(s.db, &db.Tag{}, id), ErrTagNotFound)
}
