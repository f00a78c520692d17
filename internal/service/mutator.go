package service

import (
	"errors"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

// Outcome 标记按键查找或创建的结果。
type Outcome int

const (
	NotFound Outcome = iota
	Found
	Created
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Created:
		return "created"
	default:
		return "not_found"
	}
}

var errRowMissing = errors.New("row missing")

// softDelete 将未删除的记录标记为删除并刷新更新时间，记录不存在或已删除时返回 errRowMissing。
func softDelete(tx *gorm.DB, model any, id uint) error {
	result := tx.Model(model).
		Scopes(db.Alive).
		Where("id = ?", id).
		Updates(map[string]any{"is_delete": true})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errRowMissing
	}
	return nil
}

// mapMissing 将 errRowMissing 与 gorm.ErrRecordNotFound 统一替换为实体自己的哨兵错误。
func mapMissing(err, sentinel error) error {
	if errors.Is(err, errRowMissing) || errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
