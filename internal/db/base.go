package db

import (
	"time"

	"gorm.io/gorm"
)

// Base 汇总所有实体共享的字段：主键、创建时间、更新时间与逻辑删除标记。
type Base struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"column:create_time"`
	UpdatedAt time.Time `gorm:"column:update_time"`
	IsDelete  bool      `gorm:"column:is_delete;not null;default:false;index"`
}

// Alive 只保留未被逻辑删除的记录。
func Alive(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_delete = ?", false)
}

// AliveIn 与 Alive 相同，但带表名前缀，用于联表查询。
func AliveIn(table string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(table+".is_delete = ?", false)
	}
}
