package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型
type User struct {
	Base
	Username    string `gorm:"size:150;uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	Mobile      string `gorm:"size:11;uniqueIndex;not null"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	LastLogin   *time.Time
}

func (User) TableName() string { return "tb_users" }

// EnsureSuperRoot 存在性检查：若用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员；
// 已存在时仅补齐管理员标记。
func EnsureSuperRoot(username, password, mobile string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{
			Username:    trimmedUser,
			Password:    string(hashed),
			Mobile:      strings.TrimSpace(mobile),
			IsStaff:     true,
			IsSuperuser: true,
		}).Error
	}

	if existing.IsStaff && existing.IsSuperuser {
		return nil
	}
	return DB.Model(&existing).Updates(map[string]any{"is_staff": true, "is_superuser": true}).Error
}
