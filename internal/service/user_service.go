package service

import (
	"errors"
	"strings"
	"time"

	"github.com/xujunlin/mydjango/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidPassword = errors.New("invalid password")
)

// UserService 负责注册、登录校验与唯一性查询。
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Register 创建普通用户，密码以 bcrypt 保存。
func (s *UserService) Register(username, password, mobile string) (*db.User, error) {
	username = strings.TrimSpace(username)
	mobile = strings.TrimSpace(mobile)

	var taken int64
	if err := s.db.Model(&db.User{}).Where("username = ? OR mobile = ?", username, mobile).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := db.User{Username: username, Password: string(hashed), Mobile: mobile}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate 按用户名或手机号查找账号并校验密码，成功后记录登录时间。
func (s *UserService) Authenticate(account, password string) (*db.User, error) {
	account = strings.TrimSpace(account)

	var user db.User
	err := s.db.Scopes(db.Alive).Where("username = ? OR mobile = ?", account, account).First(&user).Error
	if err != nil {
		return nil, mapMissing(err, ErrUserNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidPassword
	}

	now := time.Now()
	if err := s.db.Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return &user, nil
}

// Get 按 id 读取未删除的用户。
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.Scopes(db.Alive).First(&user, id).Error; err != nil {
		return nil, mapMissing(err, ErrUserNotFound)
	}
	return &user, nil
}

// CountByUsername 统计使用该用户名的账号数量。
func (s *UserService) CountByUsername(username string) (int64, error) {
	var count int64
	err := s.db.Model(&db.User{}).Where("username = ?", strings.TrimSpace(username)).Count(&count).Error
	return count, err
}

// CountByMobile 统计使用该手机号的账号数量。
func (s *UserService) CountByMobile(mobile string) (int64, error) {
	var count int64
	err := s.db.Model(&db.User{}).Where("mobile = ?", strings.TrimSpace(mobile)).Count(&count).Error
	return count, err
}
