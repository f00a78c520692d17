package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.Options{Driver: "sqlite", DSN: dsn, LogLevel: logger.Silent}, nil)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username, mobile string) db.User {
	t.Helper()
	user := db.User{Username: username, Password: "x", Mobile: mobile}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedTag(t *testing.T, gdb *gorm.DB, name string) db.Tag {
	t.Helper()
	tag := db.Tag{Name: name}
	if err := gdb.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	return tag
}

func seedNews(t *testing.T, gdb *gorm.DB, title string, tagID, authorID uint) db.News {
	t.Helper()
	news := db.News{Title: title, Digest: title + " digest", Content: title + " content", TagID: tagID, AuthorID: authorID}
	if err := gdb.Create(&news).Error; err != nil {
		t.Fatalf("failed to seed news: %v", err)
	}
	return news
}
