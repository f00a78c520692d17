package db

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(Options{Driver: "sqlite", DSN: dsn, LogLevel: logger.Silent}, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	DB = gdb
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "oracle", DSN: "x"}, nil); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestAliveScopeHidesDeletedRows(t *testing.T) {
	openTestDB(t)

	tags := []Tag{{Name: "Go"}, {Name: "Python", Base: Base{IsDelete: true}}}
	if err := DB.Create(&tags).Error; err != nil {
		t.Fatalf("failed to seed tags: %v", err)
	}

	var alive []Tag
	if err := DB.Scopes(Alive).Find(&alive).Error; err != nil {
		t.Fatalf("query alive tags: %v", err)
	}
	if len(alive) != 1 || alive[0].Name != "Go" {
		t.Fatalf("expected only the live tag, got %+v", alive)
	}

	var deleted Tag
	if err := DB.First(&deleted, tags[1].ID).Error; err != nil {
		t.Fatalf("deleted tag should stay retrievable by id: %v", err)
	}
	if !deleted.IsDelete {
		t.Fatalf("expected delete flag to be set")
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []int{1, 2, 3} {
		if !ValidPriority(p) {
			t.Fatalf("expected %d to be valid", p)
		}
	}
	for _, p := range []int{0, 4, -1} {
		if ValidPriority(p) {
			t.Fatalf("expected %d to be rejected", p)
		}
	}
}

func TestEnsureSuperRoot(t *testing.T) {
	openTestDB(t)

	if err := EnsureSuperRoot("", "secret", ""); err != nil {
		t.Fatalf("blank user should be ignored: %v", err)
	}

	if err := EnsureSuperRoot("admin", "secret123", "13800000000"); err != nil {
		t.Fatalf("ensure super root: %v", err)
	}
	if err := EnsureSuperRoot("admin", "other", "13800000000"); err != nil {
		t.Fatalf("ensure super root twice: %v", err)
	}

	var users []User
	if err := DB.Find(&users).Error; err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(users))
	}
	if !users[0].IsStaff || !users[0].IsSuperuser {
		t.Fatalf("expected staff flags on super root")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("secret123")); err != nil {
		t.Fatalf("password should keep the first hash: %v", err)
	}
}
