package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/captcha"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/verify"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Errno  string          `json:"errno"`
	Errmsg string          `json:"errmsg"`
	Data   json.RawMessage `json:"data"`
}

type testEnv struct {
	api   *API
	store *verify.MemoryStore
	staff *db.User
}

func setupTestDB(t *testing.T, opts ...func(*Options)) (*testEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.Options{Driver: "sqlite", DSN: dsn, LogLevel: logger.Silent}, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	staff := &db.User{Username: "tester", Password: "hashed", Mobile: "13800000000", IsStaff: true}
	if err := gdb.Create(staff).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	db.DB = gdb

	store, err := verify.NewMemoryStore(0)
	if err != nil {
		t.Fatalf("failed to create verification store: %v", err)
	}
	options := Options{VerifyStore: store, Captcha: captcha.NewSeeded(7)}
	for _, opt := range opts {
		opt(&options)
	}

	return &testEnv{api: NewAPI(gdb, options), store: store, staff: staff}, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// call 在测试上下文中执行 handler，params 为路径参数，user 非空时模拟已登录。
func call(t *testing.T, fn gin.HandlerFunc, method, target string, body any, params gin.Params, user *db.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	if user != nil {
		c.Set(currentUserKey, user)
	}

	fn(c)
	return w
}

func idParam(id uint) gin.Params {
	return gin.Params{{Key: "id", Value: fmt.Sprint(id)}}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func expectErrno(t *testing.T, env envelope, errno, errmsg string) {
	t.Helper()
	if env.Errno != errno {
		t.Fatalf("expected errno %s, got %s (%s)", errno, env.Errno, env.Errmsg)
	}
	if errmsg != "" && env.Errmsg != errmsg {
		t.Fatalf("expected errmsg %q, got %q", errmsg, env.Errmsg)
	}
}

func seedTag(t *testing.T, name string) db.Tag {
	t.Helper()
	tag := db.Tag{Name: name}
	if err := db.DB.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	return tag
}

func seedNews(t *testing.T, title string, tagID, authorID uint) db.News {
	t.Helper()
	news := db.News{Title: title, Digest: title, Content: title, TagID: tagID, AuthorID: authorID}
	if err := db.DB.Create(&news).Error; err != nil {
		t.Fatalf("failed to seed news: %v", err)
	}
	return news
}
