package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func sessionEngine(api *API) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))), api.LoadUser())
	r.POST("/users/login/", api.Login)
	r.GET("/users/logout/", api.Logout)
	r.GET("/admin/", StaffRequired(), api.AdminIndex)
	return r
}

func postJSON(t *testing.T, r http.Handler, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedMember(t *testing.T, username, mobile, password string) db.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Username: username, Password: string(hashed), Mobile: mobile}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestLoginOutcomes(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	seedMember(t, "member01", "13912345678", "secret123")
	r := sessionEngine(env.api)

	cases := []struct {
		name   string
		body   map[string]any
		errno  string
		errmsg string
	}{
		{"unknown account", map[string]any{"user_account": "nobody01", "password": "secret123"}, "4103", "账号不存在，请重新输入"},
		{"wrong password", map[string]any{"user_account": "member01", "password": "wrong1234"}, "4103", "密码错误，请重新输入"},
		{"short account", map[string]any{"user_account": "abc", "password": "secret123"}, "4103", "账号不正确"},
		{"by mobile", map[string]any{"user_account": "13912345678", "password": "secret123"}, "0", "恭喜，登录成功"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectErrno(t, decode(t, postJSON(t, r, "/users/login/", tc.body)), tc.errno, tc.errmsg)
		})
	}
}

func TestLoginRememberMeSetsPersistentCookie(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	seedMember(t, "member01", "13912345678", "secret123")
	r := sessionEngine(env.api)

	w := postJSON(t, r, "/users/login/", map[string]any{"user_account": "member01", "password": "secret123", "remember_me": true})
	expectErrno(t, decode(t, w), "0", "恭喜，登录成功")
	if cookie := w.Header().Get("Set-Cookie"); !strings.Contains(cookie, "Max-Age=1209600") {
		t.Fatalf("expected a two week cookie, got %q", cookie)
	}

	w = postJSON(t, r, "/users/login/", map[string]any{"user_account": "member01", "password": "secret123"})
	if cookie := w.Header().Get("Set-Cookie"); strings.Contains(cookie, "Max-Age") {
		t.Fatalf("expected a browser session cookie, got %q", cookie)
	}
}

func TestAdminRequiresStaffSession(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	seedMember(t, "member01", "13912345678", "secret123")
	r := sessionEngine(env.api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/", nil))
	expectErrno(t, decode(t, w), "4101", "")

	login := postJSON(t, r, "/users/login/", map[string]any{"user_account": "member01", "password": "secret123"})
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	expectErrno(t, decode(t, w), "4105", "用户身份错误")
}
