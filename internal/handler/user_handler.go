package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
)

// RememberMeAge 勾选“记住我”时会话的有效期
const RememberMeAge = 14 * 24 * time.Hour

// login 将用户写入会话。remember 为 false 时会话在浏览器关闭后失效。
func login(c *gin.Context, user *db.User, remember bool) error {
	session := sessions.Default(c)
	maxAge := 0
	if remember {
		maxAge = int(RememberMeAge / time.Second)
	}
	session.Options(sessions.Options{Path: "/", MaxAge: maxAge, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	session.Set(sessionUserKey, user.ID)
	return session.Save()
}

// Register 注册新用户并直接登录
func (a *API) Register(c *gin.Context) {
	values, ok := bindForm(c, a.registerForm(c.Request.Context()))
	if !ok {
		return
	}

	user, err := a.users.Register(values.String("username"), values.String("password"), values.String("mobile"))
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			res.Fail(c, res.DATAEXIST, "用户名或手机号已注册")
			return
		}
		a.dbError(c, "注册用户失败", err)
		return
	}
	if err := login(c, user, false); err != nil {
		a.serverError(c, "保存会话失败", err)
		return
	}
	res.OKWith(c, "恭喜你，注册成功", nil)
}

// Login 用户名或手机号登录
func (a *API) Login(c *gin.Context) {
	values, ok := bindForm(c, loginForm())
	if !ok {
		return
	}

	user, err := a.users.Authenticate(values.String("user_account"), values.String("password"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			res.Fail(c, res.PARAMERR, "账号不存在，请重新输入")
		case errors.Is(err, service.ErrInvalidPassword):
			res.Fail(c, res.PARAMERR, "密码错误，请重新输入")
		default:
			a.dbError(c, "登录失败", err)
		}
		return
	}
	if err := login(c, user, values.Bool("remember_me")); err != nil {
		a.serverError(c, "保存会话失败", err)
		return
	}
	res.OKWith(c, "恭喜，登录成功", nil)
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		a.serverError(c, "清除会话失败", err)
		return
	}
	res.OKWith(c, "", nil)
}
