package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/res"
)

const (
	sessionUserKey = "user_id"
	currentUserKey = "current_user"
)

// LoadUser 根据会话中的 user_id 加载当前用户并放入请求上下文；会话失效时清除会话。
func (a *API) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(sessionUserKey)
		if raw == nil {
			c.Next()
			return
		}

		id, ok := raw.(uint)
		if !ok {
			session.Clear()
			_ = session.Save()
			c.Next()
			return
		}

		user, err := a.users.Get(id)
		if err != nil {
			session.Clear()
			_ = session.Save()
			c.Next()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser 返回 LoadUser 放入上下文的用户，未登录时为 nil。
func currentUser(c *gin.Context) *db.User {
	if value, exists := c.Get(currentUserKey); exists {
		if user, ok := value.(*db.User); ok {
			return user
		}
	}
	return nil
}

// AuthRequired 要求已登录，否则返回 SESSIONERR。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			res.Fail(c, res.SESSIONERR, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired 要求当前用户具有后台权限，否则返回 ROLEERR。
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			res.Fail(c, res.SESSIONERR, "")
			c.Abort()
			return
		}
		if !user.IsStaff && !user.IsSuperuser {
			res.Fail(c, res.ROLEERR, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminIndex 后台首页统计。
func (a *API) AdminIndex(c *gin.Context) {
	newsCount, err := a.news.Count()
	if err != nil {
		a.dbError(c, "统计新闻失败", err)
		return
	}
	tags, err := a.tags.Alive()
	if err != nil {
		a.dbError(c, "统计标签失败", err)
		return
	}
	docCount, err := a.docs.Count()
	if err != nil {
		a.dbError(c, "统计文档失败", err)
		return
	}
	courseCount, err := a.courses.Count()
	if err != nil {
		a.dbError(c, "统计课程失败", err)
		return
	}

	res.OKWith(c, "", gin.H{
		"username":     currentUser(c).Username,
		"news_count":   newsCount,
		"tag_count":    len(tags),
		"doc_count":    docCount,
		"course_count": courseCount,
	})
}
