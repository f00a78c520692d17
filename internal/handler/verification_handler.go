package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xujunlin/mydjango/internal/form"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
	"go.uber.org/zap"
)

var usernamePattern = regexp.MustCompile(`^\w{5,20}$`)

// GetImageCode 生成图片验证码并以 uuid 为键保存
func (a *API) GetImageCode(c *gin.Context) {
	id := c.Param("uuid")
	if _, err := uuid.Parse(id); err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	image, err := a.verify.IssueImageCode(c.Request.Context(), id)
	if err != nil {
		a.serverError(c, "生成图片验证码失败", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", image)
}

// CheckUsername 查询用户名是否已注册
func (a *API) CheckUsername(c *gin.Context) {
	username := c.Param("username")
	if !usernamePattern.MatchString(username) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	count, err := a.users.CountByUsername(username)
	if err != nil {
		a.dbError(c, "查询用户名失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"count": count, "username": username})
}

// CheckMobile 查询手机号是否已注册
func (a *API) CheckMobile(c *gin.Context) {
	mobile := c.Param("mobile")
	if !form.MobilePattern.MatchString(mobile) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	count, err := a.users.CountByMobile(mobile)
	if err != nil {
		a.dbError(c, "查询手机号失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"count": count, "mobile": mobile})
}

// SendSMSCode 校验图片验证码后发送短信验证码，60 秒内同一手机号只能发送一次
func (a *API) SendSMSCode(c *gin.Context) {
	ctx := c.Request.Context()
	values, ok := bindForm(c, a.imageCodeForm(ctx))
	if !ok {
		return
	}

	mobile := values.String("mobile")
	if err := a.verify.SendSMS(ctx, mobile); err != nil {
		if errors.Is(err, service.ErrSendTooFrequent) {
			res.Fail(c, res.REQERR, "获取手机短信验证码过于频繁")
			return
		}
		a.logger.Error("发送短信验证码失败", zap.String("mobile", mobile), zap.Error(err))
		c.Error(err)
		res.Fail(c, res.UNKOWNERR, "")
		return
	}
	res.OKWith(c, "发送正常", nil)
}
