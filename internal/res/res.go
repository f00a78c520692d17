package res

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Code 是响应体 errno 字段的取值。
type Code string

const (
	OK         Code = "0"
	DBERR      Code = "4001"
	NODATA     Code = "4002"
	DATAEXIST  Code = "4003"
	DATAERR    Code = "4004"
	METHERR    Code = "4005"
	SMSERROR   Code = "4006"
	SMSFAIL    Code = "4007"
	SESSIONERR Code = "4101"
	LOGINERR   Code = "4102"
	PARAMERR   Code = "4103"
	USERERR    Code = "4104"
	ROLEERR    Code = "4105"
	PWDERR     Code = "4106"
	REQERR     Code = "4201"
	IPERR      Code = "4202"
	THIRDERR   Code = "4301"
	IOERR      Code = "4302"
	SERVERERR  Code = "4500"
	UNKOWNERR  Code = "4501"
)

var messages = map[Code]string{
	OK:         "成功",
	DBERR:      "数据库查询错误",
	NODATA:     "无数据",
	DATAEXIST:  "数据已存在",
	DATAERR:    "数据错误",
	METHERR:    "方法错误",
	SMSERROR:   "发送短信验证码异常",
	SMSFAIL:    "发送短信验证码失败",
	SESSIONERR: "用户未登录",
	LOGINERR:   "用户登录失败",
	PARAMERR:   "参数错误",
	USERERR:    "用户不存在或未激活",
	ROLEERR:    "用户身份错误",
	PWDERR:     "密码错误",
	REQERR:     "非法请求或请求次数受限",
	IPERR:      "IP受限",
	THIRDERR:   "第三方系统错误",
	IOERR:      "文件读写错误",
	SERVERERR:  "内部错误",
	UNKOWNERR:  "未知错误",
}

// Message 返回状态码对应的默认提示。
func (c Code) Message() string {
	return messages[c]
}

// Envelope 组装 {errno, errmsg, data} 响应体，extra 中的键会合并到顶层。
// msg 为空时使用状态码的默认提示。
func Envelope(code Code, msg string, data any, extra ...gin.H) gin.H {
	if msg == "" {
		msg = code.Message()
	}
	body := gin.H{
		"errno":  code,
		"errmsg": msg,
		"data":   data,
	}
	for _, kv := range extra {
		for key, value := range kv {
			body[key] = value
		}
	}
	return body
}

// JSON 以统一响应体写出结果，HTTP 状态码始终为 200。
func JSON(c *gin.Context, code Code, msg string, data any, extra ...gin.H) {
	c.JSON(http.StatusOK, Envelope(code, msg, data, extra...))
}

// OKWith 写出成功响应。
func OKWith(c *gin.Context, msg string, data any) {
	JSON(c, OK, msg, data)
}

// Fail 写出不带数据的失败响应。
func Fail(c *gin.Context, code Code, msg string) {
	JSON(c, code, msg, nil)
}
