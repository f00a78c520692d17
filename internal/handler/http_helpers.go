package handler

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/form"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
	"go.uber.org/zap"
)

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// queryInt 解析可选的整数查询参数，失败时返回 fallback。
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryUint 与 queryInt 相同，负数同样退化为 fallback。
func queryUint(c *gin.Context, key string) uint {
	n := queryInt(c, key, 0)
	if n < 0 {
		return 0
	}
	return uint(n)
}

// readJSON 读取请求体为字段映射。空请求体或格式错误时已写出 PARAMERR 响应，返回 false。
func readJSON(c *gin.Context) (map[string]any, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		res.Fail(c, res.PARAMERR, "")
		return nil, false
	}
	input, err := form.DecodeJSON(body)
	if err != nil {
		res.Fail(c, res.PARAMERR, "")
		return nil, false
	}
	return input, true
}

// bindForm 读取请求体并按 schema 校验，失败时写出以 "/" 拼接的错误提示。
func bindForm(c *gin.Context, schema *form.Schema) (form.Values, bool) {
	input, ok := readJSON(c)
	if !ok {
		return form.Values{}, false
	}
	values, errs := schema.Validate(input)
	if len(errs) > 0 {
		res.Fail(c, res.PARAMERR, errs.Join())
		return values, false
	}
	return values, true
}

// pageData 附带分页窗口的上下文数据。
func pageData(page service.Page, data map[string]any) gin.H {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	window := page.Window(2)
	payload["left_pages"] = window.LeftPages
	payload["right_pages"] = window.RightPages
	payload["current_page_num"] = window.CurrentPage
	payload["total_page_num"] = window.TotalPages
	payload["left_has_more_page"] = window.LeftHasMore
	payload["right_has_more_page"] = window.RightHasMore
	return payload
}

// serverError 记录未预期的错误并写出 UNKOWNERR。
func (a *API) serverError(c *gin.Context, msg string, err error) {
	a.logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	c.Error(err)
	res.Fail(c, res.UNKOWNERR, "")
}

// dbError 记录数据库错误并写出 DBERR。
func (a *API) dbError(c *gin.Context, msg string, err error) {
	a.logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	c.Error(err)
	res.Fail(c, res.DBERR, "")
}
