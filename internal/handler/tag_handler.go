package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
)

// GetTags 获取标签列表及各标签下的新闻数量
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.ListWithUsage()
	if err != nil {
		a.dbError(c, "获取标签列表失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"tags": tags})
}

// CreateTag 创建新标签，同名标签已存在时返回 DATAEXIST
func (a *API) CreateTag(c *gin.Context) {
	values, ok := bindForm(c, tagForm())
	if !ok {
		return
	}

	tag, outcome, err := a.tags.GetOrCreate(values.String("name"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNameEmpty):
			res.Fail(c, res.PARAMERR, "标签不能为空")
		default:
			a.dbError(c, "创建标签失败", err)
		}
		return
	}
	if outcome == service.Found {
		res.Fail(c, res.DATAEXIST, "标签已存在")
		return
	}

	res.OKWith(c, "标签创建成功", gin.H{"id": tag.ID, "name": tag.Name})
}

// UpdateTag 更新标签
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "标签不存在")
		return
	}

	values, ok := bindForm(c, tagForm())
	if !ok {
		return
	}

	if _, err := a.tags.Rename(id, values.String("name")); err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			res.Fail(c, res.PARAMERR, "标签不存在")
		case errors.Is(err, service.ErrTagUnchanged):
			res.Fail(c, res.PARAMERR, "标签未修改")
		case errors.Is(err, service.ErrTagExists):
			res.Fail(c, res.DATAEXIST, "标签名已存在")
		default:
			a.dbError(c, "更新标签失败", err)
		}
		return
	}

	res.OKWith(c, "标签更新成功", nil)
}

// DeleteTag 逻辑删除标签
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "标签不存在")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			res.Fail(c, res.PARAMERR, "标签不存在")
			return
		}
		a.dbError(c, "删除标签失败", err)
		return
	}

	res.OKWith(c, "标签删除成功", nil)
}

// GetTagNews 返回标签下的新闻 id 与标题
func (a *API) GetTagNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "")
		return
	}
	news, err := a.news.ListByTag(id)
	if err != nil {
		a.dbError(c, "获取标签新闻失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"news": news})
}

// tagOptions 下拉框使用的标签 id 与名称
func tagOptions(tags []db.Tag) []gin.H {
	options := make([]gin.H, 0, len(tags))
	for _, t := range tags {
		options = append(options, gin.H{"id": t.ID, "name": t.Name})
	}
	return options
}
