package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/form"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
)

// GetBanners 后台轮播图列表
func (a *API) GetBanners(c *gin.Context) {
	banners, err := a.banners.List(0)
	if err != nil {
		a.dbError(c, "获取轮播图失败", err)
		return
	}

	items := make([]gin.H, 0, len(banners))
	for _, b := range banners {
		items = append(items, gin.H{
			"id":         b.ID,
			"news_id":    b.NewsID,
			"news_title": b.News.Title,
			"priority":   b.Priority,
			"image_url":  b.ImageURL,
		})
	}
	res.OKWith(c, "", gin.H{"banners": items, "priority_dict": priorityLabels()})
}

// GetBannerAdd 添加轮播图页面所需的标签与优先级
func (a *API) GetBannerAdd(c *gin.Context) {
	tags, err := a.tags.ListWithUsage()
	if err != nil {
		a.dbError(c, "获取标签列表失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"tags": tags, "priority_dict": priorityLabels()})
}

// AddBanner 按新闻获取或创建轮播图
func (a *API) AddBanner(c *gin.Context) {
	values, ok := bindForm(c, a.bannerAddForm())
	if !ok {
		return
	}

	_, outcome, err := a.banners.Add(values.Uint("news_id"), values.Int("priority"), values.String("image_url"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNewsNotFound):
			res.Fail(c, res.PARAMERR, "文章不存在")
		case errors.Is(err, service.ErrInvalidPriority):
			res.Fail(c, res.PARAMERR, "轮播图优先级设置错误")
		default:
			a.dbError(c, "添加轮播图失败", err)
		}
		return
	}
	if outcome == service.Created {
		res.OKWith(c, "轮播图添加成功", nil)
		return
	}
	res.OKWith(c, "轮播图更新成功", nil)
}

// UpdateBanner 修改轮播图优先级，可选替换图片
func (a *API) UpdateBanner(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "需要更新的轮播图不存在")
		return
	}
	values, ok := bindForm(c, priorityForm("轮播图优先级设置错误", form.String("image_url")))
	if !ok {
		return
	}

	if err := a.banners.Update(id, values.Int("priority"), values.String("image_url")); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPriority):
			res.Fail(c, res.PARAMERR, "轮播图优先级设置错误")
		case errors.Is(err, service.ErrBannerNotFound):
			res.Fail(c, res.PARAMERR, "需要更新的轮播图不存在")
		case errors.Is(err, service.ErrPriorityUnchanged):
			res.Fail(c, res.PARAMERR, "轮播图优先级优先级无变化")
		default:
			a.dbError(c, "更新轮播图失败", err)
		}
		return
	}
	res.OKWith(c, "轮播图更新成功", nil)
}

// DeleteBanner 逻辑删除轮播图
func (a *API) DeleteBanner(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "轮播图不存在")
		return
	}
	if err := a.banners.Delete(id); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			res.Fail(c, res.PARAMERR, "轮播图不存在")
			return
		}
		a.dbError(c, "删除轮播图失败", err)
		return
	}
	res.OKWith(c, "轮播图删除成功", nil)
}
