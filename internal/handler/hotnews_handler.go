package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
)

// GetHotNews 后台热门新闻列表
func (a *API) GetHotNews(c *gin.Context) {
	hot, err := a.hotNews.List(service.HotNewsLimit)
	if err != nil {
		a.dbError(c, "获取热门新闻失败", err)
		return
	}

	items := make([]gin.H, 0, len(hot))
	for _, h := range hot {
		items = append(items, gin.H{
			"id":       h.ID,
			"news_id":  h.NewsID,
			"title":    h.News.Title,
			"tag_name": h.News.Tag.Name,
			"priority": h.Priority,
		})
	}
	res.OKWith(c, "", gin.H{"hot_news": items, "priority_dict": priorityLabels()})
}

// GetHotNewsAdd 添加热门新闻页面所需的标签与优先级
func (a *API) GetHotNewsAdd(c *gin.Context) {
	tags, err := a.tags.ListWithUsage()
	if err != nil {
		a.dbError(c, "获取标签列表失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"tags": tags, "priority_dict": priorityLabels()})
}

// AddHotNews 按新闻获取或创建热门记录并设置优先级
func (a *API) AddHotNews(c *gin.Context) {
	values, ok := bindForm(c, a.hotNewsAddForm())
	if !ok {
		return
	}

	if _, _, err := a.hotNews.Add(values.Uint("news_id"), values.Int("priority")); err != nil {
		switch {
		case errors.Is(err, service.ErrNewsNotFound):
			res.Fail(c, res.PARAMERR, "文章不存在")
		case errors.Is(err, service.ErrInvalidPriority):
			res.Fail(c, res.PARAMERR, "热门文章优先级设置错误")
		default:
			a.dbError(c, "添加热门新闻失败", err)
		}
		return
	}
	res.OKWith(c, "热门新闻修改成功", nil)
}

// UpdateHotNews 修改热门新闻优先级
func (a *API) UpdateHotNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "需要更新的热门文章不存在")
		return
	}
	values, ok := bindForm(c, priorityForm("热门文章优先级设置错误"))
	if !ok {
		return
	}

	if err := a.hotNews.UpdatePriority(id, values.Int("priority")); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPriority):
			res.Fail(c, res.PARAMERR, "热门文章优先级设置错误")
		case errors.Is(err, service.ErrHotNewsNotFound):
			res.Fail(c, res.PARAMERR, "需要更新的热门文章不存在")
		case errors.Is(err, service.ErrPriorityUnchanged):
			res.Fail(c, res.PARAMERR, "热门文章优先级优先级无变化")
		default:
			a.dbError(c, "更新热门新闻失败", err)
		}
		return
	}
	res.OKWith(c, "热门文章更新成功", nil)
}

// DeleteHotNews 逻辑删除热门新闻
func (a *API) DeleteHotNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "热门文章不存在")
		return
	}
	if err := a.hotNews.Delete(id); err != nil {
		if errors.Is(err, service.ErrHotNewsNotFound) {
			res.Fail(c, res.PARAMERR, "热门文章不存在")
			return
		}
		a.dbError(c, "删除热门新闻失败", err)
		return
	}
	res.OKWith(c, "热门文章删除成功", nil)
}
