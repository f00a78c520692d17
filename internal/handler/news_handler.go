package handler

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/form"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
)

func newsInputFrom(values form.Values) service.NewsInput {
	return service.NewsInput{
		Title:    values.String("title"),
		Digest:   values.String("digest"),
		Content:  values.String("content"),
		ImageURL: values.String("image_url"),
		TagID:    values.Uint("tag"),
	}
}

func adminNewsRow(n db.News) gin.H {
	return gin.H{
		"id":          n.ID,
		"title":       n.Title,
		"author":      n.Author.Username,
		"tag_name":    n.Tag.Name,
		"update_time": n.UpdatedAt.Local().Format(service.ListTimeLayout),
	}
}

func filterDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(service.FilterDateLayout)
}

// GetNewsManage 后台新闻筛选分页列表
func (a *API) GetNewsManage(c *gin.Context) {
	start, end := service.ParseDateRange(c.Query("start_time"), c.Query("end_time"))
	filter := service.NewsFilter{
		TagID:      queryUint(c, "tag_id"),
		Start:      start,
		End:        end,
		Title:      strings.TrimSpace(c.Query("title")),
		AuthorName: strings.TrimSpace(c.Query("author_name")),
	}

	news, page, err := a.news.AdminList(filter, queryInt(c, "page", 1))
	if err != nil {
		a.dbError(c, "获取新闻列表失败", err)
		return
	}
	tags, err := a.tags.Alive()
	if err != nil {
		a.dbError(c, "获取标签列表失败", err)
		return
	}

	rows := make([]gin.H, 0, len(news))
	for _, n := range news {
		rows = append(rows, adminNewsRow(n))
	}

	startText, endText := filterDate(start), filterDate(end)
	otherParam := url.Values{}
	otherParam.Set("start_time", startText)
	otherParam.Set("end_time", endText)
	otherParam.Set("title", filter.Title)
	otherParam.Set("author_name", filter.AuthorName)
	otherParam.Set("tag_id", strconv.FormatUint(uint64(filter.TagID), 10))

	res.OKWith(c, "", pageData(page, gin.H{
		"news_info":   rows,
		"tags":        tagOptions(tags),
		"start_time":  startText,
		"end_time":    endText,
		"title":       filter.Title,
		"author_name": filter.AuthorName,
		"tag_id":      filter.TagID,
		"other_param": otherParam.Encode(),
	}))
}

// GetNewsPub 发布页所需的标签列表
func (a *API) GetNewsPub(c *gin.Context) {
	tags, err := a.tags.Alive()
	if err != nil {
		a.dbError(c, "获取标签列表失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"tags": tagOptions(tags)})
}

// CreateNews 发布新闻，作者为当前登录用户
func (a *API) CreateNews(c *gin.Context) {
	values, ok := bindForm(c, a.newsPubForm())
	if !ok {
		return
	}

	news, err := a.news.Create(c.Request.Context(), currentUser(c).ID, newsInputFrom(values))
	if err != nil {
		a.dbError(c, "发布新闻失败", err)
		return
	}
	res.OKWith(c, "文章发布成功", gin.H{"id": news.ID})
}

// GetNewsEdit 编辑页数据：新闻内容与标签列表
func (a *API) GetNewsEdit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.NODATA, "需要更新的文章不存在")
		return
	}
	news, err := a.news.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			res.Fail(c, res.NODATA, "需要更新的文章不存在")
			return
		}
		a.dbError(c, "获取新闻失败", err)
		return
	}
	tags, err := a.tags.Alive()
	if err != nil {
		a.dbError(c, "获取标签列表失败", err)
		return
	}

	res.OKWith(c, "", gin.H{
		"news": gin.H{
			"id":        news.ID,
			"title":     news.Title,
			"digest":    news.Digest,
			"content":   news.Content,
			"image_url": news.ImageURL,
			"tag_id":    news.TagID,
		},
		"tags": tagOptions(tags),
	})
}

// UpdateNews 编辑新闻
func (a *API) UpdateNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.NODATA, "需要更新的文章不存在")
		return
	}
	if ok, err := a.news.Exists(id); err != nil {
		a.dbError(c, "获取新闻失败", err)
		return
	} else if !ok {
		res.Fail(c, res.NODATA, "需要更新的文章不存在")
		return
	}

	values, ok := bindForm(c, a.newsPubForm())
	if !ok {
		return
	}

	if _, err := a.news.Update(c.Request.Context(), id, newsInputFrom(values)); err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			res.Fail(c, res.NODATA, "需要更新的文章不存在")
			return
		}
		a.dbError(c, "更新新闻失败", err)
		return
	}
	res.OKWith(c, "文章更新成功", nil)
}

// DeleteNews 逻辑删除新闻
func (a *API) DeleteNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "需要删除的文章不存在")
		return
	}
	if err := a.news.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			res.Fail(c, res.PARAMERR, "需要删除的文章不存在")
			return
		}
		a.dbError(c, "删除新闻失败", err)
		return
	}
	res.OKWith(c, "文章删除成功", nil)
}
