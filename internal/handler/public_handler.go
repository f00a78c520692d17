package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
)

// hotNewsItems 首页与空搜索共用的热门新闻
func (a *API) hotNewsItems() ([]gin.H, error) {
	hot, err := a.hotNews.List(service.HotNewsLimit)
	if err != nil {
		return nil, err
	}
	items := make([]gin.H, 0, len(hot))
	for _, h := range hot {
		items = append(items, gin.H{
			"news_id":   h.NewsID,
			"title":     h.News.Title,
			"image_url": h.News.ImageURL,
		})
	}
	return items, nil
}

// Index 首页：标签与热门新闻
func (a *API) Index(c *gin.Context) {
	tags, err := a.tags.Alive()
	if err != nil {
		a.dbError(c, "获取标签列表失败", err)
		return
	}
	hot, err := a.hotNewsItems()
	if err != nil {
		a.dbError(c, "获取热门新闻失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"tags": tagOptions(tags), "hot_news": hot})
}

// GetNewsList 前台新闻分页列表
func (a *API) GetNewsList(c *gin.Context) {
	news, page, err := a.news.PublicList(queryUint(c, "tag_id"), queryInt(c, "page", 1))
	if err != nil {
		a.dbError(c, "获取新闻列表失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"news": news, "total_pages": page.TotalPages})
}

// GetNewsBanners 前台轮播图
func (a *API) GetNewsBanners(c *gin.Context) {
	banners, err := a.banners.Items()
	if err != nil {
		a.dbError(c, "获取轮播图失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"banners": banners})
}

// GetNewsDetail 新闻详情及评论，每次访问点击数加一
func (a *API) GetNewsDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.String(http.StatusNotFound, "新闻不存在")
		return
	}
	news, err := a.news.Detail(id)
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			c.String(http.StatusNotFound, "新闻不存在")
			return
		}
		a.dbError(c, "获取新闻失败", err)
		return
	}
	comments, err := a.comments.ListForNews(id)
	if err != nil {
		a.dbError(c, "获取评论失败", err)
		return
	}

	views := make([]service.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, service.CommentViewOf(comment))
	}
	res.OKWith(c, "", gin.H{
		"news": gin.H{
			"id":          news.ID,
			"title":       news.Title,
			"content":     news.Content,
			"clicks":      news.Clicks,
			"tag_name":    news.Tag.Name,
			"author":      news.Author.Username,
			"update_time": news.UpdatedAt.Local().Format(service.ListTimeLayout),
		},
		"comments_list": views,
	})
}

// parseParentID 解析可选的 parent_id，缺省或为假值时返回 nil。
func parseParentID(raw any) (*uint, error) {
	var n int64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		if !v {
			return nil, nil
		}
		return nil, errors.New("parent_id must be an integer")
	case float64:
		if v != float64(int64(v)) {
			return nil, errors.New("parent_id must be an integer")
		}
		n = int64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		n = parsed
	default:
		return nil, errors.New("parent_id must be an integer")
	}
	if n == 0 {
		return nil, nil
	}
	if n < 0 {
		return nil, errors.New("parent_id must be positive")
	}
	id := uint(n)
	return &id, nil
}

// CreateComment 发表评论，需要登录
func (a *API) CreateComment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		res.Fail(c, res.SESSIONERR, "")
		return
	}
	newsID, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "新闻不存在")
		return
	}
	if ok, err := a.news.Exists(newsID); err != nil {
		a.dbError(c, "获取新闻失败", err)
		return
	} else if !ok {
		res.Fail(c, res.PARAMERR, "新闻不存在")
		return
	}

	input, ok := readJSON(c)
	if !ok {
		return
	}
	values, errs := commentForm().Validate(input)
	if len(errs) > 0 {
		res.Fail(c, res.PARAMERR, errs.Join())
		return
	}
	parentID, err := parseParentID(input["parent_id"])
	if err != nil {
		a.logger.Info("parent_id有误")
		res.Fail(c, res.PARAMERR, "parent_id异常")
		return
	}

	comment, err := a.comments.Create(newsID, user.ID, values.String("content"), parentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentEmpty):
			res.Fail(c, res.PARAMERR, "评论内容不能为空")
		case errors.Is(err, service.ErrNewsNotFound):
			res.Fail(c, res.PARAMERR, "新闻不存在")
		case errors.Is(err, service.ErrCommentParentInvalid):
			res.Fail(c, res.PARAMERR, "")
		default:
			a.dbError(c, "发表评论失败", err)
		}
		return
	}
	res.OKWith(c, "", service.CommentViewOf(*comment))
}

// Search 搜索新闻，关键字为空时返回热门新闻
func (a *API) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		hot, err := a.hotNewsItems()
		if err != nil {
			a.dbError(c, "获取热门新闻失败", err)
			return
		}
		res.OKWith(c, "", gin.H{"query": "", "show_all": true, "hot_news": hot})
		return
	}

	news, page, err := a.news.Search(query, queryInt(c, "page", 1))
	if err != nil {
		a.dbError(c, "搜索新闻失败", err)
		return
	}
	res.OKWith(c, "", pageData(page, gin.H{"query": query, "show_all": false, "news": news}))
}
