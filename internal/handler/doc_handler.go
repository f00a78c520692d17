package handler

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/form"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
	"github.com/xujunlin/mydjango/internal/storage"
	"go.uber.org/zap"
)

func docRow(d db.Doc) gin.H {
	return gin.H{
		"id":          d.ID,
		"title":       d.Title,
		"desc":        d.Desc,
		"image_url":   d.ImageURL,
		"file_url":    d.FileURL,
		"update_time": d.UpdatedAt.Local().Format(service.ListTimeLayout),
	}
}

func docInputFrom(values form.Values) service.DocInput {
	return service.DocInput{
		Title:    values.String("title"),
		Desc:     values.String("desc"),
		FileURL:  values.String("file_url"),
		ImageURL: values.String("image_url"),
	}
}

func (a *API) listDocs(c *gin.Context) {
	docs, err := a.docs.List()
	if err != nil {
		a.dbError(c, "获取文档列表失败", err)
		return
	}
	rows := make([]gin.H, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, docRow(d))
	}
	res.OKWith(c, "", gin.H{"docs": rows})
}

// GetDocs 前台文档下载列表
func (a *API) GetDocs(c *gin.Context) {
	a.listDocs(c)
}

// DownloadDoc 从存储重新拉取文档并以附件形式返回
func (a *API) DownloadDoc(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.String(http.StatusNotFound, "文档不存在！")
		return
	}
	doc, err := a.docs.Get(id)
	if err != nil {
		if !errors.Is(err, service.ErrDocNotFound) {
			a.logger.Error("获取文档失败", zap.Error(err))
		}
		c.String(http.StatusNotFound, "文档不存在！")
		return
	}

	docURL := doc.FileURL
	if !strings.HasPrefix(docURL, "http://") && !strings.HasPrefix(docURL, "https://") {
		docURL = a.siteDomain + docURL
	}
	contentType, ok := storage.DownloadContentType(docURL)
	if !ok {
		c.String(http.StatusNotFound, "文档格式不正确！")
		return
	}

	body, err := a.fetcher.Fetch(c.Request.Context(), docURL)
	if err != nil {
		a.logger.Info("文档获取异常", zap.String("url", docURL), zap.Error(err))
		c.String(http.StatusNotFound, "文档获取异常")
		return
	}
	defer body.Close()

	filename := url.PathEscape(path.Base(docURL))
	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": "attachment; filename*=UTF-8''" + filename,
	})
}

// GetDocsManage 后台文档列表
func (a *API) GetDocsManage(c *gin.Context) {
	a.listDocs(c)
}

// CreateDoc 发布文档
func (a *API) CreateDoc(c *gin.Context) {
	values, ok := bindForm(c, docsPubForm())
	if !ok {
		return
	}
	var authorID uint
	if user := currentUser(c); user != nil {
		authorID = user.ID
	}
	doc, err := a.docs.Create(authorID, docInputFrom(values))
	if err != nil {
		a.dbError(c, "发布文档失败", err)
		return
	}
	res.OKWith(c, "文档发布成功", gin.H{"id": doc.ID})
}

// GetDocEdit 编辑页数据
func (a *API) GetDocEdit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.NODATA, "需要更新的文档不存在")
		return
	}
	doc, err := a.docs.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrDocNotFound) {
			res.Fail(c, res.NODATA, "需要更新的文档不存在")
			return
		}
		a.dbError(c, "获取文档失败", err)
		return
	}
	res.OKWith(c, "", gin.H{"doc": docRow(*doc)})
}

// UpdateDoc 编辑文档
func (a *API) UpdateDoc(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.NODATA, "需要更新的文档不存在")
		return
	}
	values, ok := bindForm(c, docsPubForm())
	if !ok {
		return
	}
	if _, err := a.docs.Update(id, docInputFrom(values)); err != nil {
		if errors.Is(err, service.ErrDocNotFound) {
			res.Fail(c, res.NODATA, "需要更新的文档不存在")
			return
		}
		a.dbError(c, "更新文档失败", err)
		return
	}
	res.OKWith(c, "文档更新成功", nil)
}

// DeleteDoc 逻辑删除文档
func (a *API) DeleteDoc(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "文档不存在")
		return
	}
	if err := a.docs.Delete(id); err != nil {
		if errors.Is(err, service.ErrDocNotFound) {
			res.Fail(c, res.PARAMERR, "文档不存在")
			return
		}
		a.dbError(c, "删除文档失败", err)
		return
	}
	res.OKWith(c, "文档删除成功", nil)
}
