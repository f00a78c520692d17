package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/storage"
	"go.uber.org/zap"
)

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var documentContentTypes = map[string]bool{
	"application/octet-stream": true,
	"application/pdf":          true,
	"application/zip":          true,
	"text/plain":               true,
	"application/x-rar":        true,
}

// store 读取表单文件并上传到存储后端，返回可访问的地址。
// uploadErr 非空表示上传调用本身失败；ok 为 false 表示存储端返回了失败状态。
func (a *API) store(ctx context.Context, file *multipart.FileHeader, fallbackExt string) (url string, ok bool, uploadErr error) {
	src, err := file.Open()
	if err != nil {
		return "", false, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", false, err
	}

	result, err := a.uploader.UploadByBuffer(ctx, data, storage.ExtFromFilename(file.Filename, fallbackExt))
	if err != nil {
		return "", false, err
	}
	if !result.OK() {
		a.logger.Info("upload rejected by storage", zap.String("status", result.Status))
		return "", false, nil
	}
	return storage.PublicURL(a.storageDomain, result.RemoteFileID), true, nil
}

// UploadNewsImage 上传新闻封面图片
func (a *API) UploadNewsImage(c *gin.Context) {
	file, err := c.FormFile("image_file")
	if err != nil {
		a.logger.Info("从前端获取图片失败", zap.Error(err))
		res.Fail(c, res.NODATA, "从前端获取图片失败")
		return
	}
	if !imageContentTypes[file.Header.Get("Content-Type")] {
		res.Fail(c, res.DATAERR, "不能上传非图片文件")
		return
	}

	url, ok, err := a.store(c.Request.Context(), file, "jpg")
	if err != nil {
		a.logger.Error("图片上传出现异常", zap.Error(err))
		res.Fail(c, res.UNKOWNERR, "图片上传异常")
		return
	}
	if !ok {
		res.Fail(c, res.UNKOWNERR, "图片上传到服务器失败")
		return
	}
	res.OKWith(c, "图片上传成功", gin.H{"image_url": url})
}

// UploadMarkdownImage 处理 editor.md 的图片上传，响应格式为 {success, message, url}
func (a *API) UploadMarkdownImage(c *gin.Context) {
	file, err := c.FormFile("editormd-image-file")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": 0, "message": "从前端获取图片失败"})
		return
	}
	if !imageContentTypes[file.Header.Get("Content-Type")] {
		c.JSON(http.StatusOK, gin.H{"success": 0, "message": "不能上传非图片文件"})
		return
	}

	url, ok, err := a.store(c.Request.Context(), file, "jpg")
	if err != nil {
		a.logger.Error("图片上传出现异常", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": 0, "message": "图片上传异常"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": 0, "message": "图片上传到服务器失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": 1, "message": "图片上传成功", "url": url})
}

// GetUploadToken 为前端直传签发上传凭证，当前存储后端不支持时返回 THIRDERR
func (a *API) GetUploadToken(c *gin.Context) {
	issuer, ok := a.uploader.(storage.TokenIssuer)
	if !ok {
		res.Fail(c, res.THIRDERR, "当前存储不支持直传")
		return
	}
	c.JSON(http.StatusOK, gin.H{"uptoken": issuer.UploadToken()})
}

// UploadDocFile 上传文档附件
func (a *API) UploadDocFile(c *gin.Context) {
	file, err := c.FormFile("text_file")
	if err != nil {
		a.logger.Info("从前端获取文件失败", zap.Error(err))
		res.Fail(c, res.NODATA, "从前端获取文件失败")
		return
	}
	if !documentContentTypes[file.Header.Get("Content-Type")] {
		res.Fail(c, res.DATAERR, "不能上传非文档文件")
		return
	}

	url, ok, err := a.store(c.Request.Context(), file, "pdf")
	if err != nil {
		a.logger.Error("文件上传出现异常", zap.Error(err))
		res.Fail(c, res.UNKOWNERR, "文件上传异常")
		return
	}
	if !ok {
		res.Fail(c, res.UNKOWNERR, "文件上传到服务器失败")
		return
	}
	res.OKWith(c, "文件上传成功", gin.H{"text_file": url})
}
