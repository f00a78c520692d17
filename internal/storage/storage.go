// Package storage 把上传的文件转存到对象存储。
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xujunlin/mydjango/internal/config"
	"go.uber.org/zap"
)

// UploadSuccess 上传成功时 Status 的取值，其他任何值都视为失败。
const UploadSuccess = "Upload successed."

// UploadFailed 存储端返回非成功状态时使用的 Status。
const UploadFailed = "Upload failed."

// UploadResult 上传结果。
type UploadResult struct {
	Status       string `json:"Status"`
	RemoteFileID string `json:"Remote file_id"`
}

// OK 报告上传是否成功。
func (r UploadResult) OK() bool {
	return r.Status == UploadSuccess && r.RemoteFileID != ""
}

// Uploader 上传字节内容并返回远端文件标识。
type Uploader interface {
	UploadByBuffer(ctx context.Context, data []byte, ext string) (UploadResult, error)
}

// TokenIssuer 为前端直传签发上传凭证。
type TokenIssuer interface {
	UploadToken() string
}

// ObjectKey 生成按日期分目录的对象键。
func ObjectKey(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	name := uuid.NewString()
	if ext != "" {
		name += "." + strings.ToLower(ext)
	}
	return path.Join(time.Now().Format("2006/01/02"), name)
}

// ExtFromFilename 取文件名最后一个 "." 之后的部分，缺失时返回 fallback。
func ExtFromFilename(filename, fallback string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return fallback
	}
	return filename[idx+1:]
}

// PublicURL 拼接访问地址：存储域名 + 远端文件标识。
func PublicURL(domain, remoteID string) string {
	return domain + strings.TrimPrefix(remoteID, "/")
}

// New 按配置选择存储后端。
func New(cfg config.AppConfig, logger *zap.Logger) (Uploader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		uploader Uploader
		err      error
	)
	switch cfg.StorageProvider {
	case "", "local":
		uploader = NewLocalUploader(cfg.UploadDir)
	case "cos":
		var u *COSUploader
		if u, err = NewCOSUploader(cfg.COS, logger); err == nil {
			uploader = u
		}
	case "oss":
		var u *OSSUploader
		if u, err = NewOSSUploader(cfg.OSS, logger); err == nil {
			uploader = u
		}
	case "qiniu":
		var u *QiniuUploader
		if u, err = NewQiniuUploader(cfg.Qiniu, logger); err == nil {
			uploader = u
		}
	default:
		err = fmt.Errorf("unsupported storage provider %q", cfg.StorageProvider)
	}
	if err != nil {
		return nil, err
	}
	return uploader, nil
}
