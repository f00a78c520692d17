package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	qstorage "github.com/qiniu/go-sdk/v7/storage"
	"github.com/xujunlin/mydjango/internal/config"
	"go.uber.org/zap"
)

// QiniuUploader 上传到七牛云 Kodo，同时为前端直传签发凭证。
type QiniuUploader struct {
	mac    *qbox.Mac
	bucket string
	cfg    qstorage.Config
	logger *zap.Logger
}

// NewQiniuUploader 创建七牛云上传器
func NewQiniuUploader(cfg config.QiniuConfig, logger *zap.Logger) (*QiniuUploader, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("七牛云配置不完整")
	}

	region, err := qstorage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}
	logger.Info("七牛云客户端初始化成功", zap.String("bucket", cfg.Bucket))

	return &QiniuUploader{
		mac:    qbox.NewMac(cfg.AccessKey, cfg.SecretKey),
		bucket: cfg.Bucket,
		cfg:    qstorage.Config{Region: region, UseHTTPS: true},
		logger: logger,
	}, nil
}

// UploadToken 签发整个存储桶范围的上传凭证。
func (u *QiniuUploader) UploadToken() string {
	policy := qstorage.PutPolicy{Scope: u.bucket}
	return policy.UploadToken(u.mac)
}

func (u *QiniuUploader) UploadByBuffer(ctx context.Context, data []byte, ext string) (UploadResult, error) {
	key := ObjectKey(ext)
	policy := qstorage.PutPolicy{Scope: fmt.Sprintf("%s:%s", u.bucket, key)}
	token := policy.UploadToken(u.mac)

	uploader := qstorage.NewFormUploader(&u.cfg)
	ret := qstorage.PutRet{}
	extra := qstorage.PutExtra{MimeType: http.DetectContentType(data)}

	if err := uploader.Put(ctx, &ret, token, key, bytes.NewReader(data), int64(len(data)), &extra); err != nil {
		u.logger.Error("七牛云文件上传失败", zap.String("key", key), zap.Error(err))
		return UploadResult{}, err
	}
	if ret.Key == "" {
		return UploadResult{Status: UploadFailed}, nil
	}
	return UploadResult{Status: UploadSuccess, RemoteFileID: ret.Key}, nil
}
