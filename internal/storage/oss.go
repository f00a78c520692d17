package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/xujunlin/mydjango/internal/config"
	"go.uber.org/zap"
)

// OSSUploader 上传到阿里云 OSS。
type OSSUploader struct {
	bucket *oss.Bucket
	logger *zap.Logger
}

// NewOSSUploader 创建阿里云 OSS 客户端并打开存储桶。
func NewOSSUploader(cfg config.OSSConfig, logger *zap.Logger) (*OSSUploader, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("OSS 配置不完整")
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}
	logger.Info("OSS 客户端初始化成功", zap.String("bucket", cfg.Bucket))

	return &OSSUploader{bucket: bucket, logger: logger}, nil
}

func (u *OSSUploader) UploadByBuffer(ctx context.Context, data []byte, ext string) (UploadResult, error) {
	key := ObjectKey(ext)
	err := u.bucket.PutObject(key, bytes.NewReader(data),
		oss.ContentType(http.DetectContentType(data)),
		oss.WithContext(ctx),
	)
	if err != nil {
		u.logger.Error("OSS 文件上传失败", zap.String("key", key), zap.Error(err))
		return UploadResult{}, err
	}
	return UploadResult{Status: UploadSuccess, RemoteFileID: key}, nil
}
