package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"
	"github.com/xujunlin/mydjango/internal/config"
	"go.uber.org/zap"
)

// COSUploader 上传到腾讯云 COS。
type COSUploader struct {
	client *cos.Client
	logger *zap.Logger
}

// NewCOSUploader 初始化腾讯云 COS 客户端
func NewCOSUploader(cfg config.COSConfig, logger *zap.Logger) (*COSUploader, error) {
	if cfg.SecretID == "" || cfg.SecretKey == "" || cfg.BucketName == "" || cfg.AppID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("COS 配置不完整，缺少关键字段 (SecretID, SecretKey, BucketName, AppID, Region)")
	}

	bucketURL := fmt.Sprintf("https://%s-%s.cos.%s.myqcloud.com", cfg.BucketName, cfg.AppID, cfg.Region)
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("解析 COS 存储桶 URL '%s' 失败: %w", bucketURL, err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})
	logger.Info("COS 客户端初始化成功", zap.String("bucket", cfg.BucketName), zap.String("region", cfg.Region))

	return &COSUploader{client: client, logger: logger}, nil
}

func (u *COSUploader) UploadByBuffer(ctx context.Context, data []byte, ext string) (UploadResult, error) {
	key := ObjectKey(ext)
	opts := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   http.DetectContentType(data),
			ContentLength: int64(len(data)),
		},
	}

	resp, err := u.client.Object.Put(ctx, key, bytes.NewReader(data), opts)
	if err != nil {
		u.logger.Error("COS 文件上传 API 调用失败", zap.String("key", key), zap.Error(err))
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		u.logger.Error("COS 文件上传返回非200状态码", zap.String("key", key), zap.Int("status", resp.StatusCode))
		return UploadResult{Status: UploadFailed}, nil
	}
	return UploadResult{Status: UploadSuccess, RemoteFileID: key}, nil
}
