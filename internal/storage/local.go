package storage

import (
	"context"
	"os"
	"path/filepath"
)

// LocalUploader 把文件写入本地目录，通常配合静态文件路由对外提供访问。
type LocalUploader struct {
	dir string
}

// NewLocalUploader 创建本地存储。
func NewLocalUploader(dir string) *LocalUploader {
	if dir == "" {
		dir = "data/media"
	}
	return &LocalUploader{dir: dir}
}

func (u *LocalUploader) UploadByBuffer(_ context.Context, data []byte, ext string) (UploadResult, error) {
	key := ObjectKey(ext)
	target := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return UploadResult{}, err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Status: UploadSuccess, RemoteFileID: key}, nil
}
