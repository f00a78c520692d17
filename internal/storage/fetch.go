package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrFileNotFound 远端文件不可获取。
var ErrFileNotFound = errors.New("remote file not found")

// Fetcher 从存储重新拉取文件。
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher 通过 HTTP GET 拉取文件。
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher 创建 HTTPFetcher，client 为空时使用带超时的默认客户端。
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %s", ErrFileNotFound, resp.Status)
	}
	return resp.Body, nil
}

var downloadContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"zip":  "application/zip",
	"doc":  "application/msword",
	"xls":  "application/vnd.ms-excel",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// DownloadContentType 按扩展名（不区分大小写）返回下载的 Content-Type，未知扩展名返回 false。
func DownloadContentType(fileURL string) (string, bool) {
	idx := strings.LastIndex(fileURL, ".")
	if idx < 0 {
		return "", false
	}
	ct, ok := downloadContentTypes[strings.ToLower(fileURL[idx+1:])]
	return ct, ok
}
