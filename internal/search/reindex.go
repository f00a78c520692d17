package search

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Source 提供需要进入索引的全部新闻。
type Source interface {
	IndexableDocuments(ctx context.Context) ([]Document, error)
}

// ReindexTask 定时把可索引新闻全量重新发布一遍。
type ReindexTask struct {
	cron    *cron.Cron
	source  Source
	indexer Indexer
	logger  *zap.Logger
	timeout time.Duration
}

// NewReindexTask 注册定时任务，调用 Start 后开始调度。
func NewReindexTask(spec string, source Source, indexer Indexer, logger *zap.Logger) (*ReindexTask, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &ReindexTask{
		cron:    cron.New(),
		source:  source,
		indexer: indexer,
		logger:  logger,
		timeout: 10 * time.Minute,
	}

	entryID, err := t.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		start := time.Now()
		count, err := t.RunOnce(ctx)
		if err != nil {
			t.logger.Error("全量重建索引失败", zap.Error(err))
			return
		}
		t.logger.Info("全量重建索引完成", zap.Int("documents", count), zap.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("索引重建定时任务已注册", zap.String("schedule", spec), zap.Int("entry_id", int(entryID)))
	return t, nil
}

// Start 开始调度。
func (t *ReindexTask) Start() {
	t.cron.Start()
}

// Stop 停止调度，返回的 context 在正在执行的任务结束后关闭。
func (t *ReindexTask) Stop() context.Context {
	return t.cron.Stop()
}

// RunOnce 立即执行一次重建，返回发布成功的文档数。单篇失败只记录日志。
func (t *ReindexTask) RunOnce(ctx context.Context) (int, error) {
	docs, err := t.source.IndexableDocuments(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := t.indexer.Index(ctx, doc); err != nil {
			t.logger.Warn("发布索引事件失败", zap.Uint("news_id", doc.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
