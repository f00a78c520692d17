// Package search 把新闻变更以事件形式发布给外部索引服务。
package search

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	ActionIndex  = "index"
	ActionRemove = "remove"
)

// 索引事件在请求路径上同步发布，单条事件不攒批，整体耗时受 PublishTimeout 限制。
const (
	PublishTimeout = 2 * time.Second
	batchTimeout   = 10 * time.Millisecond
)

// Document 是索引中的一篇新闻。
type Document struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Digest     string    `json:"digest"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"image_url"`
	TagID      uint      `json:"tag_id"`
	TagName    string    `json:"tag_name"`
	Author     string    `json:"author"`
	UpdateTime time.Time `json:"update_time"`
}

// Event 发布到 Kafka 的索引事件。
type Event struct {
	EventID   string    `json:"event_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	NewsID    uint      `json:"news_id"`
	Document  *Document `json:"document,omitempty"`
}

// Indexer 接收索引变更。
type Indexer interface {
	Index(ctx context.Context, doc Document) error
	Remove(ctx context.Context, newsID uint) error
	Close() error
}

// NopIndexer 丢弃所有事件，未配置 Kafka 时使用。
type NopIndexer struct{}

func (NopIndexer) Index(context.Context, Document) error { return nil }
func (NopIndexer) Remove(context.Context, uint) error    { return nil }
func (NopIndexer) Close() error                          { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaIndexer 把索引事件写入 Kafka 主题。
type KafkaIndexer struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaIndexer 创建 Kafka 索引事件生产者。
func NewKafkaIndexer(brokers []string, topic string, logger *zap.Logger) *KafkaIndexer {
	return newKafkaIndexer(newWriter(brokers), topic, logger)
}

func newWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: batchTimeout,
		WriteTimeout: PublishTimeout,
	}
}

func newKafkaIndexer(writer messageWriter, topic string, logger *zap.Logger) *KafkaIndexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaIndexer{writer: writer, topic: topic, timeout: PublishTimeout, logger: logger}
}

func (k *KafkaIndexer) Index(ctx context.Context, doc Document) error {
	return k.send(ctx, Event{Action: ActionIndex, NewsID: doc.ID, Document: &doc})
}

func (k *KafkaIndexer) Remove(ctx context.Context, newsID uint) error {
	return k.send(ctx, Event{Action: ActionRemove, NewsID: newsID})
}

func (k *KafkaIndexer) Close() error {
	return k.writer.Close()
}

func (k *KafkaIndexer) send(ctx context.Context, event Event) error {
	event.EventID = uuid.NewString()
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		k.logger.Error("Failed to marshal index event", zap.Error(err), zap.Uint("news_id", event.NewsID))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Topic: k.topic,
		Key:   []byte(strconv.FormatUint(uint64(event.NewsID), 10)),
		Value: payload,
	})
	if err != nil {
		k.logger.Error("Failed to write index event", zap.Error(err), zap.String("topic", k.topic), zap.String("action", event.Action))
		return err
	}
	k.logger.Debug("Index event sent", zap.String("topic", k.topic), zap.String("action", event.Action), zap.Uint("news_id", event.NewsID))
	return nil
}
