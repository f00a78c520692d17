package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaIndexerPublishesEvents(t *testing.T) {
	w := &recordingWriter{}
	idx := newKafkaIndexer(w, "news-index", nil)

	if err := idx.Index(context.Background(), Document{ID: 7, Title: "Go"}); err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := idx.Remove(context.Background(), 7); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(w.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(w.messages))
	}
	if w.messages[0].Topic != "news-index" || string(w.messages[0].Key) != "7" {
		t.Fatalf("unexpected message routing %+v", w.messages[0])
	}

	var event Event
	if err := json.Unmarshal(w.messages[0].Value, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Action != ActionIndex || event.Document == nil || event.Document.Title != "Go" || event.EventID == "" {
		t.Fatalf("unexpected index event %+v", event)
	}

	if err := json.Unmarshal(w.messages[1].Value, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Action != ActionRemove || event.NewsID != 7 {
		t.Fatalf("unexpected remove event %+v", event)
	}
}

type blockingWriter struct{}

func (blockingWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingWriter) Close() error { return nil }

func TestKafkaIndexerBoundsSlowBroker(t *testing.T) {
	idx := newKafkaIndexer(blockingWriter{}, "news-index", nil)
	idx.timeout = 20 * time.Millisecond

	start := time.Now()
	err := idx.Index(context.Background(), Document{ID: 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected publish to give up quickly, took %s", elapsed)
	}
}

func TestNewWriterDoesNotWaitForBatch(t *testing.T) {
	w := newWriter([]string{"localhost:9092"})
	if w.BatchTimeout != batchTimeout || w.WriteTimeout != PublishTimeout {
		t.Fatalf("unexpected writer timeouts batch=%s write=%s", w.BatchTimeout, w.WriteTimeout)
	}
	if idx := newKafkaIndexer(w, "news-index", nil); idx.timeout != PublishTimeout {
		t.Fatalf("expected default publish timeout, got %s", idx.timeout)
	}
}

type staticSource []Document

func (s staticSource) IndexableDocuments(context.Context) ([]Document, error) { return s, nil }

type flakyIndexer struct {
	NopIndexer
	failID uint
	seen   []uint
}

func (f *flakyIndexer) Index(_ context.Context, doc Document) error {
	f.seen = append(f.seen, doc.ID)
	if doc.ID == f.failID {
		return errors.New("broker down")
	}
	return nil
}

func TestReindexRunOnceSkipsFailures(t *testing.T) {
	indexer := &flakyIndexer{failID: 2}
	task, err := NewReindexTask("@every 1h", staticSource{{ID: 1}, {ID: 2}, {ID: 3}}, indexer, nil)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	sent, err := task.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if sent != 2 || len(indexer.seen) != 3 {
		t.Fatalf("expected 2 of 3 documents sent, got sent=%d seen=%v", sent, indexer.seen)
	}
}

func TestReindexRejectsBadSpec(t *testing.T) {
	if _, err := NewReindexTask("not a spec", staticSource{}, NopIndexer{}, nil); err == nil {
		t.Fatalf("expected invalid cron spec to fail")
	}
}
