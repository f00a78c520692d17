package verify

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryItem struct {
	Value     string
	ExpiresAt time.Time
}

// MemoryStore 进程内的验证存储，容量满时按 LRU 淘汰。
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, memoryItem]
	now   func() time.Time
}

// NewMemoryStore 创建容量为 size 的内存存储。
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 10000
	}
	cache, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: cache, now: time.Now}, nil
}

// WithClock 替换时间来源，主要用于测试。
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, value, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.lookup(key)
	if !ok {
		return "", false, nil
	}
	return item.Value, true, nil
}

func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.lookup(key)
	if !ok {
		return 0, false, nil
	}
	if item.ExpiresAt.IsZero() {
		return 0, true, nil
	}
	return item.ExpiresAt.Sub(s.now()), true, nil
}

// SetBatch 在同一把锁内写入全部记录。
func (s *MemoryStore) SetBatch(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.put(e.Key, e.Value, e.TTL)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(key)
	return nil
}

func (s *MemoryStore) put(key, value string, ttl time.Duration) {
	item := memoryItem{Value: value}
	if ttl > 0 {
		item.ExpiresAt = s.now().Add(ttl)
	}
	s.cache.Add(key, item)
}

func (s *MemoryStore) lookup(key string) (memoryItem, bool) {
	item, ok := s.cache.Get(key)
	if !ok {
		return memoryItem{}, false
	}
	if !item.ExpiresAt.IsZero() && !s.now().Before(item.ExpiresAt) {
		s.cache.Remove(key)
		return memoryItem{}, false
	}
	return item, true
}
