package session

import (
	"context"
	"sync"
	"time"

	"recipe-chatbot/internal/infrastructure/config"
	"recipe-chatbot/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 行程內的會話儲存。
// 每個鍵持有獨立的互斥鎖，Update 期間只阻塞同一會話的訊息；
// 過期會話由背景協程依 CleanupInterval 清理。
type MemoryStore struct {
	cfg   config.SessionConfig
	mu    sync.RWMutex
	store map[string]*memoryEntry
	stats storeStats
	done  chan struct{}
	once  sync.Once
}

// memoryEntry 單一會話條目
type memoryEntry struct {
	mu         sync.Mutex
	state      State
	expiresAt  time.Time
	lastAccess time.Time
}

// storeStats 儲存統計
type storeStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemoryStore 創建行程內會話儲存
func NewMemoryStore(cfg config.SessionConfig) *MemoryStore {
	s := &MemoryStore{
		cfg:   cfg,
		store: make(map[string]*memoryEntry),
		done:  make(chan struct{}),
	}

	// 啟動清理過期會話的協程
	go s.startCleanup()

	common.LogInfo("會話儲存已初始化",
		zap.String("store", "memory"),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return s
}

// Get 讀取會話狀態
func (s *MemoryStore) Get(ctx context.Context, key string) (State, bool, error) {
	s.mu.RLock()
	entry, exists := s.store[key]
	s.mu.RUnlock()

	if !exists {
		common.LogSessionMiss("memory", key)
		return State{}, false, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if time.Now().After(entry.expiresAt) {
		return State{}, false, nil
	}
	common.LogSessionHit("memory", key)
	return entry.state, true, nil
}

// Update 原子地讀-改-寫指定鍵的狀態。
// 條目在首次訊息時惰性建立，存活到過期或被清理為止。
func (s *MemoryStore) Update(ctx context.Context, key string, fn func(*State) error) error {
	entry := s.getOrCreate(key)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	// 已過期的條目視為新會話
	if now.After(entry.expiresAt) && !entry.expiresAt.IsZero() {
		entry.state = State{}
	}

	if err := fn(&entry.state); err != nil {
		return err
	}

	entry.expiresAt = now.Add(s.cfg.TTL)
	entry.lastAccess = now
	return nil
}

// getOrCreate 取得或建立條目
func (s *MemoryStore) getOrCreate(key string) *memoryEntry {
	s.mu.RLock()
	entry, exists := s.store[key]
	s.mu.RUnlock()
	if exists {
		s.bumpHits()
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 二次檢查，避免併發建立
	if entry, exists = s.store[key]; exists {
		s.stats.hits++
		return entry
	}

	// 容量已滿時先淘汰最久未使用的條目
	if len(s.store) >= s.cfg.MaxSessions {
		s.evictOldest()
	}

	entry = &memoryEntry{expiresAt: time.Now().Add(s.cfg.TTL)}
	s.store[key] = entry
	s.stats.misses++
	return entry
}

func (s *MemoryStore) bumpHits() {
	s.mu.Lock()
	s.stats.hits++
	s.mu.Unlock()
}

// Clear 移除指定鍵的會話
func (s *MemoryStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, key)
	return nil
}

// Len 回傳當前會話數量
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store), nil
}

// startCleanup 啟動清理過期會話的協程
func (s *MemoryStore) startCleanup() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

// cleanup 清理過期的會話
func (s *MemoryStore) cleanup() int {
	now := time.Now()
	count := 0

	s.mu.Lock()
	for key, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, key)
			count++
			s.stats.evictions++
		}
	}
	remaining := len(s.store)
	s.mu.Unlock()

	if count > 0 {
		common.LogInfo("已清理過期會話",
			zap.Int("cleaned", count),
			zap.Int("remaining", remaining),
		)
	}
	return count
}

// evictOldest 淘汰最久未使用的條目，呼叫方需持有寫鎖
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestAccess time.Time

	for key, entry := range s.store {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}

	if oldestKey != "" {
		delete(s.store, oldestKey)
		s.stats.evictions++
		common.LogInfo("會話已淘汰(LRU)")
	}
}

// Stats 回傳儲存統計信息
func (s *MemoryStore) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"size":      len(s.store),
		"max_size":  s.cfg.MaxSessions,
		"hits":      s.stats.hits,
		"misses":    s.stats.misses,
		"evictions": s.stats.evictions,
	}
}

// Close 關閉儲存
func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[string]*memoryEntry)
	common.LogInfo("會話儲存已關閉",
		zap.Int64("hits", s.stats.hits),
		zap.Int64("misses", s.stats.misses),
		zap.Int64("evictions", s.stats.evictions),
	)
	return nil
}
