package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"recipe-chatbot/internal/infrastructure/config"
	"recipe-chatbot/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// sessionKeyPrefix Redis 中會話鍵的命名空間
const sessionKeyPrefix = "session:"

// RedisStore Redis 後端的會話儲存。
// 狀態以 JSON 存放並帶 TTL。讀-改-寫的原子性靠行程內的按鍵互斥鎖保證，
// 這只在單一行程部署下成立（多節點一致性是明確的非目標）。
type RedisStore struct {
	client *redis.Client
	cfg    config.SessionConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRedisStore 創建 Redis 會話儲存
func NewRedisStore(cfg config.SessionConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("會話儲存已初始化",
		zap.String("store", "redis"),
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.TTL),
	)

	return &RedisStore{
		client: client,
		cfg:    cfg,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// keyLock 取得指定鍵的行程內互斥鎖
func (s *RedisStore) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// Get 讀取會話狀態
func (s *RedisStore) Get(ctx context.Context, key string) (State, bool, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			common.LogSessionMiss("redis", key)
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("%w: %v", common.ErrSessionStoreUnavailable, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	common.LogSessionHit("redis", key)
	return state, true, nil
}

// Update 原子地讀-改-寫指定鍵的狀態
func (s *RedisStore) Update(ctx context.Context, key string, fn func(*State) error) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	state, _, err := s.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := fn(&state); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+key, data, s.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSessionStoreUnavailable, err)
	}
	return nil
}

// Clear 移除指定鍵的會話
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSessionStoreUnavailable, err)
	}
	return nil
}

// Len 回傳當前會話數量。SCAN 全鍵空間在這個規模下可接受。
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	var count int
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrSessionStoreUnavailable, err)
	}
	return count, nil
}

// Close 關閉儲存
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NewStore 依設定建立會話儲存後端
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch cfg.Store {
	case "redis":
		return NewRedisStore(cfg)
	default:
		return NewMemoryStore(cfg), nil
	}
}
