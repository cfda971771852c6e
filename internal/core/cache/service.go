package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const payloadKeyPrefix = "recipe-matcher:catalog:"

// Service 目錄原始資料的 Redis 緩存服務；上游失效或重新啟動時可用來恢復快照
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService 創建緩存服務；未啟用時回傳不做任何事的 Service
func NewService(ctx context.Context, cfg config.RedisConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 目錄快取已連線", zap.String("addr", cfg.Addr))
	return NewServiceWithClient(client, cfg.TTL), nil
}

// NewServiceWithClient 使用既有的 client 建立服務
func NewServiceWithClient(client *redis.Client, ttl time.Duration) *Service {
	return &Service{client: client, ttl: ttl}
}

// Enabled 是否連接了 Redis
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// GetPayload 讀取目錄原始資料
func (s *Service) GetPayload(ctx context.Context, name string) ([]byte, error) {
	if !s.Enabled() {
		return nil, common.ErrCacheDisabled
	}

	data, err := s.client.Get(ctx, payloadKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// SetPayload 寫入目錄原始資料
func (s *Service) SetPayload(ctx context.Context, name string, data []byte) error {
	if !s.Enabled() {
		return nil
	}

	if err := s.client.Set(ctx, payloadKeyPrefix+name, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *Service) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}
