package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Typed 以 JSON 序列化包裝 Cache，提供型別安全的存取
type Typed[T any] struct {
	cache Cache
	ttl   time.Duration
}

// NewTyped 建立 Typed，ttl 為預設過期時間
func NewTyped[T any](c Cache, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: c, ttl: ttl}
}

// Get 回傳快取值；不存在時 ok 為 false 且 err 為 nil
func (t *Typed[T]) Get(ctx context.Context, key string) (value T, ok bool, err error) {
	raw, err := t.cache.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, err
	}
	return value, true, nil
}

// Set 以預設 ttl 寫入
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, key, data, t.ttl).Err()
}

// Delete 移除 key
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.cache.Del(ctx, key).Err()
}
