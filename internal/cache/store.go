package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store 缓存能力抽象（读、带 TTL 写、删除）
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// GetJSON 读取 JSON 缓存
func GetJSON(ctx context.Context, store Store, key string, dest interface{}) (bool, error) {
	if store == nil {
		return false, nil
	}
	raw, hit, err := store.Get(ctx, key)
	if err != nil || !hit {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, store Store, key string, value interface{}, ttl time.Duration) error {
	if store == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, payload, ttl)
}

// Del 删除缓存
func Del(ctx context.Context, store Store, keys ...string) error {
	if store == nil || len(keys) == 0 {
		return nil
	}
	return store.Del(ctx, keys...)
}
