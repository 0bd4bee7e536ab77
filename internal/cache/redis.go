// Package cache はRedisを使ったバイト列キャッシュを提供する。
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss はキーがキャッシュに存在しないことを示す。
var ErrMiss = errors.New("cache miss")

// Redis はgo-redisクライアントのラッパー。
type Redis struct {
	client *redis.Client
}

// NewRedis は指定アドレスのRedisに接続するキャッシュを生成する。
// 接続は遅延で確立されるため、到達性はPingで確認する。
func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Ping はRedisへの疎通を確認する。
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close は接続を閉じる。
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get はキーの値を返す。キーが無い場合はErrMissを返す。
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

// Set はキーに値をTTL付きで保存する。
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
