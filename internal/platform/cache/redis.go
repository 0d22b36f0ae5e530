package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// PayloadCache keeps raw upstream payloads so replicas share one copy of the
// open-data files.
type PayloadCache interface {
	GetPayload(ctx context.Context, key string) ([]byte, bool, error)
	SetPayload(ctx context.Context, key string, raw []byte) error
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

type RedisPayloadCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisPayloadCache(ctx context.Context, cfg RedisConfig) (*RedisPayloadCache, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = "match-analysis:payload:"
	}

	return &RedisPayloadCache{client: client, ttl: cfg.TTL, prefix: prefix}, nil
}

func (c *RedisPayloadCache) GetPayload(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, true, nil
}

func (c *RedisPayloadCache) SetPayload(ctx context.Context, key string, raw []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisPayloadCache) Close() error {
	return c.client.Close()
}
