package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key (e.g. "appsbar:").
	Prefix string
}

// RedisKV stores keys in Redis without expiry.
type RedisKV struct {
	client *redis.Client
	prefix string
}

// OpenRedisKV connects and verifies the connection with PING.
func OpenRedisKV(ctx context.Context, opts RedisOptions) (*RedisKV, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: ping failed: %w", addr, err)
	}
	return NewRedisKVWithClient(client, opts.Prefix), nil
}

// NewRedisKVWithClient wraps an existing client.
func NewRedisKVWithClient(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := kv.client.Get(ctx, kv.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	return kv.client.Set(ctx, kv.prefix+key, value, 0).Err()
}

func (kv *RedisKV) Delete(ctx context.Context, key string) error {
	return kv.client.Del(ctx, kv.prefix+key).Err()
}

func (kv *RedisKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(kv.prefix+prefix) + "*"
	out := []string{}
	iter := kv.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), kv.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (kv *RedisKV) Close() error {
	return kv.client.Close()
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
