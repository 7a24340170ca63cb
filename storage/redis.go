package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStorage implements Store on Redis string keys
type RedisStorage struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisStorage connects to Redis at addr and pings it
func NewRedisStorage(ctx context.Context, addr, prefix string) (*RedisStorage, error) {
	if addr == "" {
		return nil, errors.New("missing redis address")
	}
	if prefix == "" {
		prefix = "pcosguard"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStorage{rdb: rdb, prefix: prefix}, nil
}

func (s *RedisStorage) redisKey(key string) string {
	return s.prefix + ":" + key
}

// Get returns the value stored for key
func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Put sets the value for key without expiry
func (s *RedisStorage) Put(ctx context.Context, key string, data []byte) error {
	if err := s.rdb.Set(ctx, s.redisKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
