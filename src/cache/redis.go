package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisPrefix = "cisleuth"

// RedisStorage keeps entries in Redis with no expiry.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage connects to addr and checks the connection.
func NewRedisStorage(ctx context.Context, addr string) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStorage{client: client}, nil
}

func redisKey(key string, kind Kind) string {
	return fmt.Sprintf("%s:%s:%s", redisPrefix, kind, key)
}

func (s *RedisStorage) Has(ctx context.Context, key string, kind Kind) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(key, kind)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStorage) Read(ctx context.Context, key string, kind Kind) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKey(key, kind)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *RedisStorage) Write(ctx context.Context, key string, kind Kind, data []byte) error {
	return s.client.Set(ctx, redisKey(key, kind), data, 0).Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
