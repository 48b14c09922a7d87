package cache

import (
	"context"
	"fmt"

	"cisleuth/src/config"
)

// OpenStorage builds the Storage selected by cfg.CacheBackend. The returned
// close function releases any connection and is never nil.
func OpenStorage(ctx context.Context, cfg *config.Config) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CacheBackend {
	case config.BackendMemory:
		return NewMemoryStorage(), noop, nil
	case config.BackendRedis:
		s, err := NewRedisStorage(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		s, err := NewPostgresStorage(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.BackendDir, "":
		s, err := NewDirStorage(cfg.CacheDir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
