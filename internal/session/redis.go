package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RedisConfig struct {
	URL string
	// Prefix namespaces the keys, e.g. one prefix per workstation.
	Prefix       string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
}

// RedisStore shares one session between several console processes.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zerolog.Logger
}

func NewRedisStore(ctx context.Context, config RedisConfig, logger *zerolog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.MaxRetries > 0 {
		opts.MaxRetries = config.MaxRetries
	}
	if config.RetryBackoff > 0 {
		opts.MinRetryBackoff = config.RetryBackoff
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, config.Prefix, logger), nil
}

func NewRedisStoreFromClient(client *redis.Client, prefix string, logger *zerolog.Logger) *RedisStore {
	if prefix == "" {
		prefix = "hospitalis:session:"
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.prefix + key
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete session keys: %w", err)
	}
	s.logger.Debug().Strs("keys", keys).Msg("session keys deleted")
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
