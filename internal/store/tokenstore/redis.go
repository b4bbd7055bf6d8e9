package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "debts:token:"

type redisStore struct {
	client *redis.Client
	key    string
}

// NewRedis constructs a redis-backed token store. The token is kept without TTL.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &redisStore{client: client, key: prefix + SlotName}, nil
}

func (s *redisStore) Read(ctx context.Context) (string, bool, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, token != "", nil
}

func (s *redisStore) Write(ctx context.Context, token string) error {
	token = normalize(token)
	if token == "" {
		return s.client.Del(ctx, s.key).Err()
	}
	return s.client.Set(ctx, s.key, token, 0).Err()
}

func (s *redisStore) Source() string { return DriverRedis }

func (s *redisStore) Close() error { return s.client.Close() }
