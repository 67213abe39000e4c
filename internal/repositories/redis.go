package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dzx/internal/shared"
	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps the session token in Redis so several processes can
// share one login.
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

// NewRedisTokenStore stores the token under "{prefix}:arl".
func NewRedisTokenStore(client *redis.Client, prefix string) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: shared.OrString(prefix, "dzx") + ":" + SessionTokenKey}
}

// ConnectRedis opens a client from the storage config and pings it.
func ConnectRedis(ctx context.Context, cfg shared.StorageConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Key is the Redis key holding the token.
func (s *RedisTokenStore) Key() string {
	return s.key
}

// ReadToken returns the stored session token, or "" when none was saved.
func (s *RedisTokenStore) ReadToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

// SaveToken stores the session token without expiry.
func (s *RedisTokenStore) SaveToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}
