package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pos "github.com/siscom/backend/internal/application/pos"
	"github.com/siscom/backend/internal/infrastructure/config"
)

// RedisReceiptStore caches PDV sale receipts in Redis so retried requests
// hit the same receipt regardless of which instance serves them.
type RedisReceiptStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReceiptStore creates a new Redis-based receipt store
func NewRedisReceiptStore(cfg config.RedisConfig) (*RedisReceiptStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReceiptStore{
		client:    client,
		keyPrefix: "pdv:receipt:",
	}, nil
}

// NewRedisReceiptStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisReceiptStoreWithClient(client *redis.Client, keyPrefix string) *RedisReceiptStore {
	if keyPrefix == "" {
		keyPrefix = "pdv:receipt:"
	}
	return &RedisReceiptStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached value and whether the key was present
func (s *RedisReceiptStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read receipt: %w", err)
	}
	return value, true, nil
}

// Set stores the value under the key for the given TTL
func (s *RedisReceiptStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store receipt: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisReceiptStore) Close() error {
	return s.client.Close()
}

var _ pos.IdempotencyStore = (*RedisReceiptStore)(nil)
