// internal/infrastructure/database/redis/cart_storage.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// kvCmdable is the subset of redis commands the cart storage needs
type kvCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CartStorage keeps cart records as JSON strings with a sliding TTL
type CartStorage struct {
	store kvCmdable
	ttl   time.Duration
}

// NewCartStorage creates cart storage on top of the client
func NewCartStorage(client *Client, ttl time.Duration) *CartStorage {
	return &CartStorage{store: client.Redis, ttl: ttl}
}

// Load returns the stored record, or nil when the key is absent
func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.store.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Save writes the record and refreshes its expiry
func (s *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.store.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
