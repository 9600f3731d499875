package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the NonceStore interface
type RedisStore struct {
	client *redis.Client
	prefix string
}

type redisRecord struct {
	Nonce     string `json:"nonce"`
	ExpiresAt int64  `json:"expires_at"` // Unix milliseconds
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client) ports.NonceStore {
	return &RedisStore{
		client: client,
		prefix: "walletauth:nonce:",
	}
}

// Put stores the nonce record under the address key with expiration
func (s *RedisStore) Put(ctx context.Context, address string, record core.NonceRecord, ttl time.Duration) error {
	payload, err := json.Marshal(redisRecord{
		Nonce:     record.Nonce,
		ExpiresAt: record.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal nonce record: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+address, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store nonce: %w", err)
	}

	return nil
}

// Take reads and deletes the nonce record in a single GETDEL
func (s *RedisStore) Take(ctx context.Context, address string) (core.NonceRecord, bool, error) {
	val, err := s.client.GetDel(ctx, s.prefix+address).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.NonceRecord{}, false, nil
	}
	if err != nil {
		return core.NonceRecord{}, false, fmt.Errorf("failed to take nonce: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return core.NonceRecord{}, false, fmt.Errorf("failed to unmarshal nonce record: %w", err)
	}

	return core.NonceRecord{
		Nonce:     rec.Nonce,
		ExpiresAt: time.UnixMilli(rec.ExpiresAt),
	}, true, nil
}
