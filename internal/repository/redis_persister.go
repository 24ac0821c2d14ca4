package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPersister stores the document under a single Redis key without expiry.
type RedisPersister struct {
	client *redis.Client
	key    string
}

// NewRedisPersister constructs the persister.
func NewRedisPersister(client *redis.Client, key string) *RedisPersister {
	return &RedisPersister{client: client, key: key}
}

// Load fetches the encoded document.
func (p *RedisPersister) Load(ctx context.Context) ([]byte, error) {
	if p.client == nil {
		return nil, errors.New("redis client not configured")
	}
	raw, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", p.key, err)
	}
	return raw, nil
}

// Save overwrites the encoded document.
func (p *RedisPersister) Save(ctx context.Context, raw []byte) error {
	if p.client == nil {
		return errors.New("redis client not configured")
	}
	if err := p.client.Set(ctx, p.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", p.key, err)
	}
	return nil
}

// Location names the Redis key.
func (p *RedisPersister) Location() string {
	return "redis://" + p.key
}

// Close releases the underlying Redis connection if present.
func (p *RedisPersister) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
