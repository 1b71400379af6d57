package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsdigest/config"
	"newsdigest/types"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the archive document under a single Redis key
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects and verifies connectivity with a PING
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	key := cfg.Key
	if key == "" {
		key = config.DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

// Close closes the underlying Redis client
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Load(ctx context.Context) (types.Archive, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Archive{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading redis key %s: %w", r.key, err)
	}
	return Decode(data)
}

func (r *RedisStore) Save(ctx context.Context, archive types.Archive) error {
	data, err := Encode(archive)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing redis key %s: %w", r.key, err)
	}
	return nil
}
