package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "llmrouter:settings"

// RedisBackend stores the record under a single Redis key, so several
// router instances can share one configuration.
type RedisBackend struct {
	client *redis.Client
	key    string
	owned  bool
}

// RedisBackendConfig configures the Redis backend.
type RedisBackendConfig struct {
	Addr     string
	Password string
	DB       int

	// Key is the Redis key holding the record.
	// Default: "llmrouter:settings"
	Key string
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, cfg RedisBackendConfig) (*RedisBackend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	b := NewRedisBackendFromClient(client, cfg.Key)
	b.owned = true
	return b, nil
}

// NewRedisBackendFromClient wraps an existing client. The client is not
// closed by Close.
func NewRedisBackendFromClient(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{client: client, key: key}
}

// Location implements Backend.
func (b *RedisBackend) Location() string {
	return fmt.Sprintf("redis://%s/%d#%s", b.client.Options().Addr, b.client.Options().DB, b.key)
}

// Read implements Backend.
func (b *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return data, nil
}

// Write implements Backend.
func (b *RedisBackend) Write(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return &PersistenceError{Location: b.Location(), Op: "set", Cause: err}
	}
	return nil
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	if !b.owned {
		return nil
	}
	return b.client.Close()
}
