package lookup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func openingKey(k Key) string { return "ai:opening:" + k.String() }

// Redis stores opening moves as JSON lists under ai:opening:* keys.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to Redis from a connection URL.
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

// NewRedisFromClient wraps an existing redis.Client for use in tests.
func NewRedisFromClient(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Lookup(ctx context.Context, key Key) ([]string, error) {
	data, err := r.rdb.Get(ctx, openingKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get opening %s: %w", key, err)
	}
	var hexes []string
	if err := json.Unmarshal(data, &hexes); err != nil {
		return nil, fmt.Errorf("decode opening %s: %w", key, err)
	}
	return hexes, nil
}

func (r *Redis) Store(ctx context.Context, key Key, hexes []string) error {
	data, err := json.Marshal(hexes)
	if err != nil {
		return fmt.Errorf("encode opening %s: %w", key, err)
	}
	if err := r.rdb.Set(ctx, openingKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("set opening %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
