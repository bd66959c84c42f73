package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/state"
	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/logger"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "naikai:client:"

// RedisStore keeps client states as JSON strings that expire after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	mylog  logger.Logger
}

// NewRedisStore connects to cfg.Addr and pings it.
func NewRedisStore(ctx context.Context, cfg *config.Redis, ttl time.Duration, mylog logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrRedisConn, err)
	}

	mylog.Action("redis_connected").Info("Connected to Redis", "addr", cfg.Addr)
	return &RedisStore{client: client, ttl: ttl, mylog: mylog}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, mylog logger.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, mylog: mylog}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*state.ClientState, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", core.ErrClientNotFound, id)
		}
		return nil, fmt.Errorf("load client state %s: %w", id, err)
	}

	var s state.ClientState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode client state %s: %w", id, err)
	}
	return &s, nil
}

// Save writes s and restarts its expiry.
func (r *RedisStore) Save(ctx context.Context, s *state.ClientState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode client state %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save client state %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete client state %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrClientNotFound, id)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func key(id string) string {
	return keyPrefix + id
}
