// Package cache implementa analytics.Cache sobre Redis con locks de bsm/redislock.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-ventas/internal/application/analytics"
	"github.com/jhoicas/pos-ventas/pkg/config"
)

var _ analytics.Cache = (*RedisCache)(nil)

// RedisCache caché de resultados y lock distribuido.
type RedisCache struct {
	rdb    *redis.Client
	locker *redislock.Client
	log    zerolog.Logger
}

// NewRedisClient conecta y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisCache construye la caché sobre un cliente ya conectado.
func NewRedisCache(rdb *redis.Client, log zerolog.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, locker: redislock.New(rdb), log: log}
}

// Get devuelve (nil, nil) si la clave no existe.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Lock obtiene el lock sin reintentos; si otro proceso lo tiene devuelve analytics.ErrCacheLocked.
func (c *RedisCache) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context), error) {
	lock, err := c.locker.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, analytics.ErrCacheLocked
		}
		return nil, fmt.Errorf("redis: lock %s: %w", key, err)
	}
	return func(ctx context.Context) {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			c.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock")
		}
	}, nil
}
