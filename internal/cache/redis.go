// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dialfa/insight/internal/config"
	"github.com/dialfa/insight/internal/logging"
)

// redisOpTimeout bounds every Redis operation so a hung backend cannot hold
// a request longer than this before degrading to a miss.
const redisOpTimeout = 5 * time.Second

// scanBatchSize is the COUNT hint for SCAN during prefix invalidation.
const scanBatchSize = 500

// RedisStore is a Redis-backed Store for multi-instance deployments. All
// operations go through a circuit breaker: once Redis has failed repeatedly
// the breaker opens and reads short-circuit to misses without waiting on
// the network.
type RedisStore struct {
	client     *redis.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	keyPrefix  string
	defaultTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore connects to the Redis instance named by cfg.RedisURL.
// Connection failure at startup is not fatal: the store is returned anyway
// and degrades to misses until Redis becomes reachable.
func NewRedisStore(cfg config.CacheConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opts.DB = cfg.RedisDB
	}

	client := redis.NewClient(opts)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "cache-redis",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Cache circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			// A missing key is a normal outcome, not a backend failure.
			return err == nil || errors.Is(err, redis.Nil)
		},
	})

	s := &RedisStore{
		client:     client,
		breaker:    breaker,
		keyPrefix:  cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Msg("Redis unreachable at startup, cache will degrade to misses")
	}
	return s, nil
}

// Get returns the value for key. Backend failures, open breaker, and absent
// keys all report as misses.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.breaker.Execute(func() ([]byte, error) {
		opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		return s.client.Get(opCtx, s.keyPrefix+key).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, gobreaker.ErrOpenState) {
			logging.Warn().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
		}
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return data, true
}

// Set stores value under key. Failures are logged and swallowed: the next
// read simply misses.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	_, err := s.breaker.Execute(func() ([]byte, error) {
		opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		return nil, s.client.Set(opCtx, s.keyPrefix+key, value, ttl).Err()
	})
	if err != nil && !errors.Is(err, gobreaker.ErrOpenState) {
		logging.Warn().Err(err).Str("key", key).Msg("Cache set failed")
	}
}

// Delete removes a single key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := s.client.Del(opCtx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every key starting with prefix using incremental
// SCAN, so invalidating a large module never blocks Redis the way KEYS
// would.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	pattern := s.keyPrefix + prefix + "*"
	removed := 0
	iter := s.client.Scan(opCtx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(opCtx) {
		if err := s.client.Del(opCtx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("cache delete by prefix %s: %w", prefix, err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("cache scan %s: %w", prefix, err)
	}
	return removed, nil
}

// Clear removes all entries carrying this store's key prefix. It does not
// FLUSHDB so the dashboard can share a Redis database with other services.
func (s *RedisStore) Clear(ctx context.Context) (int, error) {
	return s.DeleteByPrefix(ctx, "")
}

// Stats returns hit/miss counters tracked client-side plus the current key
// count from Redis. When Redis is unreachable the key count is reported
// as zero.
func (s *RedisStore) Stats(ctx context.Context) Stats {
	stats := Stats{
		Backend: "redis",
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	iter := s.client.Scan(opCtx, 0, s.keyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(opCtx) {
		stats.Keys++
	}
	if err := iter.Err(); err != nil {
		logging.Warn().Err(err).Msg("Cache stats key count failed")
	}
	return stats
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
