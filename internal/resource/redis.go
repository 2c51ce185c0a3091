// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore serves resources from Redis using the same key layout as
// BadgerStore, optionally under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// NewRedisClient creates a client and verifies connectivity.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return client, nil
}

// NewRedisStore creates a store over client. The caller owns client.
// A non-empty prefix is separated from the key by a colon.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// redisKey is the full Redis key of a resource.
func (s *RedisStore) redisKey(kind Kind, name string) string {
	return s.prefix + key(kind, name)
}

// Fetch reads a resource.
func (s *RedisStore) Fetch(ctx context.Context, name string, kind Kind) (res *Resource, err error) {
	defer func(start time.Time) { observe("redis", kind, start, err) }(time.Now())

	data, err := s.client.Get(ctx, s.redisKey(kind, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}
	return decode(name, kind, data)
}

// Put stores a resource without expiry.
func (s *RedisStore) Put(ctx context.Context, name string, kind Kind, data []byte) error {
	if err := s.client.Set(ctx, s.redisKey(kind, name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}
