// Package cache stores rendered schedule reads. Every entry belongs to a
// generation; bumping the generation drops all of them at once.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Generation identifies one cache epoch. Invalidate starts a new one.
type Generation int64

// Cache is a read-through store for schedule views. A reader passes the
// generation returned by Get to Set, so a value loaded before an
// invalidation is never served after it.
type Cache interface {
	// Get decodes the value under key into dest and reports whether it was
	// found, along with the generation it looked in
	Get(ctx context.Context, key string, dest interface{}) (Generation, bool, error)
	// Set stores value under key in gen. A stale gen is never visible.
	Set(ctx context.Context, key string, gen Generation, value interface{}) error
	// Invalidate drops every cached entry
	Invalidate(ctx context.Context) error
}

const generationKey = "schedule:gen"

// Key joins parts into a cache key, e.g. Key("teacher", 1, 3) = "teacher:1:3"
func Key(parts ...interface{}) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprint(p)
	}
	return key
}

// Redis caches JSON values in Redis
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect opens a Redis client and checks it with PING
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedis creates a Redis cache. Entries expire after ttl.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) generation(ctx context.Context) (Generation, error) {
	v, err := r.client.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	gen, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse cache generation: %w", err)
	}
	return Generation(gen), nil
}

// entryKey is the namespaced key of key in gen. Entries written under an
// old generation are never read again and expire with the TTL.
func entryKey(gen Generation, key string) string {
	return fmt.Sprintf("schedule:v%d:%s", gen, key)
}

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (Generation, bool, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		return 0, false, err
	}

	data, err := r.client.Get(ctx, entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, fmt.Errorf("redis GET failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return gen, false, fmt.Errorf("failed to decode cached value: %w", err)
	}
	return gen, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, gen Generation, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := r.client.Set(ctx, entryKey(gen, key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis INCR failed: %w", err)
	}
	return nil
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (Generation, bool, error) {
	return 0, false, nil
}

func (Noop) Set(context.Context, string, Generation, interface{}) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }

// Memory is an in-process cache with the same JSON round trip as Redis
type Memory struct {
	mu      sync.RWMutex
	gen     Generation
	entries map[string][]byte
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (Generation, bool, error) {
	m.mu.RLock()
	gen := m.gen
	data, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return gen, false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return gen, false, fmt.Errorf("failed to decode cached value: %w", err)
	}
	return gen, true, nil
}

// Set drops the value when gen is older than the current generation
func (m *Memory) Set(_ context.Context, key string, gen Generation, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil
	}
	m.entries[key] = data
	return nil
}

func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	m.gen++
	m.entries = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}

// Len reports the number of cached entries
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
