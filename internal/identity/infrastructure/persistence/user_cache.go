package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// DefaultUserCacheTTL bounds how long a cached user may be served.
const DefaultUserCacheTTL = 5 * time.Minute

// UserCache stores user snapshots by id.
type UserCache interface {
	// Get reports false when the user is not cached.
	Get(ctx context.Context, id uuid.UUID) (domain.UserSnapshot, bool, error)
	Set(ctx context.Context, snapshot domain.UserSnapshot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisUserCache keeps snapshots as JSON under a namespaced key.
type RedisUserCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

var _ UserCache = (*RedisUserCache)(nil)

// NewRedisUserCache creates a Redis backed cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	return &RedisUserCache{client: client, namespace: "digibank:user:", ttl: ttl}
}

func (c *RedisUserCache) key(id uuid.UUID) string {
	return c.namespace + id.String()
}

func (c *RedisUserCache) Get(ctx context.Context, id uuid.UUID) (domain.UserSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserSnapshot{}, false, nil
	}
	if err != nil {
		return domain.UserSnapshot{}, false, fmt.Errorf("redis get user %s: %w", id, err)
	}

	var snapshot domain.UserSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.UserSnapshot{}, false, fmt.Errorf("decode cached user %s: %w", id, err)
	}
	return snapshot, true, nil
}

func (c *RedisUserCache) Set(ctx context.Context, snapshot domain.UserSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(snapshot.ID), raw, c.ttl).Err()
}

func (c *RedisUserCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

// MemoryUserCache keeps snapshots in process. It backs local mode.
type MemoryUserCache struct {
	cache *gocache.Cache
}

var _ UserCache = (*MemoryUserCache)(nil)

// NewMemoryUserCache creates an in-process cache that purges expired
// entries every two TTLs.
func NewMemoryUserCache(ttl time.Duration) *MemoryUserCache {
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	return &MemoryUserCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryUserCache) Get(_ context.Context, id uuid.UUID) (domain.UserSnapshot, bool, error) {
	v, ok := c.cache.Get(id.String())
	if !ok {
		return domain.UserSnapshot{}, false, nil
	}
	return v.(domain.UserSnapshot), true, nil
}

func (c *MemoryUserCache) Set(_ context.Context, snapshot domain.UserSnapshot) error {
	c.cache.SetDefault(snapshot.ID.String(), snapshot)
	return nil
}

func (c *MemoryUserCache) Delete(_ context.Context, id uuid.UUID) error {
	c.cache.Delete(id.String())
	return nil
}
