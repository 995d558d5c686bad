// Package cache provides explicit TTL-bound caches for catalog data. Caches
// are constructed once and injected; nothing in this package is a
// package-level singleton.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xenking/teeprint/internal/domain/discount"
)

// ErrMiss is returned by a RuleCache when no cached snapshot exists.
var ErrMiss = errors.New("cache miss")

// RuleCache stores a snapshot of the discount-rule catalog for its TTL.
type RuleCache interface {
	Get(ctx context.Context) ([]discount.Rule, error)
	Set(ctx context.Context, rules []discount.Rule) error
}

// RedisRuleCache implements RuleCache on a Redis key holding the
// JSON-serialized rule list.
type RedisRuleCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisRuleCache creates a RedisRuleCache with the given TTL.
func NewRedisRuleCache(rdb *redis.Client, ttl time.Duration) *RedisRuleCache {
	return &RedisRuleCache{rdb: rdb, key: "teeprint:discount-rules", ttl: ttl}
}

// Get returns the cached rule snapshot, or ErrMiss when the key is absent.
func (c *RedisRuleCache) Get(ctx context.Context) ([]discount.Rule, error) {
	payload, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, errors.Wrap(err, "get cached rules")
	}

	var rules []discount.Rule
	if err := json.Unmarshal(payload, &rules); err != nil {
		return nil, errors.Wrap(err, "decode cached rules")
	}
	return rules, nil
}

// Set stores the rule snapshot under the cache TTL.
func (c *RedisRuleCache) Set(ctx context.Context, rules []discount.Rule) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return errors.Wrap(err, "encode rules")
	}
	if err := c.rdb.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "set cached rules")
	}
	return nil
}

// CachedRuleRepository is a read-through decorator around a
// discount.Repository. Cache failures degrade to the underlying repository:
// a broken cache slows resolution down but never breaks it.
type CachedRuleRepository struct {
	repo  discount.Repository
	cache RuleCache
	lg    *zap.Logger
}

var _ discount.Repository = (*CachedRuleRepository)(nil)

// NewCachedRuleRepository wraps repo with the given cache.
func NewCachedRuleRepository(repo discount.Repository, cache RuleCache, lg *zap.Logger) *CachedRuleRepository {
	return &CachedRuleRepository{repo: repo, cache: cache, lg: lg}
}

// ListRules serves the rule catalog from cache when possible, falling back to
// the repository and repopulating the cache on a miss.
func (r *CachedRuleRepository) ListRules(ctx context.Context) ([]discount.Rule, error) {
	rules, err := r.cache.Get(ctx)
	if err == nil {
		return rules, nil
	}
	if !errors.Is(err, ErrMiss) {
		r.lg.Warn("rule cache read failed", zap.Error(err))
	}

	rules, err = r.repo.ListRules(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, rules); err != nil {
		r.lg.Warn("rule cache write failed", zap.Error(err))
	}
	return rules, nil
}
