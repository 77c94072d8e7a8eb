// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/internal/models"
)

const (
	// categoryKeyPrefix is the Valkey key prefix for cached category lists.
	categoryKeyPrefix = "categories:"

	// DefaultCategoryTTL is how long a category list stays cached.
	DefaultCategoryTTL = 10 * time.Minute
)

// CategoryCache holds JSON-encoded category lists keyed by type. Every
// category write must call InvalidateAll since one write can change the
// list of its own type and the unfiltered list.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category cache backed by the given client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl == 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// CategoryKey returns the cache key for a list filtered by typ. The empty
// type names the unfiltered list.
func CategoryKey(typ models.CategoryType) string {
	if typ == "" {
		return categoryKeyPrefix + "all"
	}
	return categoryKeyPrefix + string(typ)
}

// Get returns the cached list for typ. Errors are logged and reported as a
// miss so a Valkey outage only costs a database query.
func (cc *CategoryCache) Get(ctx context.Context, typ models.CategoryType) ([]models.Category, bool) {
	key := CategoryKey(typ)
	val, err := cc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("category cache get error", "key", key, "error", err)
		return nil, false
	}

	var cats []models.Category
	if err := json.Unmarshal(val, &cats); err != nil {
		slog.Warn("category cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("category cache hit", "key", key)
	return cats, true
}

// Set stores the list for typ with the configured TTL.
func (cc *CategoryCache) Set(ctx context.Context, typ models.CategoryType, cats []models.Category) {
	key := CategoryKey(typ)
	val, err := json.Marshal(cats)
	if err != nil {
		slog.Warn("category cache encode error", "key", key, "error", err)
		return
	}
	if err := cc.client.Set(ctx, key, val, cc.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "key", key, "error", err)
	}
}

// InvalidateAll drops every cached category list.
func (cc *CategoryCache) InvalidateAll(ctx context.Context) {
	keys := []string{CategoryKey("")}
	for _, typ := range models.CategoryTypes {
		keys = append(keys, CategoryKey(typ))
	}
	if err := cc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("category cache invalidate error", "error", err)
		return
	}
	slog.Debug("category cache invalidated")
}
