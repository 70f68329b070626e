// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides Valkey (Redis-compatible) client initialization
// and a rendered-page cache for the public site. Cached HTML keeps page
// views off the database; entries are invalidated when the editor saves.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect creates a Valkey client and verifies the connection with a ping.
func Connect(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache caches rendered public-page HTML, keyed by site and page.
// All methods are nil-receiver safe so the app runs without Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Key builds the cache key for one page of one site.
func Key(siteID, page string) string {
	return pageKeyPrefix + siteID + ":" + page
}

// Get retrieves cached HTML for a site page. Returns (nil, false) on miss.
func (pc *PageCache) Get(ctx context.Context, siteID, page string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, Key(siteID, page)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "site_id", siteID, "page", page, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "site_id", siteID, "page", page)
	return val, true
}

// Set stores rendered HTML for a site page with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, siteID, page string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, Key(siteID, page), html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "site_id", siteID, "page", page, "error", err)
	}
}

// InvalidateSite removes every cached page of a site. A save can flip a
// page's active flag or display name, which changes the navigation bar
// on every other page, so the whole site is dropped.
func (pc *PageCache) InvalidateSite(ctx context.Context, siteID string) {
	if pc == nil {
		return
	}

	pattern := pageKeyPrefix + siteID + ":*"
	var cursor uint64
	var deleted int
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "site_id", siteID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache del error", "site_id", siteID, "error", err)
				return
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("page cache invalidated", "site_id", siteID, "deleted", deleted)
}
