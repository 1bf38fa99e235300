// Package cache holds the process-local read cache shared by the query
// endpoints. Every entry is derived purely from the durable store or the
// upstream API, so dropping the whole cache is always safe; the webhook
// pipeline relies on that to invalidate coarsely.
package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type ReadCache struct {
	lru *expirable.LRU[string, any]
	ttl time.Duration
}

// New builds a TTL-bounded cache. Expired entries are never returned by Get.
func New(size int, ttl time.Duration) *ReadCache {
	return &ReadCache{
		lru: expirable.NewLRU[string, any](size, nil, ttl),
		ttl: ttl,
	}
}

func (c *ReadCache) Get(key string) (any, bool) {
	return c.lru.Get(key)
}

// Set stores or overwrites a value; expiry restarts from this call.
func (c *ReadCache) Set(key string, value any) {
	// Re-adding resets the entry's expiration clock.
	c.lru.Remove(key)
	c.lru.Add(key, value)
}

// InvalidatePrefix removes every entry of one endpoint family. Returns the
// number of removed entries.
func (c *ReadCache) InvalidatePrefix(prefix string) int {
	removed := 0
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			if c.lru.Remove(key) {
				removed++
			}
		}
	}
	return removed
}

// InvalidateAll drops the entire cache. This is the default strategy after
// an accepted webhook event: recomputing is cheap relative to serving stale
// reservation data.
func (c *ReadCache) InvalidateAll() {
	c.lru.Purge()
}

func (c *ReadCache) Len() int {
	return c.lru.Len()
}

func (c *ReadCache) TTL() time.Duration {
	return c.ttl
}

// Canonical cache keys per endpoint family. Parameters are already
// normalized (zero-padded dates) by the time keys are built.

func ReservasKey(from, to, listingID string) string {
	if listingID == "" {
		listingID = "all"
	}
	return "reservas_" + from + "_" + to + "_" + listingID
}

func CalendarioKey(mes string) string {
	return "calendario_" + mes
}

func RepasseKey(mes string, incluirLimpeza bool) string {
	return "repasse_" + mes + "_" + strconv.FormatBool(incluirLimpeza)
}

func UnidadesKey() string {
	return "unidades"
}
