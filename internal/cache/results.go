// Package cache provides in-process caching for lookup results.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Results is a thread-safe, TTL-bounded LRU keyed by query. The registry
// rate-limits aggressively, so repeat queries inside the TTL are answered
// from memory instead of a second scrape. Entries are in-process only;
// nothing outlives the server.
type Results[V any] struct {
	lru *expirable.LRU[string, V]
}

// NewResults creates a cache holding at most maxItems entries, each expiring
// ttl after insertion.
func NewResults[V any](maxItems int, ttl time.Duration) *Results[V] {
	return &Results[V]{lru: expirable.NewLRU[string, V](maxItems, nil, ttl)}
}

// Get retrieves an unexpired entry by key.
func (c *Results[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Put adds or refreshes an entry.
func (c *Results[V]) Put(key string, value V) {
	c.lru.Add(key, value)
}

// Len returns the current number of live entries.
func (c *Results[V]) Len() int {
	return c.lru.Len()
}
