package cache

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is a string-keyed cache. Values handed to Set must not be mutated afterwards.
type Store[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Clear()
	Len() int
}

// Stats is a snapshot of cache counters
type Stats struct {
	Entries   int    `json:"entries"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// LRU is a bounded in-memory Store. Least recently used entries are evicted once
// capacity is reached; entries also expire after the TTL when one is set.
type LRU[V any] struct {
	entries   *expirable.LRU[string, V]
	capacity  int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	clearing  atomic.Bool
}

// NewLRU creates a cache holding at most capacity entries (0 means unbounded)
// that expire after ttl (0 means never).
func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity < 0 {
		capacity = 0
	}
	c := &LRU[V]{capacity: capacity}
	c.entries = expirable.NewLRU[string, V](capacity, func(string, V) {
		if !c.clearing.Load() {
			c.evictions.Add(1)
		}
	}, ttl)
	return c
}

func (c *LRU[V]) Get(key string) (V, bool) {
	value, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, ok
}

// Set stores value under key, replacing any previous value
func (c *LRU[V]) Set(key string, value V) {
	c.entries.Add(key, value)
}

// Clear drops every entry. Counters are kept.
func (c *LRU[V]) Clear() {
	c.clearing.Store(true)
	defer c.clearing.Store(false)
	c.entries.Purge()
}

func (c *LRU[V]) Len() int {
	return c.entries.Len()
}

// Stats returns the current counters
func (c *LRU[V]) Stats() Stats {
	return Stats{
		Entries:   c.entries.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Key returns the deterministic JSON encoding of request parameters.
// Struct fields encode in declaration order, so equal parameter sets give equal keys.
func Key(params interface{}) string {
	b, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%#v", params)
	}
	return string(b)
}

// StatsOf reports counters for stores that track them, and entry count otherwise
func StatsOf[V any](s Store[V]) Stats {
	if c, ok := s.(interface{ Stats() Stats }); ok {
		return c.Stats()
	}
	return Stats{Entries: s.Len()}
}
