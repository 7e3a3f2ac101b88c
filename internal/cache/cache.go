// Package cache provides a bounded in-memory LRU cache with per-entry
// time-based expiry. It fronts the external metadata providers so
// repeat lookups within the expiry window skip the network.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a fixed-capacity least-recently-used cache with TTL expiry.
// Entries past their deadline are treated as absent even while still
// resident. Safe for concurrent use.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently used
	items    map[string]*list.Element

	// now is swapped in tests to control expiry.
	now func() time.Time
}

type entry[V any] struct {
	key      string
	value    V
	deadline time.Time
}

// New creates a cache holding at most capacity entries, each valid for ttl.
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns the cached value for key. A hit refreshes the entry's
// recency. Expired entries are dropped lazily and report a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}

	ent := el.Value.(*entry[V])
	if c.now().After(ent.deadline) {
		c.order.Remove(el)
		delete(c.items, key)
		return zero, false
	}

	c.order.MoveToFront(el)
	return ent.value, true
}

// Set stores a value under key, evicting the least-recently-used entry
// when the cache is at capacity. Setting an existing key refreshes both
// its value and its deadline.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.now().Add(c.ttl)

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.deadline = deadline
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry[V]).key)
		}
	}

	el := c.order.PushFront(&entry[V]{key: key, value: value, deadline: deadline})
	c.items[key] = el
}

// Len reports the number of resident entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
