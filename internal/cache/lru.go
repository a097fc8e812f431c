// Package cache holds the reference-embedding caches injected into the
// scoring evaluator.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const DefaultLRUSize = 4096

// LRU is a bounded, concurrency-safe least-recently-used embedding cache
// with an optional per-entry TTL.
type LRU struct {
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List
}

type entry struct {
	key     string
	vec     []float32
	expires time.Time
}

// NewLRU creates a cache holding at most maxSize vectors. A zero ttl keeps
// entries until they are evicted by size.
func NewLRU(maxSize int, ttl time.Duration) *LRU {
	if maxSize <= 0 {
		maxSize = DefaultLRUSize
	}
	return &LRU{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *LRU) Get(_ context.Context, key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	if c.ttl > 0 && c.now().After(e.expires) {
		c.order.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return e.vec, true
}

func (c *LRU) Put(_ context.Context, key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		e := elem.Value.(*entry)
		e.vec, e.expires = vec, expires
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, vec: vec, expires: expires})
	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
}

// Len returns the number of cached vectors, expired ones included.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
