// Package cache provides a byte-budgeted LRU for synthesized audio.
// Narration replays the same segments over and over, so keeping recent
// PCM around saves the synthesis round trip.
package cache

import (
	"container/list"
	"errors"
	"sync"
)

// ErrTooLarge is returned when a single value exceeds the cache budget.
var ErrTooLarge = errors.New("cache: value larger than capacity")

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64

	// Size is the total bytes held, Items the entry count.
	Size  int64
	Items int
}

// Cache is a thread-safe LRU keyed by string, bounded by total value
// bytes rather than entry count. Callers must not mutate a value after
// Put or the slice returned by Get.
type Cache struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	items    map[string]*list.Element
	order    *list.List // front is most recently used

	hits      int64
	misses    int64
	evictions int64
}

type entry struct {
	key  string
	data []byte
}

// New returns a cache holding at most capacity bytes of values.
func New(capacity int64) *Cache {
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*entry).data, true
}

// Put stores value under key, evicting least recently used entries
// until it fits. A value bigger than the whole budget is refused.
func (c *Cache) Put(key string, value []byte) error {
	n := int64(len(value))
	if n > c.capacity {
		return ErrTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry)
		c.size += n - int64(len(e.data))
		e.data = value
		c.order.MoveToFront(elem)
	} else {
		c.items[key] = c.order.PushFront(&entry{key: key, data: value})
		c.size += n
	}

	for c.size > c.capacity {
		c.evictOldest()
	}
	return nil
}

// evictOldest drops the back of the order list. Caller holds mu.
func (c *Cache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	e := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.items, e.key)
	c.size -= int64(len(e.data))
	c.evictions++
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the total bytes held.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Clear drops every entry. Counters survive so a long-lived cache can
// still report lifetime hit rates.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.size = 0
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.size,
		Items:     len(c.items),
	}
}
