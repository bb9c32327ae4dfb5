package cache

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrKeyExists = errors.New("key already exists in cache")

// Cache is a weighted LRU. Every entry carries a weight, and inserting past
// the budget evicts the least recently inserted or retrieved entries until
// the total weight fits again.
type Cache[V any] interface {
	GetWeight() int
	Insert(key string, value V, weight int) error
	Retrieve(key string) (V, bool)
	Len() int
	Clear()
}

type entry[V any] struct {
	next   *entry[V]
	prev   *entry[V]
	key    string
	value  V
	weight int
}

type cache[V any] struct {
	mu sync.Mutex

	// head is the most recently used entry, tail the eviction candidate
	head *entry[V]
	tail *entry[V]

	lookup map[string]*entry[V]
	weight int
	budget int

	log *logrus.Entry
}

// NewCache returns an empty cache that holds at most budget total weight.
func NewCache[V any](budget int) Cache[V] {
	return &cache[V]{
		lookup: make(map[string]*entry[V]),
		budget: budget,
		log:    logrus.StandardLogger().WithField("type", "cache"),
	}
}

func (c *cache[V]) GetWeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.weight
}

func (c *cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lookup)
}

// Insert adds a new entry at the front of the recency list. Existing keys are
// rejected with ErrKeyExists.
func (c *cache[V]) Insert(key string, value V, weight int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lookup[key]; ok {
		return ErrKeyExists
	}

	e := &entry[V]{
		key:    key,
		value:  value,
		weight: weight,
	}
	c.pushFront(e)
	c.lookup[key] = e
	c.weight += weight

	for c.weight > c.budget && c.tail != nil {
		evicted := c.tail
		c.unlink(evicted)
		delete(c.lookup, evicted.key)
		c.weight -= evicted.weight

		c.log.WithFields(logrus.Fields{
			"key":          evicted.key,
			"weight":       evicted.weight,
			"spare_weight": c.budget - c.weight,
		}).Debug("cache eviction")
	}

	return nil
}

// Retrieve returns the entry for key and marks it most recently used.
func (c *cache[V]) Retrieve(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookup[key]
	if !ok {
		var zero V
		return zero, false
	}

	if e != c.head {
		c.unlink(e)
		c.pushFront(e)
	}

	return e.value, true
}

func (c *cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = nil
	c.tail = nil
	c.lookup = make(map[string]*entry[V])
	c.weight = 0
}

func (c *cache[V]) pushFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *cache[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.next = nil
	e.prev = nil
}
