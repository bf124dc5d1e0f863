package asset

import "fmt"

// Cache is the interface ImportSystem uses to avoid re-reading and
// re-decoding a sidecar it has already imported once.
type Cache[T any] interface {
	GetIndex(key string) (int, bool)
	GetItem(index int) *T
	Register(key string, item T) (int, error)
}

var _ Cache[MetaFile] = &SimpleCache[MetaFile]{}

// SimpleCache is a bounded, insertion-ordered cache keyed by string,
// grounded on the teacher's own `SimpleCache[T]` (api.go/cache.go): a flat
// slice of items plus a key→index map, refusing new entries once
// maxCapacity is reached rather than evicting.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

// NewCache returns an empty SimpleCache bounded to cap entries.
func NewCache[T any](cap int) *SimpleCache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if idx, ok := c.itemIndices[key]; ok {
		c.items[idx] = item
		return idx, nil
	}
	if len(c.items) >= c.maxCapacity {
		return -1, fmt.Errorf("asset: cache at maximum capacity (%d)", c.maxCapacity)
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

// Clear empties the cache, keeping its capacity.
func (c *SimpleCache[T]) Clear() {
	c.items = c.items[:0]
	c.itemIndices = make(map[string]int)
}
