// Package statediff implements a change-gated property cache.
//
// Every stateful component of the session routes incoming property
// batches through a Cache to decide whether an observer notification
// should fire. The cache holds the last observed value per property key
// and reports a change only when the incoming value differs; the stored
// value is updated unconditionally so redundant re-announcements from
// the transport are absorbed.
package statediff

import (
	"reflect"
	"sync"
)

// Cache tracks the last observed value for each property key of one
// entity. A Cache owns no identity of its own; callers hold one per
// tracked entity instance.
type Cache struct {
	mu     sync.Mutex
	values map[string]any
}

// NewCache returns an empty property cache.
func NewCache() *Cache {
	return &Cache{values: make(map[string]any)}
}

// Apply records value under key and reports whether it differs from the
// previously cached value. The cache is always updated, even when the
// value is unchanged. Updates to one key never interleave with another
// update to the same key.
func (c *Cache) Apply(key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.apply(key, value)
}

// ApplyFields decomposes a composite bundle into its constituent
// sub-fields and diffs each one against its own cached sub-field, keyed
// as "<key>.<field>". It reports whether any sub-field changed, so a
// notification for the containing key can be built once per batch.
func (c *Cache) ApplyFields(key string, fields map[string]any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var changed bool
	for field, value := range fields {
		if c.apply(key+"."+field, value) {
			changed = true
		}
	}

	return changed
}

// Seed primes the cache with a snapshot without reporting changes.
// Used when an entity is created and its current properties are fetched.
func (c *Cache) Seed(values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range values {
		c.values[key] = normalize(value)
	}
}

// Value returns the cached value for the provided key.
func (c *Cache) Value(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.values[key]

	return value, ok
}

// Forget drops the cached value for the provided key.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)
}

func (c *Cache) apply(key string, value any) bool {
	normalized := normalize(value)

	cached, ok := c.values[key]
	c.values[key] = normalized

	if !ok {
		return true
	}

	return !equal(cached, normalized)
}

// normalize widens numeric values to a canonical type so that the same
// logical value arriving with differing transport-assigned widths does
// not register as a change.
func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case uint64:
		return v
	case float32:
		return float64(v)
	}

	return value
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}

	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}

	return reflect.DeepEqual(a, b)
}
