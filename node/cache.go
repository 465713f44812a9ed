package node

import (
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"rowgraph/internal/common"
)

// Cache keeps built trees per (type, column signature, key signature). Trees are never
// mutated once stored, so readers share them without locking.
type Cache struct {
	trees sync.Map
	size  atomic.Int64
}

type cacheKey struct {
	typ     reflect.Type
	columns string
	keys    string
}

func newCacheKey(t reflect.Type, columns, keys []string) cacheKey {
	// keys form a set, columns keep their order
	sorted := common.Map(keys, func(k string) string { return strings.ToLower(strings.TrimSpace(k)) })
	slices.Sort(sorted)

	return cacheKey{
		typ:     t,
		columns: strings.Join(common.Map(columns, strings.ToLower), "\x1f"),
		keys:    strings.Join(slices.Compact(sorted), "\x1f"),
	}
}

// Load returns the tree stored for the shape, if any.
func (c *Cache) Load(t reflect.Type, columns, keys []string) (*Tree, bool) {
	v, ok := c.trees.Load(newCacheKey(t, columns, keys))
	if !ok {
		return nil, false
	}

	return v.(*Tree), true
}

// Store keeps tree for the shape unless another caller stored one first; the tree kept
// is returned.
func (c *Cache) Store(t reflect.Type, columns, keys []string, tree *Tree) *Tree {
	v, loaded := c.trees.LoadOrStore(newCacheKey(t, columns, keys), tree)
	if !loaded {
		c.size.Add(1)
	}

	return v.(*Tree)
}

// Len returns the number of stored trees.
func (c *Cache) Len() int {
	return int(c.size.Load())
}
