package node_test

import (
	"reflect"
	"rowgraph/node"
	"rowgraph/store"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Parallel()

	var cache node.Cache

	typ := reflect.TypeFor[store.Client]()
	columns := []string{"id", "orders.id"}

	_, ok := cache.Load(typ, columns, []string{"orders.id"})
	assert.False(t, ok)

	tree, err := build[store.Client](columns, "orders.id")
	require.NoError(t, err)

	assert.Same(t, tree, cache.Store(typ, columns, []string{"orders.id"}, tree))

	got, ok := cache.Load(typ, []string{"ID", "Orders.ID"}, []string{" ORDERS.ID "})
	require.True(t, ok, "signatures ignore case")
	assert.Same(t, tree, got)

	_, ok = cache.Load(typ, []string{"orders.id", "id"}, []string{"orders.id"})
	assert.False(t, ok, "column order is part of the shape")

	_, ok = cache.Load(typ, columns, nil)
	assert.False(t, ok)

	other, err := build[store.Client](columns, "orders.id")
	require.NoError(t, err)
	assert.Same(t, tree, cache.Store(typ, columns, []string{"orders.id"}, other), "first stored tree wins")
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		cache node.Cache
		wg    sync.WaitGroup
	)

	typ := reflect.TypeFor[store.Product]()
	columns := []string{"id", "name"}

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tree, err := build[store.Product](columns)
			if err != nil {
				return
			}

			cache.Store(typ, columns, nil, tree)
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}
