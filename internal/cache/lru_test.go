package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-run/gitmeta/internal/cache"
)

func TestLRU(t *testing.T) {
	t.Parallel()

	t.Run("Add and get data", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU(1)

		assert.Equal(t, 0, c.Len(), "expected an empty cache")

		rv, ok := c.Get("key")
		assert.False(t, ok, "should not find data that does not exist")
		assert.Nil(t, rv, "returned value should be nil when not found")

		c.Add("key", 1)
		assert.Equal(t, 1, c.Len(), "expected 1 item in the cache")

		var v int
		rv, ok = c.Get("key")
		assert.True(t, ok, "should have found data")
		assert.NotPanics(t, func() {
			v = rv.(int)
		})
		assert.Equal(t, 1, v, "unexpected data retrieved from cache")

		c.Clear()
		assert.Equal(t, 0, c.Len(), "expected the cache to have been emptied")
	})

	t.Run("Evicts oldest entry past capacity", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU(1)
		c.Add("first", 1)
		c.Add("second", 2)

		_, ok := c.Get("first")
		assert.False(t, ok, "first entry should have been evicted")

		v, ok := c.Get("second")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("Zero maxEntries means unbounded", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU(0)
		for i := 0; i < 100; i++ {
			c.Add(i, i)
		}
		assert.Equal(t, 100, c.Len())
	})
}
