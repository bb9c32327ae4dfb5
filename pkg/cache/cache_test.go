package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_InsertWithinBudget(t *testing.T) {
	c := NewCache[string](3)

	require.NoError(t, c.Insert("A", "valueA", 1))
	require.NoError(t, c.Insert("B", "valueB", 1))
	require.NoError(t, c.Insert("C", "valueC", 1))

	assert.Equal(t, 3, c.GetWeight())
	assert.Equal(t, 3, c.Len())

	value, ok := c.Retrieve("B")
	require.True(t, ok)
	assert.Equal(t, "valueB", value)
}

func TestCache_DuplicateRejected(t *testing.T) {
	c := NewCache[int](2)

	require.NoError(t, c.Insert("dupe", 1, 1))
	assert.Equal(t, ErrKeyExists, c.Insert("dupe", 2, 1))

	value, ok := c.Retrieve("dupe")
	require.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestCache_EvictsLeastRecentlyInserted(t *testing.T) {
	c := NewCache[string](2)

	require.NoError(t, c.Insert("evicted", "valueEvicted", 1))
	require.NoError(t, c.Insert("A", "valueA", 1))
	require.NoError(t, c.Insert("B", "valueB", 1))

	assert.Equal(t, 2, c.GetWeight())

	_, ok := c.Retrieve("evicted")
	assert.False(t, ok)

	_, ok = c.Retrieve("A")
	assert.True(t, ok)
	_, ok = c.Retrieve("B")
	assert.True(t, ok)
}

func TestCache_EvictsLeastRecentlyRetrieved(t *testing.T) {
	c := NewCache[string](2)

	require.NoError(t, c.Insert("A", "valueA", 1))
	require.NoError(t, c.Insert("B", "valueB", 1))

	// Touching A leaves B as the eviction candidate
	_, ok := c.Retrieve("A")
	require.True(t, ok)

	require.NoError(t, c.Insert("C", "valueC", 1))

	_, ok = c.Retrieve("B")
	assert.False(t, ok)
	_, ok = c.Retrieve("A")
	assert.True(t, ok)
	_, ok = c.Retrieve("C")
	assert.True(t, ok)
}

func TestCache_HeavyEntryEvictsSeveral(t *testing.T) {
	c := NewCache[string](4)

	for _, key := range []string{"A", "B", "C", "D"} {
		require.NoError(t, c.Insert(key, key, 1))
	}
	require.NoError(t, c.Insert("heavy", "heavy", 3))

	assert.Equal(t, 4, c.GetWeight())
	assert.Equal(t, 2, c.Len())

	_, ok := c.Retrieve("D")
	assert.True(t, ok)
	_, ok = c.Retrieve("heavy")
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache[string](1)

	require.NoError(t, c.Insert("cleared", "valueCleared", 1))
	c.Clear()

	_, ok := c.Retrieve("cleared")
	assert.False(t, ok)
	assert.Equal(t, 0, c.GetWeight())
	assert.Equal(t, 0, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache[int](1000)

	var wg sync.WaitGroup
	for worker := 0; worker < 16; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			for i := 0; i < 50; i++ {
				key := fmt.Sprintf("worker%d-%d", worker, i)
				assert.NoError(t, c.Insert(key, i, 1))
				value, ok := c.Retrieve(key)
				if ok {
					assert.Equal(t, i, value)
				}
			}
		}(worker)
	}
	wg.Wait()

	assert.Equal(t, 800, c.Len())
	assert.Equal(t, 800, c.GetWeight())
}
