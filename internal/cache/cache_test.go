package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New[string](10, time.Minute)

	c.Set("k", "v")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestGet_Miss(t *testing.T) {
	c := New[string](10, time.Minute)

	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestSet_RefreshesExistingKey(t *testing.T) {
	c := New[string](10, time.Minute)

	c.Set("k", "old")
	c.Set("k", "new")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, c.Len())
}

func TestExpiry(t *testing.T) {
	c := New[string](10, time.Hour)

	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.Set("k", "v")

	// Still inside the window
	clock = clock.Add(59 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	// Past the deadline the entry reports a miss even though resident
	clock = clock.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	// Expired entry was dropped lazily
	assert.Equal(t, 0, c.Len())
}

func TestEviction_ExactLRU(t *testing.T) {
	c := New[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so "b" becomes least recently used
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", 4)

	_, ok = c.Get("b")
	assert.False(t, ok, "least-recently-used entry should be evicted")

	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "entry %q should survive eviction", k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestEviction_CapacityNeverExceeded(t *testing.T) {
	c := New[int](5, time.Minute)

	for i := 0; i < 20; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		assert.LessOrEqual(t, c.Len(), 5)
	}

	// Only the five newest remain
	for i := 15; i < 20; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok)
	}
}

func TestSet_ExistingKeyDoesNotEvict(t *testing.T) {
	c := New[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // refresh, not insert

	_, ok := c.Get("b")
	assert.True(t, ok)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, got)
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](50, time.Minute)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%60)
				c.Set(key, g*1000+i)
				c.Get(key)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	assert.LessOrEqual(t, c.Len(), 50)
}
