package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderflow/wanderflow/pkg/core"
)

func testKey(to string) Key {
	return KeyFor(core.AnimationConfig{
		PointA: core.Checkpoint{ID: "loc-1", Lat: 34.9671, Lng: 135.7727},
		PointB: core.Checkpoint{ID: to, Lat: 35.0094, Lng: 135.6670},
		Type:   core.AnimationStraight,
	})
}

func testFrames(n int) core.Frames {
	frames := make(core.Frames, n)
	for i := range frames {
		frames[i].Progress = float64(i) / float64(n-1)
	}
	return frames
}

func TestKeyFor_AppliesDefaults(t *testing.T) {
	k := testKey("loc-2")

	assert.Equal(t, core.DefaultDuration, k.Duration)
	assert.Equal(t, core.DefaultResolution, k.Resolution)
	assert.Equal(t, k, KeyFor(core.AnimationConfig{
		PointA:     core.Checkpoint{ID: "loc-1", Lat: 34.9671, Lng: 135.7727},
		PointB:     core.Checkpoint{ID: "loc-2", Lat: 35.0094, Lng: 135.6670},
		Type:       core.AnimationStraight,
		Duration:   3 * time.Second,
		Resolution: 60,
	}))
}

func TestKeyFor_DistinguishesType(t *testing.T) {
	cfg := core.AnimationConfig{
		PointA: core.Checkpoint{ID: "a"},
		PointB: core.Checkpoint{ID: "b"},
	}
	straight := KeyFor(cfg)
	cfg.Type = core.AnimationTeleport

	assert.NotEqual(t, straight, KeyFor(cfg))
}

func TestFrameCache_AddAndGet(t *testing.T) {
	cache := NewFrameCache(4)
	frames := testFrames(3)

	cache.Add(testKey("loc-2"), frames)

	got, ok := cache.Get(testKey("loc-2"))
	require.True(t, ok)
	assert.Equal(t, frames, got)
	assert.Equal(t, 1, cache.Hits.Value())
}

func TestFrameCache_Get_NotFound(t *testing.T) {
	cache := NewFrameCache(4)

	_, ok := cache.Get(testKey("loc-9"))
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Misses.Value())
}

func TestFrameCache_EvictsOldest(t *testing.T) {
	cache := NewFrameCache(2)

	cache.Add(testKey("loc-2"), testFrames(2))
	cache.Add(testKey("loc-3"), testFrames(2))
	cache.Add(testKey("loc-2"), testFrames(3)) // overwrite keeps insertion order
	cache.Add(testKey("loc-4"), testFrames(2))

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(testKey("loc-2"))
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = cache.Get(testKey("loc-3"))
	assert.True(t, ok)
	_, ok = cache.Get(testKey("loc-4"))
	assert.True(t, ok)
}

func TestFrameCache_Unbounded(t *testing.T) {
	cache := NewFrameCache(0)
	for i := 0; i < 100; i++ {
		cache.Add(testKey(fmt.Sprintf("loc-%d", i)), testFrames(2))
	}
	assert.Equal(t, 100, cache.Len())
}

func TestFrameCache_Reset(t *testing.T) {
	cache := NewFrameCache(4)
	cache.Add(testKey("loc-2"), testFrames(2))
	cache.Get(testKey("loc-2"))
	cache.Get(testKey("loc-3"))

	cache.Reset()

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, cache.Hits.Value())
	assert.Equal(t, 0, cache.Misses.Value())
}

func TestFrameCache_Concurrent(t *testing.T) {
	cache := NewFrameCache(8)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			k := testKey(fmt.Sprintf("loc-%d", id%16))
			cache.Add(k, testFrames(2))
			cache.Get(k)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 8)
	assert.Equal(t, 100, cache.Hits.Value()+cache.Misses.Value())
}

// SafeCounter tests

func TestSafeCounter_InitialValue(t *testing.T) {
	c := &SafeCounter{}
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Set(t *testing.T) {
	c := &SafeCounter{}

	c.Set(42)
	assert.Equal(t, int(42), c.Value())

	c.Set(0)
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Concurrent(t *testing.T) {
	c := &SafeCounter{}
	var wg sync.WaitGroup

	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, int(1000), c.Value())
}
