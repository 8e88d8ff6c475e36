package cache

import (
	"sync"
	"time"

	"github.com/wanderflow/wanderflow/pkg/core"
)

// Key identifies a bake. Two configs with the same key produce identical frames.
type Key struct {
	From       string
	To         string
	FromPos    core.LngLat
	ToPos      core.LngLat
	Type       core.AnimationType
	Duration   time.Duration
	Resolution int
}

// KeyFor builds the cache key of a defaulted config.
func KeyFor(cfg core.AnimationConfig) Key {
	cfg = cfg.WithDefaults()
	return Key{
		From:       cfg.PointA.ID,
		To:         cfg.PointB.ID,
		FromPos:    cfg.PointA.Position(),
		ToPos:      cfg.PointB.Position(),
		Type:       cfg.Type,
		Duration:   cfg.Duration,
		Resolution: cfg.Resolution,
	}
}

// FrameCache keeps baked sequences for the lifetime of a session so replaying a
// previewed hop skips the bake. When full, the oldest entry is evicted.
type FrameCache struct {
	m          sync.Mutex
	maxEntries int
	frames     map[Key]core.Frames
	order      []Key

	Hits   SafeCounter
	Misses SafeCounter
}

// NewFrameCache creates a cache holding at most maxEntries sequences. A
// non-positive maxEntries means unbounded.
func NewFrameCache(maxEntries int) *FrameCache {
	return &FrameCache{
		m:          sync.Mutex{},
		maxEntries: maxEntries,
		frames:     make(map[Key]core.Frames),
	}
}

func (c *FrameCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.frames = make(map[Key]core.Frames)
	c.order = nil
	c.Hits.Set(0)
	c.Misses.Set(0)
}

func (c *FrameCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.frames)
}

func (c *FrameCache) Get(k Key) (core.Frames, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if f, ok := c.frames[k]; ok {
		c.Hits.Inc()
		return f, true
	}
	c.Misses.Inc()
	return nil, false
}

func (c *FrameCache) Add(k Key, frames core.Frames) {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.frames[k]; !ok {
		c.order = append(c.order, k)
	}
	c.frames[k] = frames

	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.frames, oldest)
	}
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
