package render

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/ironsheep/fractal-tools-mcp/internal/escape"
)

// Cache keeps recently rendered frames so repeated requests for the same view
// skip evaluation.
//
// Frames are keyed by a string, normally built with FrameKey. When the cache
// holds its capacity of frames, adding another evicts the least recently used
// one.
//
// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	frames   map[string]*list.Element
}

type cacheEntry struct {
	key   string
	frame *Frame
}

// NewCache creates an empty cache holding at most capacity frames. A
// capacity below 1 is treated as 1.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		frames:   make(map[string]*list.Element),
	}
}

// Get returns the frame stored under key and marks it as recently used.
func (c *Cache) Get(key string) (*Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.frames[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).frame, true
}

// Put stores frame under key, replacing any previous frame for that key.
func (c *Cache) Put(key string, frame *Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.frames[key]; ok {
		el.Value.(*cacheEntry).frame = frame
		c.order.MoveToFront(el)
		return
	}

	c.frames[key] = c.order.PushFront(&cacheEntry{key: key, frame: frame})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.frames, oldest.Value.(*cacheEntry).key)
	}
}

// Evict removes the frame stored under key. Missing keys are ignored.
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.frames[key]; ok {
		c.order.Remove(el)
		delete(c.frames, key)
	}
}

// Clear removes all frames.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.order.Init()
	c.frames = make(map[string]*list.Element)
	c.mu.Unlock()
}

// Len returns the number of cached frames.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// FrameKey identifies a render request. Two requests with the same key
// produce identical frames.
func FrameKey(vp Viewport, ev escape.Evaluator, pal *Palette, opts Options) string {
	if pal == nil {
		pal = DefaultPalette()
	}
	return fmt.Sprintf("%s|%v|%dx%d|%s|%s|%v|%d|%s|%d|%v",
		vp.Center.ASCIIString(), vp.Width, vp.PixelsX, vp.PixelsY,
		ev.Kind, ev.C.ASCIIString(), ev.Params.EscapeRadius, ev.Params.MaxIterations,
		pal.Key(), opts.Supersample, opts.Gamma)
}
