package renderer

// bufferCache holds the raylib-ready form of scene buffers. A buffer is
// converted again only when its Version changes; entries not used between
// two sweeps are dropped.
type bufferCache[B any, V any] struct {
	entries  map[*B]*cacheEntry[V]
	frame    uint64
	version  func(buf *B) uint64
	convert  func(buf *B, into []V) []V
	converts int
}

type cacheEntry[V any] struct {
	version uint64
	frame   uint64
	items   []V
}

func newBufferCache[B any, V any](version func(*B) uint64, convert func(*B, []V) []V) *bufferCache[B, V] {
	return &bufferCache[B, V]{
		entries: make(map[*B]*cacheEntry[V]),
		version: version,
		convert: convert,
	}
}

// get returns the converted items for buf, converting if it changed.
func (c *bufferCache[B, V]) get(buf *B) []V {
	v := c.version(buf)
	e, ok := c.entries[buf]
	if !ok {
		e = &cacheEntry[V]{}
		c.entries[buf] = e
	}
	e.frame = c.frame
	if !ok || e.version != v {
		e.items = c.convert(buf, e.items[:0])
		e.version = v
		c.converts++
	}
	return e.items
}

// sweep drops buffers that were not drawn since the previous sweep.
func (c *bufferCache[B, V]) sweep() {
	for buf, e := range c.entries {
		if e.frame != c.frame {
			delete(c.entries, buf)
		}
	}
	c.frame++
}
