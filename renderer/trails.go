package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carfield/components"
)

// TrailRenderer draws line buffers as 3D segments.
type TrailRenderer struct {
	Alpha uint8

	cache *bufferCache[components.LineBuffer, trailItem]
}

// trailItem is one segment split at its midpoint so the tail half and the
// head half carry their own vertex colour.
type trailItem struct {
	start, mid, end rl.Vector3
	tail, head      rl.Color
}

// NewTrailRenderer creates a new trail renderer.
func NewTrailRenderer(alpha uint8) *TrailRenderer {
	r := &TrailRenderer{Alpha: alpha}
	r.cache = newBufferCache(
		func(b *components.LineBuffer) uint64 { return b.Version },
		r.convert,
	)
	return r
}

func (r *TrailRenderer) convert(buf *components.LineBuffer, items []trailItem) []trailItem {
	v := buf.Vertices
	c := buf.Colors
	for i := 0; i < buf.Len(); i++ {
		o := 6 * i
		items = append(items, trailItem{
			start: rl.NewVector3(v[o], v[o+1], v[o+2]),
			mid:   rl.NewVector3((v[o]+v[o+3])/2, (v[o+1]+v[o+4])/2, (v[o+2]+v[o+5])/2),
			end:   rl.NewVector3(v[o+3], v[o+4], v[o+5]),
			tail:  toColor(c[o], c[o+1], c[o+2], r.Alpha),
			head:  toColor(c[o+3], c[o+4], c[o+5], r.Alpha),
		})
	}
	return items
}

// Draw renders every segment in the buffer, dim at the tail and full colour
// at the head. Must be called inside BeginMode3D.
func (r *TrailRenderer) Draw(buf *components.LineBuffer) {
	for _, it := range r.cache.get(buf) {
		rl.DrawLine3D(it.start, it.mid, it.tail)
		rl.DrawLine3D(it.mid, it.end, it.head)
	}
}
