package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carfield/components"
)

// PointRenderer draws point buffers as small cubes.
type PointRenderer struct {
	// SizeScale converts particle size to world units
	SizeScale float32

	cache *bufferCache[components.PointBuffer, pointItem]
}

type pointItem struct {
	pos   rl.Vector3
	size  rl.Vector3
	color rl.Color
}

// NewPointRenderer creates a new point renderer.
func NewPointRenderer(sizeScale float32) *PointRenderer {
	r := &PointRenderer{SizeScale: sizeScale}
	r.cache = newBufferCache(
		func(b *components.PointBuffer) uint64 { return b.Version },
		r.convert,
	)
	return r
}

// convert turns a point buffer into cube draws, skipping zero-sized points.
func (r *PointRenderer) convert(buf *components.PointBuffer, items []pointItem) []pointItem {
	for i := 0; i < buf.Len(); i++ {
		s := buf.Sizes[i] * r.SizeScale
		if s <= 0 {
			continue
		}
		items = append(items, pointItem{
			pos:   rl.NewVector3(buf.Positions[3*i], buf.Positions[3*i+1], buf.Positions[3*i+2]),
			size:  rl.NewVector3(s, s, s),
			color: toColor(buf.Colors[3*i], buf.Colors[3*i+1], buf.Colors[3*i+2], 255),
		})
	}
	return items
}

// Draw renders every point in the buffer. Must be called inside BeginMode3D.
func (r *PointRenderer) Draw(buf *components.PointBuffer) {
	for _, it := range r.cache.get(buf) {
		rl.DrawCubeV(it.pos, it.size, it.color)
	}
}
