// Package components defines the ECS components stored in the scene world
// and the flat render buffers they point at.
package components

// PointBuffer holds per-point render data in flat arrays laid out for direct
// upload: Positions and Colors hold 3 floats per point, Sizes holds one.
// The arrays are allocated once and rewritten in place every frame.
type PointBuffer struct {
	Positions []float32
	Sizes     []float32
	Colors    []float32

	// Version is bumped after every rewrite; renderers reconvert a buffer
	// only when it changes.
	Version uint64
}

// NewPointBuffer allocates a buffer for n points.
func NewPointBuffer(n int) *PointBuffer {
	return &PointBuffer{
		Positions: make([]float32, 3*n),
		Sizes:     make([]float32, n),
		Colors:    make([]float32, 3*n),
	}
}

// Len returns the number of points.
func (b *PointBuffer) Len() int {
	return len(b.Sizes)
}

// LineBuffer holds two vertices per segment: Vertices holds 6 floats per
// segment (start xyz, end xyz) and Colors the matching 6 colour components.
type LineBuffer struct {
	Vertices []float32
	Colors   []float32

	// Version follows the same rule as PointBuffer.Version.
	Version uint64
}

// NewLineBuffer allocates a buffer for n segments.
func NewLineBuffer(n int) *LineBuffer {
	return &LineBuffer{
		Vertices: make([]float32, 6*n),
		Colors:   make([]float32, 6*n),
	}
}

// Len returns the number of segments.
func (b *LineBuffer) Len() int {
	return len(b.Vertices) / 6
}

// PointCloud attaches a point buffer to a scene entity.
type PointCloud struct {
	Buffer *PointBuffer
}

// LineSet attaches a line buffer to a scene entity.
type LineSet struct {
	Buffer *LineBuffer
}

// Layer orders drawables; lower layers draw first.
type Layer struct {
	Name  string
	Order int
}

// Visible marks drawables the renderer should draw.
type Visible struct {
	Hidden bool
}
