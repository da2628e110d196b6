package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
)

// FlowSampler provides a turbulence direction at a world position.
type FlowSampler interface {
	Lookup(p r3.Vec) r3.Vec
}

// FlowField is an immutable grid of unit direction vectors spanning the
// cube [-bound, bound]³. It is built once and never written afterwards.
type FlowField struct {
	cells []r3.Vec
	size  int
	bound float64
}

// NewFlowField builds a size³ field covering the cube of the given half-extent.
// Each cell's direction is a fixed trigonometric function of its normalized
// coordinates, so two fields with the same size are identical.
func NewFlowField(size int, bound float64) *FlowField {
	f := &FlowField{
		cells: make([]r3.Vec, size*size*size),
		size:  size,
		bound: bound,
	}

	const twoPi = 2 * math.Pi
	for i := 0; i < size; i++ {
		u := (float64(i) + 0.5) / float64(size)
		for j := 0; j < size; j++ {
			v := (float64(j) + 0.5) / float64(size)
			for k := 0; k < size; k++ {
				w := (float64(k) + 0.5) / float64(size)

				dir := r3.Vec{
					X: math.Sin(u*twoPi)*math.Cos(w*twoPi) + 0.3*math.Sin(v*2*twoPi),
					Y: math.Cos(v*twoPi)*math.Sin(u*twoPi) + 0.3,
					Z: math.Sin(w*twoPi)*math.Cos(v*twoPi) - 0.3*math.Cos(u*2*twoPi),
				}
				if r3.Norm(dir) < 1e-9 {
					dir = r3.Vec{Y: 1}
				}
				f.cells[f.index(i, j, k)] = r3.Unit(dir)
			}
		}
	}
	return f
}

// NewNoisyFlowField builds the same field as NewFlowField, then bends every
// cell direction by amplitude times a 3D simplex noise vector. The result is
// still fixed for a given size, amplitude and seed.
func NewNoisyFlowField(size int, bound, amplitude float64, seed int64) *FlowField {
	f := NewFlowField(size, bound)
	if amplitude <= 0 {
		return f
	}

	noise := opensimplex.New(seed)
	const freq = 3.0
	for i := 0; i < size; i++ {
		u := (float64(i) + 0.5) / float64(size) * freq
		for j := 0; j < size; j++ {
			v := (float64(j) + 0.5) / float64(size) * freq
			for k := 0; k < size; k++ {
				w := (float64(k) + 0.5) / float64(size) * freq

				// Offset the sample point per axis so the three channels are uncorrelated.
				bend := r3.Vec{
					X: noise.Eval3(u, v, w),
					Y: noise.Eval3(u+31.4, v, w),
					Z: noise.Eval3(u, v+17.3, w+47.9),
				}
				idx := f.index(i, j, k)
				dir := r3.Add(f.cells[idx], r3.Scale(amplitude, bend))
				if r3.Norm(dir) < 1e-9 {
					continue
				}
				f.cells[idx] = r3.Unit(dir)
			}
		}
	}
	return f
}

func (f *FlowField) index(i, j, k int) int {
	return (i*f.size+j)*f.size + k
}

// cell maps one world coordinate to a clamped cell index.
func (f *FlowField) cell(c float64) int {
	t := (c + f.bound) / (2 * f.bound)
	if !(t >= 0) { // also catches NaN
		return 0
	}
	if t >= 1 {
		return f.size - 1
	}
	return clampInt(int(t*float64(f.size)), 0, f.size-1)
}

// Lookup returns the direction of the cell containing p. Positions outside
// the cube clamp to the nearest edge cell. The result is a copy.
func (f *FlowField) Lookup(p r3.Vec) r3.Vec {
	return f.cells[f.index(f.cell(p.X), f.cell(p.Y), f.cell(p.Z))]
}

// Each calls fn with the world-space center and direction of every cell.
func (f *FlowField) Each(fn func(center, dir r3.Vec)) {
	step := 2 * f.bound / float64(f.size)
	for i := 0; i < f.size; i++ {
		for j := 0; j < f.size; j++ {
			for k := 0; k < f.size; k++ {
				center := r3.Vec{
					X: -f.bound + (float64(i)+0.5)*step,
					Y: -f.bound + (float64(j)+0.5)*step,
					Z: -f.bound + (float64(k)+0.5)*step,
				}
				fn(center, f.cells[f.index(i, j, k)])
			}
		}
	}
}

// CellSize returns the world-space edge length of one cell.
func (f *FlowField) CellSize() float64 {
	return 2 * f.bound / float64(f.size)
}

// Size returns the number of cells per axis.
func (f *FlowField) Size() int {
	return f.size
}
