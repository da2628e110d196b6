package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RGB is a colour with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// Lerp blends c toward o by t (0 = c, 1 = o).
func (c RGB) Lerp(o RGB, t float64) RGB {
	return RGB{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
	}
}

// Dist returns the Euclidean distance between two colours.
func (c RGB) Dist(o RGB) float64 {
	dr, dg, db := c.R-o.R, c.G-o.G, c.B-o.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// rgbOf converts a configured colour triple.
func rgbOf(c [3]float64) RGB {
	return RGB{R: c[0], G: c[1], B: c[2]}
}

// vecOf converts a configured point.
func vecOf(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampInt clamps an index to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapCoord moves a coordinate that left [-bound, bound] to the opposite face.
// Returns the new value and whether a wrap happened.
func wrapCoord(v, bound float64) (float64, bool) {
	if v > bound {
		return -bound, true
	}
	if v < -bound {
		return bound, true
	}
	return v, false
}

// finite reports whether every component of v is a finite number.
func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
