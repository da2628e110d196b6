// Package camera provides a 3D orbit camera for viewing the particle field.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// nearPlane is the closest view depth that still projects to the screen.
const nearPlane = 0.01

// maxPitch keeps the camera off the poles so the up vector stays defined.
const maxPitch = math.Pi/2 - 0.01

// Camera orbits a target point at a fixed distance.
type Camera struct {
	// Target is the orbit center in world coordinates
	Target r3.Vec

	// Orbit angles in radians. Yaw 0 looks down -Z; positive pitch looks down on the target.
	Yaw, Pitch float64

	// Distance from eye to target
	Distance float64

	// Vertical field of view in degrees
	Fovy float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Distance constraints
	MinDistance, MaxDistance float64

	defaultDistance, defaultPitch float64
}

// New creates a camera looking at the origin.
func New(viewportW, viewportH float32, distance, pitch, fovy float64) *Camera {
	c := &Camera{
		Distance:        distance,
		Fovy:            fovy,
		ViewportW:       viewportW,
		ViewportH:       viewportH,
		MinDistance:     distance * 0.25,
		MaxDistance:     distance * 4,
		defaultDistance: distance,
		defaultPitch:    pitch,
	}
	c.Pitch = clamp(pitch, -maxPitch, maxPitch)
	return c
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: cp * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, offset))
}

// Up returns the world up vector used for the view.
func (c *Camera) Up() r3.Vec {
	return r3.Vec{Y: 1}
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float64 {
	if c.ViewportH <= 0 {
		return 1
	}
	return float64(c.ViewportW) / float64(c.ViewportH)
}

// basis returns the view's forward, right and up unit vectors.
func (c *Camera) basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Eye()))
	right = r3.Unit(r3.Cross(forward, c.Up()))
	up = r3.Cross(right, forward)
	return forward, right, up
}

// WorldToScreen projects a world point to screen coordinates.
// visible is false for points behind the camera or outside the view frustum.
func (c *Camera) WorldToScreen(p r3.Vec) (sx, sy float32, visible bool) {
	forward, right, up := c.basis()
	d := r3.Sub(p, c.Eye())

	z := r3.Dot(d, forward)
	if z <= nearPlane {
		return 0, 0, false
	}

	f := 1 / math.Tan(c.Fovy*math.Pi/360)
	ndcX := r3.Dot(d, right) * f / (c.Aspect() * z)
	ndcY := r3.Dot(d, up) * f / z

	sx = float32((ndcX + 1) / 2 * float64(c.ViewportW))
	sy = float32((1 - ndcY) / 2 * float64(c.ViewportH))
	visible = math.Abs(ndcX) <= 1 && math.Abs(ndcY) <= 1
	return sx, sy, visible
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Orbit rotates the camera around the target. Yaw wraps; pitch is clamped short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	if c.Yaw < 0 {
		c.Yaw += 2 * math.Pi
	}
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy magnifies the view by factor (values above 1 move closer).
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Reset returns the camera to its initial orbit.
func (c *Camera) Reset() {
	c.Target = r3.Vec{}
	c.Yaw = 0
	c.Pitch = clamp(c.defaultPitch, -maxPitch, maxPitch)
	c.Distance = c.defaultDistance
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
