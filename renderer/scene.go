// Package renderer draws scene buffers with raylib.
package renderer

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carfield/camera"
	"github.com/pthm-cable/carfield/scene"
)

// ErrNoWindow is returned by Probe when no raylib window is open.
var ErrNoWindow = errors.New("no render window")

// Probe reports whether 3D drawing is available.
func Probe() error {
	if !rl.IsWindowReady() {
		return ErrNoWindow
	}
	return nil
}

// SceneRenderer draws every visible buffer in a scene in layer order.
type SceneRenderer struct {
	Points *PointRenderer
	Trails *TrailRenderer

	// Bound draws the wireframe field cube when positive
	Bound      float32
	ShowBounds bool
}

// NewSceneRenderer creates a renderer for a field of the given half-extent.
func NewSceneRenderer(bound float32) *SceneRenderer {
	return &SceneRenderer{
		Points:     NewPointRenderer(0.6),
		Trails:     NewTrailRenderer(160),
		Bound:      bound,
		ShowBounds: true,
	}
}

// Draw renders the scene from the camera. Each extra func runs inside the
// same 3D pass after the scene buffers.
func (r *SceneRenderer) Draw(scn *scene.Scene, cam *camera.Camera, extras ...func()) {
	rl.BeginMode3D(Camera3D(cam))

	if r.ShowBounds && r.Bound > 0 {
		s := 2 * r.Bound
		rl.DrawCubeWiresV(rl.NewVector3(0, 0, 0), rl.NewVector3(s, s, s), rl.Fade(rl.SkyBlue, 0.08))
	}

	// Trails sit on a lower layer than points, so draw them first.
	scn.EachLineSet(r.Trails.Draw)
	scn.EachPointCloud(r.Points.Draw)

	for _, fn := range extras {
		fn()
	}

	rl.EndMode3D()

	r.Points.cache.sweep()
	r.Trails.cache.sweep()
}

// Camera3D converts an orbit camera to raylib's camera.
func Camera3D(c *camera.Camera) rl.Camera3D {
	eye := c.Eye()
	up := c.Up()
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(eye.X), float32(eye.Y), float32(eye.Z)),
		Target:     rl.NewVector3(float32(c.Target.X), float32(c.Target.Y), float32(c.Target.Z)),
		Up:         rl.NewVector3(float32(up.X), float32(up.Y), float32(up.Z)),
		Fovy:       float32(c.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// toColor converts linear [0,1] channels to a raylib colour.
func toColor(r, g, b float32, a uint8) rl.Color {
	return rl.NewColor(channel(r), channel(g), channel(b), a)
}

func channel(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
