package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/carfield/systems"
)

// FlowRenderer draws one arrow per flow cell. Must be called inside BeginMode3D.
type FlowRenderer struct {
	Color rl.Color
}

// NewFlowRenderer creates a flow field renderer.
func NewFlowRenderer() *FlowRenderer {
	return &FlowRenderer{Color: rl.Fade(rl.Lime, 0.35)}
}

// Draw renders every cell as a segment from its center along its direction.
func (r *FlowRenderer) Draw(flow *systems.FlowField) {
	if flow == nil {
		return
	}
	length := 0.4 * flow.CellSize()
	flow.Each(func(center, dir r3.Vec) {
		tip := r3.Add(center, r3.Scale(length, dir))
		rl.DrawLine3D(vec3(center), vec3(tip), r.Color)
		rl.DrawPoint3D(vec3(tip), rl.White)
	})
}

// TargetRenderer draws the silhouette points as wire cubes.
type TargetRenderer struct {
	Size float32
}

// NewTargetRenderer creates a target renderer.
func NewTargetRenderer() *TargetRenderer {
	return &TargetRenderer{Size: 0.8}
}

// Draw renders each target in its region colour. offsetY shifts the whole
// set vertically so it can follow a falling formation.
func (r *TargetRenderer) Draw(targets *systems.TargetSet, colorOf func(systems.Region) systems.RGB, offsetY float64) {
	if targets == nil {
		return
	}
	size := rl.NewVector3(r.Size, r.Size, r.Size)
	for i, p := range targets.Points {
		c := colorOf(targets.Regions[i])
		p.Y += offsetY
		rl.DrawCubeWiresV(vec3(p), size, toColor(float32(c.R), float32(c.G), float32(c.B), 200))
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
