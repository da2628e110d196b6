// Package scene holds the drawables the renderer walks each frame.
// Drawables are entities in an ECS world; attaching creates an entity that
// references a caller-owned buffer, detaching removes it.
package scene

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/carfield/components"
)

// Scene is the set of point clouds and line sets currently attached.
// It is not safe for concurrent use.
type Scene struct {
	world *ecs.World

	pointMapper *ecs.Map3[components.PointCloud, components.Layer, components.Visible]
	lineMapper  *ecs.Map3[components.LineSet, components.Layer, components.Visible]
	pointFilter *ecs.Filter3[components.PointCloud, components.Layer, components.Visible]
	lineFilter  *ecs.Filter3[components.LineSet, components.Layer, components.Visible]
	visMap      *ecs.Map[components.Visible]

	attached int
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:       world,
		pointMapper: ecs.NewMap3[components.PointCloud, components.Layer, components.Visible](world),
		lineMapper:  ecs.NewMap3[components.LineSet, components.Layer, components.Visible](world),
		pointFilter: ecs.NewFilter3[components.PointCloud, components.Layer, components.Visible](world),
		lineFilter:  ecs.NewFilter3[components.LineSet, components.Layer, components.Visible](world),
		visMap:      ecs.NewMap[components.Visible](world),
	}
}

// AttachPoints adds a point cloud drawn from buf.
func (s *Scene) AttachPoints(buf *components.PointBuffer, layer components.Layer) ecs.Entity {
	s.attached++
	return s.pointMapper.NewEntity(&components.PointCloud{Buffer: buf}, &layer, &components.Visible{})
}

// AttachLines adds a line set drawn from buf.
func (s *Scene) AttachLines(buf *components.LineBuffer, layer components.Layer) ecs.Entity {
	s.attached++
	return s.lineMapper.NewEntity(&components.LineSet{Buffer: buf}, &layer, &components.Visible{})
}

// Detach removes a drawable. Returns false if it was already removed.
func (s *Scene) Detach(e ecs.Entity) bool {
	if !s.world.Alive(e) {
		return false
	}
	s.world.RemoveEntity(e)
	s.attached--
	return true
}

// SetHidden toggles drawing of an attached drawable.
func (s *Scene) SetHidden(e ecs.Entity, hidden bool) {
	if !s.world.Alive(e) {
		return
	}
	s.visMap.Get(e).Hidden = hidden
}

// Len returns the number of attached drawables.
func (s *Scene) Len() int {
	return s.attached
}

type layered[T any] struct {
	order int
	buf   *T
}

// EachPointCloud calls fn for every visible point buffer in layer order.
func (s *Scene) EachPointCloud(fn func(buf *components.PointBuffer)) {
	var items []layered[components.PointBuffer]
	query := s.pointFilter.Query()
	for query.Next() {
		pc, layer, vis := query.Get()
		if vis.Hidden || pc.Buffer == nil {
			continue
		}
		items = append(items, layered[components.PointBuffer]{order: layer.Order, buf: pc.Buffer})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].order < items[j].order })
	for _, it := range items {
		fn(it.buf)
	}
}

// EachLineSet calls fn for every visible line buffer in layer order.
func (s *Scene) EachLineSet(fn func(buf *components.LineBuffer)) {
	var items []layered[components.LineBuffer]
	query := s.lineFilter.Query()
	for query.Next() {
		ls, layer, vis := query.Get()
		if vis.Hidden || ls.Buffer == nil {
			continue
		}
		items = append(items, layered[components.LineBuffer]{order: layer.Order, buf: ls.Buffer})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].order < items[j].order })
	for _, it := range items {
		fn(it.buf)
	}
}
