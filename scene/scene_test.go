package scene

import (
	"testing"

	"github.com/pthm-cable/carfield/components"
)

func TestAttachDetach(t *testing.T) {
	s := New()
	points := components.NewPointBuffer(4)
	lines := components.NewLineBuffer(4)

	pe := s.AttachPoints(points, components.Layer{Name: "particles", Order: 1})
	le := s.AttachLines(lines, components.Layer{Name: "trails", Order: 0})
	if s.Len() != 2 {
		t.Fatalf("expected 2 drawables, got %d", s.Len())
	}

	var gotPoints, gotLines int
	s.EachPointCloud(func(b *components.PointBuffer) {
		if b != points {
			t.Error("unexpected point buffer")
		}
		gotPoints++
	})
	s.EachLineSet(func(b *components.LineBuffer) {
		if b != lines {
			t.Error("unexpected line buffer")
		}
		gotLines++
	})
	if gotPoints != 1 || gotLines != 1 {
		t.Errorf("expected one of each, got %d points %d lines", gotPoints, gotLines)
	}

	if !s.Detach(pe) {
		t.Error("detaching live point cloud failed")
	}
	if s.Detach(pe) {
		t.Error("second detach should report false")
	}
	if !s.Detach(le) {
		t.Error("detaching live line set failed")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty scene, got %d", s.Len())
	}

	s.EachPointCloud(func(*components.PointBuffer) { t.Error("detached point cloud still drawn") })
	s.EachLineSet(func(*components.LineBuffer) { t.Error("detached line set still drawn") })
}

func TestLayerOrderAndHidden(t *testing.T) {
	s := New()
	front := components.NewPointBuffer(1)
	back := components.NewPointBuffer(1)
	hidden := components.NewPointBuffer(1)

	s.AttachPoints(front, components.Layer{Name: "front", Order: 10})
	s.AttachPoints(back, components.Layer{Name: "back", Order: -1})
	he := s.AttachPoints(hidden, components.Layer{Name: "hidden", Order: 0})
	s.SetHidden(he, true)

	var order []*components.PointBuffer
	s.EachPointCloud(func(b *components.PointBuffer) { order = append(order, b) })

	if len(order) != 2 {
		t.Fatalf("expected 2 visible clouds, got %d", len(order))
	}
	if order[0] != back || order[1] != front {
		t.Error("point clouds not drawn in layer order")
	}
}
