package systems

import "testing"

func TestTrailsFollowParticles(t *testing.T) {
	f := newTestField(t, 21)
	trails := NewTrailSystem(len(f.Particles))
	if trails.Lines.Len() != len(f.Particles) {
		t.Fatalf("expected %d segments, got %d", len(f.Particles), trails.Lines.Len())
	}

	f.UpdateIdle()
	trails.Update(f.Particles)

	for i, p := range f.Particles {
		v := trails.Lines.Vertices[6*i : 6*i+6]
		if v[0] != float32(p.LastPosition.X) || v[1] != float32(p.LastPosition.Y) || v[2] != float32(p.LastPosition.Z) {
			t.Fatalf("segment %d start %v does not match last position %v", i, v[:3], p.LastPosition)
		}
		if v[3] != float32(p.Position.X) || v[4] != float32(p.Position.Y) || v[5] != float32(p.Position.Z) {
			t.Fatalf("segment %d end %v does not match position %v", i, v[3:], p.Position)
		}
	}
	if trails.Lines.Version != 1 {
		t.Errorf("expected version 1, got %d", trails.Lines.Version)
	}
}
