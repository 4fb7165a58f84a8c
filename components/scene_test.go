package components

import (
	"testing"

	"github.com/pthm-cable/eddy/fluid"
)

func TestForceFieldConversion(t *testing.T) {
	want := fluid.ForceField{
		ID: 9, X: 12, Y: 34, Radius: 0.1, Force: -2, Spin: 3,
		WindForce: 4, WindAngle: 90, Pulse: 0.5, Turbulence: 1,
	}
	pos, ff := FromSolver(want)
	if got := ff.Solver(&pos); got != want {
		t.Errorf("roundtrip = %+v, want %+v", got, want)
	}
}

func TestSceneSnapshot(t *testing.T) {
	s := NewScene()

	id1 := s.AddForceField(fluid.ForceField{ID: 100, X: 10, Y: 20, Radius: 0.1, Force: 5})
	id2 := s.AddForceField(fluid.ForceField{X: 50, Y: 60, Radius: 0.2, Spin: 3})
	s.AddEmitter(5, 6)

	if id1 == id2 || id1 == 100 {
		t.Errorf("IDs should be scene-assigned and unique, got %d and %d", id1, id2)
	}

	fields := s.ForceFields()
	if len(fields) != 2 {
		t.Fatalf("ForceFields() = %d entries, want 2", len(fields))
	}
	byID := map[uint32]fluid.ForceField{}
	for _, ff := range fields {
		byID[ff.ID] = ff
	}
	if ff := byID[id1]; ff.X != 10 || ff.Y != 20 || ff.Force != 5 {
		t.Errorf("field %d = %+v", id1, ff)
	}
	if ff := byID[id2]; ff.Spin != 3 || ff.Radius != 0.2 {
		t.Errorf("field %d = %+v", id2, ff)
	}

	emitters := s.Emitters()
	if len(emitters) != 1 || emitters[0] != (fluid.Emitter{X: 5, Y: 6}) {
		t.Errorf("Emitters() = %+v", emitters)
	}

	nf, ne := s.Counts()
	if nf != 2 || ne != 1 {
		t.Errorf("Counts() = %d, %d, want 2, 1", nf, ne)
	}
}

func TestSceneSnapshotIsACopy(t *testing.T) {
	s := NewScene()
	s.AddForceField(fluid.ForceField{X: 1, Y: 1, Force: 1})

	fields := s.ForceFields()
	fields[0].Force = 99

	if got := s.ForceFields()[0].Force; got != 1 {
		t.Errorf("editing the snapshot changed the scene: force = %v", got)
	}
}

func TestRemoveNearestForceField(t *testing.T) {
	s := NewScene()
	near := s.AddForceField(fluid.ForceField{X: 10, Y: 10})
	s.AddForceField(fluid.ForceField{X: 100, Y: 100})

	if _, ok := s.RemoveNearestForceField(50, 200, 20); ok {
		t.Error("nothing should be removed outside maxDist")
	}

	id, ok := s.RemoveNearestForceField(12, 9, 20)
	if !ok || id != near {
		t.Fatalf("RemoveNearestForceField = %d, %v; want %d, true", id, ok, near)
	}
	fields := s.ForceFields()
	if len(fields) != 1 || fields[0].X != 100 {
		t.Errorf("remaining fields = %+v", fields)
	}
}

func TestUpdateForceFields(t *testing.T) {
	s := NewScene()
	s.AddForceField(fluid.ForceField{X: 1, Y: 1, Force: 1})
	s.AddForceField(fluid.ForceField{X: 2, Y: 2, Force: 2})

	s.UpdateForceFields(func(_ *Position, ff *ForceField) {
		ff.Spin = 7
	})
	for _, ff := range s.ForceFields() {
		if ff.Spin != 7 {
			t.Errorf("field %d spin = %v, want 7", ff.ID, ff.Spin)
		}
	}
}

func TestSceneClear(t *testing.T) {
	s := NewScene()
	s.AddForceField(fluid.ForceField{})
	s.AddEmitter(1, 1)
	s.AddEmitter(2, 2)

	s.Clear()

	if nf, ne := s.Counts(); nf != 0 || ne != 0 {
		t.Errorf("Counts() after Clear = %d, %d", nf, ne)
	}
	if len(s.ForceFields()) != 0 || len(s.Emitters()) != 0 {
		t.Error("snapshots should be empty after Clear")
	}
}
