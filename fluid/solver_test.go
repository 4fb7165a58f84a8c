package fluid

import (
	"errors"
	"testing"
)

const (
	testDT        = 0.016
	testViscosity = 0.002
	testFade      = 0.1
)

var white = [3]float32{1, 1, 1}

func newTestSolver(t *testing.T, w, h int, opts ...Option) *Solver {
	t.Helper()
	s, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", w, h, err)
	}
	t.Cleanup(s.Close)
	return s
}

func quietFrame(iterations int) Frame {
	return Frame{
		DT:                 testDT,
		Speed:              1,
		Viscosity:          testViscosity,
		Fade:               testFade,
		PressureIterations: iterations,
	}
}

func assertZero(t *testing.T, name string, g *Grid) {
	t.Helper()
	for k, v := range g.Data {
		if v != 0 {
			t.Fatalf("%s: expected all zero, index %d = %g", name, k, v)
		}
	}
}

type fakeCaps struct {
	ready bool
	max   int
}

func (c fakeCaps) SurfacesReady() bool { return c.ready }
func (c fakeCaps) MaxSurfaceSize() int { return c.max }

func TestNewErrors(t *testing.T) {
	if _, err := New(0, 64); !errors.Is(err, ErrConfiguration) {
		t.Errorf("zero width: expected ErrConfiguration, got %v", err)
	}
	if _, err := New(128, 128, WithMaxSize(64)); !errors.Is(err, ErrConfiguration) {
		t.Errorf("oversize: expected ErrConfiguration, got %v", err)
	}
	if _, err := New(64, 64, WithCapabilities(fakeCaps{ready: false})); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("no surfaces: expected ErrUnsupportedPlatform, got %v", err)
	}
	if _, err := New(64, 64, WithCapabilities(fakeCaps{ready: true, max: 32})); !errors.Is(err, ErrConfiguration) {
		t.Errorf("platform limit: expected ErrConfiguration, got %v", err)
	}

	s, err := New(64, 32, WithCapabilities(fakeCaps{ready: true, max: 128}))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	defer s.Close()
	if w, h := s.Size(); w != 64 || h != 32 {
		t.Errorf("expected 64x32, got %dx%d", w, h)
	}
}

func TestResetThenQuietTickIsZero(t *testing.T) {
	s := newTestSolver(t, 64, 64)

	s.Splat(32, 32, 40, -25, white, 0.01)
	s.SplatVortex(20, 20, 0.2, 5)
	s.DrawObstacle(10, 10, 0.05, false)
	s.Tick(quietFrame(20))

	s.Reset()
	if s.Painted().Read().AbsSum() != 0 {
		t.Error("reset left the painted mask")
	}
	if s.Ticks() != 0 {
		t.Errorf("expected tick counter 0, got %d", s.Ticks())
	}

	s.Tick(quietFrame(20))
	assertZero(t, "density", s.Density().Read())
	assertZero(t, "velocity", s.Velocity().Read())
}

func TestNoSourcesNoMass(t *testing.T) {
	s := newTestSolver(t, 48, 32)

	for i := 0; i < 50; i++ {
		f := quietFrame(10)
		f.Time = float32(i) * testDT
		s.Tick(f)
	}
	assertZero(t, "density", s.Density().Read())
	assertZero(t, "velocity", s.Velocity().Read())
	if s.Ticks() != 50 {
		t.Errorf("expected 50 ticks, got %d", s.Ticks())
	}
}

func TestProjectionReducesDivergence(t *testing.T) {
	unprojected := newTestSolver(t, 64, 64)
	projected := newTestSolver(t, 64, 64)

	for _, s := range []*Solver{unprojected, projected} {
		s.Splat(32, 32, 5, -3, white, 0.005)
	}
	unprojected.Step(testDT, testViscosity, testFade, 0, 0)
	projected.Step(testDT, testViscosity, testFade, 30, 0)

	before := unprojected.DivergenceNorm()
	after := projected.DivergenceNorm()
	if before == 0 {
		t.Fatal("splat produced no divergence")
	}
	if after >= before {
		t.Errorf("expected divergence to drop, got %f -> %f", before, after)
	}
}

func TestZeroIterationsSkipsProjection(t *testing.T) {
	s := newTestSolver(t, 32, 32)
	s.Splat(16, 16, 30, 10, white, 0.01)
	s.Pressure().Read().Set(3, 3, 0, 7)

	// Expected result computed with the kernels directly.
	p := newRowPool(0)
	vel := NewGrid(32, 32, 2)
	tmp := NewGrid(32, 32, 2)
	vel.CopyFrom(s.Velocity().Read())
	obs := s.Obstacles().Read()
	gravity(p, tmp, vel, testDT, 9.8)
	advect(p, vel, tmp, tmp, obs, testDT, testViscosity)

	s.Step(testDT, testViscosity, testFade, 0, 9.8)

	got := s.Velocity().Read()
	for k := range got.Data {
		if got.Data[k] != vel.Data[k] {
			t.Fatalf("velocity differs from advection+gravity at %d: %g != %g", k, got.Data[k], vel.Data[k])
		}
	}
	if s.Pressure().Read().At(3, 3, 0) != 7 {
		t.Error("pressure changed with zero iterations")
	}
}

func TestPointSplatScenario(t *testing.T) {
	s := newTestSolver(t, 64, 64)

	s.Splat(32, 32, 0, 0, white, 0.01)
	s.Step(testDT, testViscosity, testFade, 20, 0)

	den := s.Density().Read()
	centre := den.At(32, 32, 0)
	far := den.At(12, 32, 0)
	if centre <= 0 {
		t.Fatalf("expected density at centre, got %g", centre)
	}
	if centre <= far {
		t.Errorf("centre %g should exceed density 20 cells away %g", centre, far)
	}
	if centre < 0.9 {
		t.Errorf("expected centre density near 1, got %g", centre)
	}
}

func TestRepelForceFieldScenario(t *testing.T) {
	s := newTestSolver(t, 64, 64)

	f := quietFrame(20)
	f.ForceFields = []ForceField{{ID: 1, X: 32, Y: 32, Radius: 0.1, Force: 10}}
	s.Tick(f)

	vel := s.Velocity().Read()
	for _, j := range []int{31, 32} {
		for i := 33; i <= 37; i++ {
			if vx := vel.At(i, j, 0); vx <= 0 {
				t.Errorf("cell (%d,%d) right of centre: expected vx > 0, got %g", i, j, vx)
			}
		}
		for i := 26; i <= 30; i++ {
			if vx := vel.At(i, j, 0); vx >= 0 {
				t.Errorf("cell (%d,%d) left of centre: expected vx < 0, got %g", i, j, vx)
			}
		}
	}
}

func TestAttractorDrainsCore(t *testing.T) {
	s := newTestSolver(t, 64, 64)
	s.Splat(32, 32, 0, 0, white, 0.02)
	before := s.Density().Read().At(32, 32, 0)

	s.InjectForces(0, []ForceField{{X: 32, Y: 32, Radius: 0.2, Force: -5}}, nil, white)

	after := s.Density().Read().At(32, 32, 0)
	if after >= before {
		t.Errorf("expected density sink at attractor core, %g -> %g", before, after)
	}
}

func TestObstacleContainment(t *testing.T) {
	s := newTestSolver(t, 64, 64)
	s.DrawObstacle(32, 32, 0.1, false)

	f := quietFrame(20)
	f.Gravity = 9.8
	f.ForceFields = []ForceField{{X: 32, Y: 32, Radius: 0.3, Force: 4, Spin: 3, WindForce: 2, Turbulence: 1}}
	f.Emitters = []Emitter{{X: 32, Y: 32}}
	f.EmitterColor = white
	f.EmissionSource = solidImage(64, 64, 255)
	f.EmissionVelocity = &Vec2{X: 3, Y: -3}
	f.EmissionStrength = 1

	// Splats issued before the merge would use the previous mask, so run
	// one tick first.
	s.Tick(f)
	s.Splat(32, 32, 10, 10, white, 0.05)
	s.SplatRadial(32, 32, 0.3, 5)
	s.Step(testDT, testViscosity, testFade, 20, 9.8)
	s.Tick(f)

	obs := s.Obstacles().Read()
	vel := s.Velocity().Read()
	den := s.Density().Read()
	solid := 0
	for j := 0; j < 64; j++ {
		for i := 0; i < 64; i++ {
			if !obs.Solid(i, j) {
				continue
			}
			solid++
			if vel.At(i, j, 0) != 0 || vel.At(i, j, 1) != 0 {
				t.Fatalf("obstacle cell (%d,%d) has velocity (%g, %g)", i, j, vel.At(i, j, 0), vel.At(i, j, 1))
			}
			for c := 0; c < 4; c++ {
				if den.At(i, j, c) != 0 {
					t.Fatalf("obstacle cell (%d,%d) has density %g", i, j, den.At(i, j, c))
				}
			}
		}
	}
	if solid == 0 {
		t.Fatal("no obstacle cells")
	}
	if den.AbsSum() == 0 {
		t.Error("expected density outside the obstacle")
	}
}

func TestWorkerPoolMatchesSerial(t *testing.T) {
	serial := newTestSolver(t, 96, 80)
	parallel := newTestSolver(t, 96, 80, WithWorkers(4))

	f := quietFrame(15)
	f.Gravity = 1
	f.ForceFields = []ForceField{
		{X: 30, Y: 40, Radius: 0.2, Force: -3, Spin: 2, Pulse: 1},
		{X: 70, Y: 20, Radius: 0.15, WindForce: 4, WindAngle: 45, Turbulence: 2},
	}
	f.Emitters = []Emitter{{X: 48, Y: 70}}
	f.EmitterColor = [3]float32{1, 0.5, 0.2}

	for _, s := range []*Solver{serial, parallel} {
		s.DrawObstacle(50, 50, 0.05, false)
		for i := 0; i < 5; i++ {
			f.Time = float32(i) * testDT
			s.Tick(f)
		}
	}

	for _, name := range []string{"velocity", "density", "pressure"} {
		a := fieldByName(serial, name).Read().Data
		b := fieldByName(parallel, name).Read().Data
		for k := range a {
			if a[k] != b[k] {
				t.Fatalf("%s differs at %d: %g != %g", name, k, a[k], b[k])
			}
		}
	}
}

func TestStats(t *testing.T) {
	s := newTestSolver(t, 32, 32)
	if st := s.Stats(); st.DensityMass != 0 || st.KineticEnergy != 0 || st.ObstacleCells != 0 {
		t.Errorf("expected empty stats, got %+v", st)
	}

	s.Splat(16, 16, 10, 0, white, 0.01)
	s.DrawObstacle(4, 4, 0.1, false)
	s.MergeObstacles(nil)
	s.Tick(quietFrame(0))

	st := s.Stats()
	if st.DensityMass <= 0 || st.KineticEnergy <= 0 || st.MaxSpeed <= 0 {
		t.Errorf("expected positive mass/energy/speed, got %+v", st)
	}
	if st.ObstacleCells == 0 {
		t.Error("expected obstacle cells")
	}
	if st.Tick != 1 {
		t.Errorf("expected tick 1, got %d", st.Tick)
	}
}

func fieldByName(s *Solver, name string) *Field {
	for _, f := range s.Store().Fields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func TestZeroRadiusSplatDoesNotPanic(t *testing.T) {
	s := newTestSolver(t, 64, 64)
	s.Splat(32.5, 32.5, 1, 0, white, 0)
	for i := 0; i < 3; i++ {
		s.Tick(quietFrame(10))
	}
	if n := s.Ticks(); n != 3 {
		t.Errorf("Ticks() = %d, want 3", n)
	}
}
