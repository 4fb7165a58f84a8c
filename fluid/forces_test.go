package fluid

import (
	"math"
	"testing"
)

func TestPulsedIsPure(t *testing.T) {
	h := DefaultHeuristics()
	base := ForceField{ID: 7, X: 10, Y: 20, Radius: 0.1, Force: 4, Spin: -2, WindForce: 1, Pulse: 1.5}
	orig := base

	a := Pulsed(base, 0.3, h)
	b := Pulsed(base, 0.3, h)
	if base != orig {
		t.Fatal("Pulsed modified its input")
	}
	if a != b {
		t.Errorf("Pulsed not deterministic: %+v vs %+v", a, b)
	}

	k := 1 + math.Sin(0.3*1.5*2*math.Pi)*0.8
	if math.Abs(float64(a.Force)-4*k) > 1e-4 {
		t.Errorf("expected force %f, got %f", 4*k, a.Force)
	}
	if a.Force/base.Force != a.Spin/base.Spin || a.Spin/base.Spin != a.WindForce/base.WindForce {
		t.Error("force, spin and wind should share one pulse factor")
	}
	if a.Radius != base.Radius || a.X != base.X || a.Turbulence != base.Turbulence {
		t.Error("pulse should only touch force, spin and wind")
	}
}

func TestPulseFactorThreshold(t *testing.T) {
	h := DefaultHeuristics()
	tests := []struct {
		pulse, time float32
		want        float32
	}{
		{0, 1.234, 1},
		{0.01, 1.234, 1},
		{1, 0, 1},
		{1, 0.25, 1.8},
		{1, 0.75, 0.2},
	}
	for _, tc := range tests {
		got := h.PulseFactor(tc.pulse, tc.time)
		if math.Abs(float64(got-tc.want)) > 1e-4 {
			t.Errorf("PulseFactor(%g, %g) = %g, want %g", tc.pulse, tc.time, got, tc.want)
		}
	}
}

func TestWindDirection(t *testing.T) {
	tests := []struct {
		deg  float32
		x, y float32
	}{
		{0, 1, 0},
		{90, 0, 1},
		{180, -1, 0},
		{270, 0, -1},
	}
	for _, tc := range tests {
		d := WindDirection(tc.deg)
		if math.Abs(float64(d.X-tc.x)) > 1e-5 || math.Abs(float64(d.Y-tc.y)) > 1e-5 {
			t.Errorf("WindDirection(%g) = %+v, want (%g, %g)", tc.deg, d, tc.x, tc.y)
		}
	}
}

func TestInjectForcesSkipsNegligibleEffects(t *testing.T) {
	s := newTestSolver(t, 32, 32)
	s.InjectForces(0, []ForceField{{X: 16, Y: 16, Radius: 0.3, Force: 0.005, Spin: -0.01, WindForce: 0.009, Turbulence: 0.01}}, nil, white)

	assertZero(t, "velocity", s.Velocity().Read())
	assertZero(t, "density", s.Density().Read())
}

func TestEmitterPushesUp(t *testing.T) {
	s := newTestSolver(t, 64, 64)
	s.InjectForces(0, nil, []Emitter{{X: 32, Y: 32}}, [3]float32{1, 0, 0})

	vel := s.Velocity().Read()
	den := s.Density().Read()
	if vy := vel.At(32, 31, 1); vy <= 0 {
		t.Errorf("expected upward velocity at emitter, got %g", vy)
	}
	if vel.At(32, 31, 0) != 0 {
		t.Errorf("emitter should not add horizontal velocity, got %g", vel.At(32, 31, 0))
	}
	if den.At(32, 31, 0) <= 0 || den.At(32, 31, 1) != 0 {
		t.Errorf("expected red dye only, got (%g, %g)", den.At(32, 31, 0), den.At(32, 31, 1))
	}
}

func TestVortexTurnsCounterClockwise(t *testing.T) {
	s := newTestSolver(t, 64, 64)
	s.SplatVortex(32, 32, 0.2, 5)

	vel := s.Velocity().Read()
	// Right of centre the flow goes up, above the centre it goes left.
	if vy := vel.At(40, 31, 1); vy <= 0 {
		t.Errorf("expected upward flow right of centre, got %g", vy)
	}
	if vx := vel.At(31, 40, 0); vx >= 0 {
		t.Errorf("expected leftward flow above centre, got %g", vx)
	}
}

func TestWindFollowsAngle(t *testing.T) {
	s := newTestSolver(t, 64, 64)
	s.SplatWind(32, 32, 0.2, 3, 90)

	vel := s.Velocity().Read()
	if vy := vel.At(32, 31, 1); vy <= 0 {
		t.Errorf("expected upward wind, got %g", vy)
	}
	if vx := vel.At(32, 31, 0); math.Abs(float64(vx)) > 1e-5 {
		t.Errorf("expected no horizontal wind, got %g", vx)
	}
}

func TestTurbulenceStirs(t *testing.T) {
	s := newTestSolver(t, 64, 64, WithSeed(42))
	s.SplatTurbulence(32, 32, 0.3, 2, 0.5)

	vel := s.Velocity().Read()
	if vel.AbsSum() == 0 {
		t.Fatal("turbulence added nothing")
	}
	if vel.At(0, 0, 0) != 0 || vel.At(0, 0, 1) != 0 {
		t.Error("turbulence reached outside its radius")
	}
}

func TestBatchMatchesSequential(t *testing.T) {
	var pts []ForcePoint
	for k := 0; k < 150; k++ {
		pts = append(pts, ForcePoint{
			X:        float32(5 + (k*7)%54),
			Y:        float32(5 + (k*13)%54),
			Radius:   0.08,
			Strength: float32(k%5) - 2,
			Angle:    float32(k * 30),
		})
	}

	tests := []struct {
		name   string
		batch  func(*Solver)
		single func(*Solver, ForcePoint)
	}{
		{"radial", func(s *Solver) { s.SplatRadialBatch(pts) }, func(s *Solver, p ForcePoint) { s.SplatRadial(p.X, p.Y, p.Radius, p.Strength) }},
		{"vortex", func(s *Solver) { s.SplatVortexBatch(pts) }, func(s *Solver, p ForcePoint) { s.SplatVortex(p.X, p.Y, p.Radius, p.Strength) }},
		{"wind", func(s *Solver) { s.SplatWindBatch(pts) }, func(s *Solver, p ForcePoint) { s.SplatWind(p.X, p.Y, p.Radius, p.Strength, p.Angle) }},
		{"turbulence", func(s *Solver) { s.SplatTurbulenceBatch(pts, 1.5) }, func(s *Solver, p ForcePoint) { s.SplatTurbulence(p.X, p.Y, p.Radius, p.Strength, 1.5) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			batched := newTestSolver(t, 64, 64)
			sequential := newTestSolver(t, 64, 64)

			tc.batch(batched)
			for _, p := range pts {
				tc.single(sequential, p)
			}

			a := batched.Velocity().Read().Data
			b := sequential.Velocity().Read().Data
			for k := range a {
				if math.Abs(float64(a[k]-b[k])) > 1e-4 {
					t.Fatalf("batched and sequential differ at %d: %g vs %g", k, a[k], b[k])
				}
			}
		})
	}
}

func TestSplatBatchChunks(t *testing.T) {
	batched := newTestSolver(t, 32, 32)
	sequential := newTestSolver(t, 32, 32)

	var pts []SplatPoint
	for k := 0; k < MaxBatch*2+3; k++ {
		pts = append(pts, SplatPoint{X: float32(k % 32), Y: float32(k / 5), DX: 1, DY: -1, Color: [3]float32{0.01, 0.02, 0.03}, Radius: 0.002})
	}
	batched.SplatBatch(pts)
	for _, p := range pts {
		sequential.Splat(p.X, p.Y, p.DX, p.DY, p.Color, p.Radius)
	}

	a := batched.Density().Read().Data
	b := sequential.Density().Read().Data
	for k := range a {
		if math.Abs(float64(a[k]-b[k])) > 1e-5 {
			t.Fatalf("density differs at %d: %g vs %g", k, a[k], b[k])
		}
	}
}

func TestSinkDrains(t *testing.T) {
	s := newTestSolver(t, 32, 32)
	s.Emit(solidImage(32, 32, 255), &Vec2{X: 1}, 1)

	s.Sink(SinkDensity, 16, 16, 0.2, 1)
	s.Sink(SinkVelocity, 16, 16, 0.2, 0.5)

	den := s.Density().Read()
	vel := s.Velocity().Read()
	if c := den.At(16, 15, 0); c >= 0.2 {
		t.Errorf("expected drained density at the core, got %g", c)
	}
	if e := den.At(0, 0, 0); !near(e, 1) {
		t.Errorf("density outside the sink changed: %g", e)
	}
	if v := vel.At(16, 15, 0); v >= 0.6 || v <= 0.4 {
		t.Errorf("expected velocity near half at the core, got %g", v)
	}
}

func TestDensitySinkBase(t *testing.T) {
	core := func(base float32) float32 {
		h := DefaultHeuristics()
		h.DensitySinkGain = 0
		h.DensitySinkBase = base
		s := newTestSolver(t, 32, 32, WithHeuristics(h))
		s.Emit(solidImage(32, 32, 255), nil, 1)
		s.InjectForces(0, []ForceField{{X: 16, Y: 16, Radius: 0.4, Force: -1}}, nil, [3]float32{})
		return s.Density().Read().At(16, 15, 0)
	}

	if c := core(0); !near(c, 1) {
		t.Errorf("zero-strength sink drained density: %g", c)
	}
	if c := core(0.8); c >= 0.5 {
		t.Errorf("expected base to drain the core, got %g", c)
	}
}
