package fluid

// Direct injection API. Positions are grid pixel coordinates with a
// top-left origin and velocities use the same screen convention (y down).
// Radii are normalized; point splats treat radius as the Gaussian width
// (exp(-d²/radius)), every other kind as a hard cutoff distance.
//
// Each call runs against the active obstacle field left by the last
// MergeObstacles.

// SplatPoint is one entry of SplatBatch.
type SplatPoint struct {
	X, Y   float32
	DX, DY float32
	Color  [3]float32
	Radius float32
}

// ForcePoint is one entry of the radial, vortex, wind and turbulence
// batches. Angle is only read by wind splats (degrees, counter-clockwise).
type ForcePoint struct {
	X, Y     float32
	Radius   float32
	Strength float32
	Angle    float32
}

// SinkTarget selects the field a Sink drains.
type SinkTarget int

const (
	SinkDensity SinkTarget = iota
	SinkVelocity
)

// Splat adds a Gaussian blob of velocity (dx, dy) and dye color at (x, y).
func (s *Solver) Splat(x, y, dx, dy float32, color [3]float32, radius float32) {
	s.SplatBatch([]SplatPoint{{X: x, Y: y, DX: dx, DY: dy, Color: color, Radius: radius}})
}

// SplatBatch applies many point splats, MaxBatch per pass.
func (s *Solver) SplatBatch(pts []SplatPoint) {
	if len(pts) == 0 {
		return
	}
	vel := make([]Impulse, len(pts))
	den := make([]Impulse, len(pts))
	for k, p := range pts {
		pt := s.pointFromPixel(p.X, p.Y)
		vel[k] = Impulse{Point: pt, Radius: p.Radius, Value: [4]float32{p.DX, -p.DY}}
		den[k] = Impulse{Point: pt, Radius: p.Radius, Value: [4]float32{p.Color[0], p.Color[1], p.Color[2]}}
	}
	obs := s.obstacles.Read()
	s.pass(splatPoint, 0).apply(s.pool, s.velocity, obs, vel)
	s.pass(splatPoint, 0).apply(s.pool, s.density, obs, den)
}

// SplatRadial pushes velocity away from (x, y), or pulls when strength is
// negative.
func (s *Solver) SplatRadial(x, y, radius, strength float32) {
	s.SplatRadialBatch([]ForcePoint{{X: x, Y: y, Radius: radius, Strength: strength}})
}

// SplatRadialBatch applies many radial splats.
func (s *Solver) SplatRadialBatch(pts []ForcePoint) {
	s.forceBatch(splatRadial, 0, pts)
}

// SplatVortex swirls velocity around (x, y); positive strength turns
// counter-clockwise on screen.
func (s *Solver) SplatVortex(x, y, radius, strength float32) {
	s.SplatVortexBatch([]ForcePoint{{X: x, Y: y, Radius: radius, Strength: strength}})
}

// SplatVortexBatch applies many vortex splats.
func (s *Solver) SplatVortexBatch(pts []ForcePoint) {
	s.forceBatch(splatVortex, 0, pts)
}

// SplatWind pushes velocity along angleDeg within radius of (x, y).
func (s *Solver) SplatWind(x, y, radius, strength, angleDeg float32) {
	s.SplatWindBatch([]ForcePoint{{X: x, Y: y, Radius: radius, Strength: strength, Angle: angleDeg}})
}

// SplatWindBatch applies many wind splats, each with its own angle.
func (s *Solver) SplatWindBatch(pts []ForcePoint) {
	s.forceBatch(splatWind, 0, pts)
}

// SplatTurbulence stirs velocity with the noise field sampled at time.
func (s *Solver) SplatTurbulence(x, y, radius, strength, time float32) {
	s.SplatTurbulenceBatch([]ForcePoint{{X: x, Y: y, Radius: radius, Strength: strength}}, time)
}

// SplatTurbulenceBatch applies many turbulence splats sharing one time.
func (s *Solver) SplatTurbulenceBatch(pts []ForcePoint, time float32) {
	s.forceBatch(splatTurbulence, time, pts)
}

// Sink attenuates target toward zero within radius of (x, y). strength 1
// empties the centre cell.
func (s *Solver) Sink(target SinkTarget, x, y, radius, strength float32) {
	f := s.density
	if target == SinkVelocity {
		f = s.velocity
	}
	imp := []Impulse{{Point: s.pointFromPixel(x, y), Radius: radius, Strength: strength}}
	s.pass(splatSink, 0).apply(s.pool, f, s.obstacles.Read(), imp)
}

func (s *Solver) forceBatch(kind splatKind, time float32, pts []ForcePoint) {
	if len(pts) == 0 {
		return
	}
	imps := make([]Impulse, len(pts))
	for k, p := range pts {
		imps[k] = Impulse{Point: s.pointFromPixel(p.X, p.Y), Radius: p.Radius, Strength: p.Strength}
		if kind == splatWind {
			imps[k].Dir = WindDirection(p.Angle)
		}
	}
	s.pass(kind, time).apply(s.pool, s.velocity, s.obstacles.Read(), imps)
}
