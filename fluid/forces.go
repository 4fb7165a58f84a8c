package fluid

import (
	"math"

	"github.com/chewxy/math32"
)

// ForceField is a user-placed source of velocity perturbation. X and Y are
// grid pixel coordinates with a top-left origin; Radius is normalized.
type ForceField struct {
	ID     uint32
	X, Y   float32
	Radius float32

	Force      float32 // positive repels, negative attracts
	Spin       float32 // positive is counter-clockwise
	WindForce  float32
	WindAngle  float32 // degrees, counter-clockwise from +x
	Pulse      float32 // pulse frequency, >= 0
	Turbulence float32 // >= 0
}

// Emitter is a persistent upward dye and momentum source at grid pixel
// coordinates.
type Emitter struct {
	X, Y float32
}

// Heuristics holds the empirically tuned constants of force injection.
// They are stability heuristics rather than derived values and are exposed
// for configuration.
type Heuristics struct {
	PulseRate      float32 // angular multiplier k in sin(time*pulse*k)
	PulseDepth     float32
	PulseThreshold float32

	// EffectThreshold gates each effect: a magnitude at or below it
	// dispatches no pass.
	EffectThreshold float32

	// Attractor sinks, issued only while Force < 0.
	DensitySinkRadius  float32 // fraction of the field radius
	DensitySinkGain    float32
	DensitySinkBase    float32
	DensitySinkMax     float32
	VelocitySinkRadius float32
	VelocitySinkGain   float32
	VelocitySinkBase   float32
	VelocitySinkMax    float32

	EmissionSpeed float32 // emitter upward speed, cells per second
	EmitterRadius float32 // normalized point-splat radius
}

// DefaultHeuristics returns the tuned defaults.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		PulseRate:          2 * math.Pi,
		PulseDepth:         0.8,
		PulseThreshold:     0.01,
		EffectThreshold:    0.01,
		DensitySinkRadius:  0.5,
		DensitySinkGain:    0.1,
		DensitySinkBase:    0,
		DensitySinkMax:     1,
		VelocitySinkRadius: 0.75,
		VelocitySinkGain:   0.2,
		VelocitySinkBase:   0.5,
		VelocitySinkMax:    0.95,
		EmissionSpeed:      20,
		EmitterRadius:      0.0005,
	}
}

// PulseFactor returns the modulation applied to a field with the given
// pulse frequency at time.
func (h Heuristics) PulseFactor(pulse, time float32) float32 {
	if pulse <= h.PulseThreshold {
		return 1
	}
	return 1 + math32.Sin(time*pulse*h.PulseRate)*h.PulseDepth
}

// Pulsed returns the effective parameters of ff at time. The input is not
// modified; the result is meant to be computed fresh every tick.
func Pulsed(ff ForceField, time float32, h Heuristics) ForceField {
	k := h.PulseFactor(ff.Pulse, time)
	ff.Force *= k
	ff.Spin *= k
	ff.WindForce *= k
	return ff
}

// WindDirection returns the unit vector for an angle in degrees.
func WindDirection(angleDeg float32) Vec2 {
	rad := angleDeg * math.Pi / 180
	return Vec2{X: math32.Cos(rad), Y: math32.Sin(rad)}
}

// forceBatches collects impulses per effect for one injection round.
type forceBatches struct {
	radial, vortex, wind, turbulence []Impulse
	densitySinks, velocitySinks      []Impulse
	emitVelocity, emitDensity        []Impulse
}

func (b *forceBatches) reset() {
	b.radial = b.radial[:0]
	b.vortex = b.vortex[:0]
	b.wind = b.wind[:0]
	b.turbulence = b.turbulence[:0]
	b.densitySinks = b.densitySinks[:0]
	b.velocitySinks = b.velocitySinks[:0]
	b.emitVelocity = b.emitVelocity[:0]
	b.emitDensity = b.emitDensity[:0]
}

// InjectForces applies every force field and emitter for one tick. Fields
// are pulsed at time, effects below the threshold are skipped, and each
// effect is dispatched through batched passes of at most MaxBatch points.
func (s *Solver) InjectForces(time float32, fields []ForceField, emitters []Emitter, emitterColor [3]float32) {
	s.phase(PhaseForces)

	h := s.heuristics
	b := &s.batches
	b.reset()

	for _, base := range fields {
		ff := Pulsed(base, time, h)
		pt := s.pointFromPixel(ff.X, ff.Y)

		if math32.Abs(ff.Force) > h.EffectThreshold {
			b.radial = append(b.radial, Impulse{Point: pt, Radius: ff.Radius, Strength: ff.Force})

			if ff.Force < 0 {
				strength := math32.Abs(ff.Force)
				b.densitySinks = append(b.densitySinks, Impulse{
					Point:    pt,
					Radius:   ff.Radius * h.DensitySinkRadius,
					Strength: math32.Min(strength*h.DensitySinkGain+h.DensitySinkBase, h.DensitySinkMax),
				})
				b.velocitySinks = append(b.velocitySinks, Impulse{
					Point:    pt,
					Radius:   ff.Radius * h.VelocitySinkRadius,
					Strength: math32.Min(strength*h.VelocitySinkGain+h.VelocitySinkBase, h.VelocitySinkMax),
				})
			}
		}
		if math32.Abs(ff.Spin) > h.EffectThreshold {
			b.vortex = append(b.vortex, Impulse{Point: pt, Radius: ff.Radius, Strength: ff.Spin})
		}
		if math32.Abs(ff.WindForce) > h.EffectThreshold {
			b.wind = append(b.wind, Impulse{Point: pt, Radius: ff.Radius, Strength: ff.WindForce, Dir: WindDirection(ff.WindAngle)})
		}
		if ff.Turbulence > h.EffectThreshold {
			b.turbulence = append(b.turbulence, Impulse{Point: pt, Radius: ff.Radius, Strength: ff.Turbulence})
		}
	}

	for _, e := range emitters {
		pt := s.pointFromPixel(e.X, e.Y)
		// (0, -EmissionSpeed) in screen space is upward in the grid.
		b.emitVelocity = append(b.emitVelocity, Impulse{Point: pt, Radius: h.EmitterRadius, Value: [4]float32{0, h.EmissionSpeed}})
		b.emitDensity = append(b.emitDensity, Impulse{Point: pt, Radius: h.EmitterRadius, Value: [4]float32{emitterColor[0], emitterColor[1], emitterColor[2]}})
	}

	obs := s.obstacles.Read()
	s.pass(splatRadial, time).apply(s.pool, s.velocity, obs, b.radial)
	s.pass(splatVortex, time).apply(s.pool, s.velocity, obs, b.vortex)
	s.pass(splatWind, time).apply(s.pool, s.velocity, obs, b.wind)
	s.pass(splatTurbulence, time).apply(s.pool, s.velocity, obs, b.turbulence)
	s.pass(splatSink, time).apply(s.pool, s.density, obs, b.densitySinks)
	s.pass(splatSink, time).apply(s.pool, s.velocity, obs, b.velocitySinks)
	s.pass(splatPoint, time).apply(s.pool, s.velocity, obs, b.emitVelocity)
	s.pass(splatPoint, time).apply(s.pool, s.density, obs, b.emitDensity)
}

func (s *Solver) pass(kind splatKind, time float32) splatPass {
	return splatPass{kind: kind, aspect: s.aspect, time: time, noise: s.noise}
}
