package fluid

import "github.com/chewxy/math32"

// Phase names reported to a PhaseTimer during a tick.
const (
	PhaseObstacles  = "obstacles"
	PhaseEmission   = "emission"
	PhaseForces     = "forces"
	PhaseGravity    = "gravity"
	PhaseAdvect     = "advect"
	PhaseDivergence = "divergence"
	PhasePressure   = "pressure"
	PhaseProject    = "project"
)

// gravityEpsilon is the magnitude below which the gravity pass is skipped.
const gravityEpsilon = 1e-6

// PhaseTimer receives a call at the start of each pipeline phase.
// telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(name string)
}

func (s *Solver) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Step advances the simulation by dt:
//
//  1. gravity, when |g| is not negligible
//  2. velocity advected along itself, dissipated by viscosity
//  3. density advected along the new velocity, dissipated by fade
//  4. divergence of the advected velocity
//  5. iterations Jacobi pressure relaxations, warm-started from the
//     previous tick's pressure
//  6. pressure gradient subtracted from velocity
//
// With iterations <= 0 steps 4-6 are skipped and the velocity is left
// exactly as advection produced it. dt is not validated.
func (s *Solver) Step(dt, viscosity, fade float32, iterations int, g float32) {
	obs := s.obstacles.Read()

	if math32.Abs(g) > gravityEpsilon {
		s.phase(PhaseGravity)
		gravity(s.pool, s.velocity.Write(), s.velocity.Read(), dt, g)
		s.velocity.Swap()
	}

	s.phase(PhaseAdvect)
	advect(s.pool, s.velocity.Write(), s.velocity.Read(), s.velocity.Read(), obs, dt, viscosity)
	s.velocity.Swap()
	advect(s.pool, s.density.Write(), s.velocity.Read(), s.density.Read(), obs, dt, fade)
	s.density.Swap()

	if iterations <= 0 {
		return
	}

	s.phase(PhaseDivergence)
	divergence(s.pool, s.divergence.Write(), s.velocity.Read())

	s.phase(PhasePressure)
	for range iterations {
		pressureRelax(s.pool, s.pressure.Write(), s.pressure.Read(), s.divergence.Read(), obs)
		s.pressure.Swap()
	}

	s.phase(PhaseProject)
	projectGradient(s.pool, s.velocity.Write(), s.pressure.Read(), s.velocity.Read(), obs)
	s.velocity.Swap()
}
