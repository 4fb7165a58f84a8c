package fluid

import (
	"log/slog"

	"github.com/chewxy/math32"
)

// Stats summarizes the current fields.
type Stats struct {
	Tick          uint64
	DensityMass   float32 // sum of |density| over all channels
	KineticEnergy float32 // 0.5 * sum |v|²
	MaxSpeed      float32
	Divergence    float32 // L2 norm of the velocity divergence
	ObstacleCells int
}

// LogValue implements slog.LogValuer.
func (st Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", st.Tick),
		slog.Float64("mass", float64(st.DensityMass)),
		slog.Float64("energy", float64(st.KineticEnergy)),
		slog.Float64("max_speed", float64(st.MaxSpeed)),
		slog.Float64("divergence", float64(st.Divergence)),
		slog.Int("obstacles", st.ObstacleCells),
	)
}

// Stats computes diagnostics over the read buffers. No field changes role.
func (s *Solver) Stats() Stats {
	vel := s.velocity.Read()
	n := vel.Norm()

	var maxSpeed float32
	for o := 0; o < len(vel.Data); o += vel.C {
		vx, vy := vel.Data[o], vel.Data[o+1]
		maxSpeed = max(maxSpeed, vx*vx+vy*vy)
	}

	obs := s.obstacles.Read()
	solid := 0
	for _, m := range obs.Data {
		if m > obstacleThreshold {
			solid++
		}
	}

	return Stats{
		Tick:          s.tick,
		DensityMass:   s.density.Read().AbsSum(),
		KineticEnergy: 0.5 * n * n,
		MaxSpeed:      math32.Sqrt(maxSpeed),
		Divergence:    s.DivergenceNorm(),
		ObstacleCells: solid,
	}
}

// DivergenceNorm returns the L2 norm of the divergence of the current
// velocity, using the same central differences as the pressure solve.
func (s *Solver) DivergenceNorm() float32 {
	divergence(s.pool, s.stats, s.velocity.Read())
	return s.stats.Norm()
}
