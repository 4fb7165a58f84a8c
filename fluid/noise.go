package fluid

import "github.com/ojrac/opensimplex-go"

// Frequencies of the two turbulence bands, in cycles per grid width.
const (
	turbulenceLowFreq  = 4.0
	turbulenceHighFreq = 12.0
	turbulenceHighGain = 0.5
)

// turbulence is a two-band simplex noise vector field evolving with time.
type turbulence struct {
	noise opensimplex.Noise
}

func newTurbulence(seed int64) *turbulence {
	return &turbulence{noise: opensimplex.New(seed)}
}

// at returns the noise vector at texture coordinates (u, v). Each
// component lies roughly in [-1.5, 1.5].
func (t *turbulence) at(u, v, time float32) (nx, ny float32) {
	x, y, z := float64(u), float64(v), float64(time)
	nx = float32(t.noise.Eval3(x*turbulenceLowFreq, y*turbulenceLowFreq, z) +
		turbulenceHighGain*t.noise.Eval3(x*turbulenceHighFreq, y*turbulenceHighFreq, z))
	// Offset the second component so the two are uncorrelated.
	ny = float32(t.noise.Eval3(x*turbulenceLowFreq+31.7, y*turbulenceLowFreq+17.3, z) +
		turbulenceHighGain*t.noise.Eval3(x*turbulenceHighFreq+31.7, y*turbulenceHighFreq+17.3, z))
	return nx, ny
}
