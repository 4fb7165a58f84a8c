package fluid

import "github.com/chewxy/math32"

// MaxBatch is the number of points a single batched splat pass accepts.
// Longer lists are split into sequential passes.
const MaxBatch = 64

// gaussianCutoff bounds |d|²/radius beyond which a point splat contributes
// less than float32 resolution.
const gaussianCutoff = 40

// Vec2 is a 2-component vector.
type Vec2 struct {
	X, Y float32
}

// Impulse is one splat point in normalized, y-up coordinates.
type Impulse struct {
	Point  Vec2
	Radius float32
	// Strength scales radial, vortex, wind, turbulence and sink splats.
	Strength float32
	// Dir is the unit direction of a wind splat.
	Dir Vec2
	// Value is added per component by a point splat.
	Value [4]float32
}

type splatKind uint8

const (
	splatPoint splatKind = iota
	splatRadial
	splatVortex
	splatWind
	splatTurbulence
	splatSink
)

func (k splatKind) String() string {
	switch k {
	case splatPoint:
		return "point"
	case splatRadial:
		return "radial"
	case splatVortex:
		return "vortex"
	case splatWind:
		return "wind"
	case splatTurbulence:
		return "turbulence"
	case splatSink:
		return "sink"
	default:
		return "unknown"
	}
}

// splatPass is the splat kernel family. Every variant copies src to dst,
// leaves obstacle cells untouched and accumulates the contribution of all
// points in one pass.
type splatPass struct {
	kind   splatKind
	aspect float32
	time   float32
	noise  *turbulence
}

// apply runs the pass over f in chunks of MaxBatch points, swapping after
// each chunk.
func (sp splatPass) apply(p *rowPool, f *Field, obs *Grid, pts []Impulse) {
	for len(pts) > 0 {
		n := min(len(pts), MaxBatch)
		sp.run(p, f.Write(), f.Read(), obs, pts[:n])
		f.Swap()
		pts = pts[n:]
	}
}

func (sp splatPass) run(p *rowPool, dst, src, obs *Grid, pts []Impulse) {
	w, c := dst.W, dst.C
	tx, ty := 1/float32(dst.W), 1/float32(dst.H)

	p.dispatch(dst.H, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			v := (float32(j) + 0.5) * ty
			for i := 0; i < w; i++ {
				o := dst.Index(i, j)
				out := dst.Data[o : o+c]
				copy(out, src.Data[o:o+c])
				if obs.Solid(i, j) {
					continue
				}
				u := (float32(i) + 0.5) * tx

				var nx, ny float32
				noiseReady := false
				for k := range pts {
					pt := &pts[k]
					dx := (u - pt.Point.X) * sp.aspect
					dy := v - pt.Point.Y
					d2 := dx*dx + dy*dy

					if sp.kind == splatPoint {
						if d2 > pt.Radius*gaussianCutoff {
							continue
						}
						e := math32.Exp(-d2 / pt.Radius)
						for ci := range out {
							out[ci] += pt.Value[ci] * e
						}
						continue
					}

					if d2 >= pt.Radius*pt.Radius {
						continue
					}
					d := math32.Sqrt(d2)
					f := (1 - d/pt.Radius) * pt.Strength

					switch sp.kind {
					case splatRadial:
						if d > 0 {
							out[0] += dx / d * f
							out[1] += dy / d * f
						}
					case splatVortex:
						if d > 0 {
							out[0] -= dy / d * f
							out[1] += dx / d * f
						}
					case splatWind:
						out[0] += pt.Dir.X * f
						out[1] += pt.Dir.Y * f
					case splatTurbulence:
						if !noiseReady {
							nx, ny = sp.noise.at(u, v, sp.time)
							noiseReady = true
						}
						out[0] += nx * f
						out[1] += ny * f
					case splatSink:
						keep := 1 - f
						for ci := range out {
							out[ci] *= keep
						}
					}
				}
			}
		}
	})
}
