package fluid

import "image"

// Core per-cell kernels. Each reads only source grids and writes only dst;
// the caller swaps the destination field afterwards.

// advect performs a semi-Lagrangian backward trace of src along vel and
// divides by (1 + dissipation*dt). Obstacle cells are zeroed.
func advect(p *rowPool, dst, vel, src, obs *Grid, dt, dissipation float32) {
	w := dst.W
	tx, ty := 1/float32(dst.W), 1/float32(dst.H)
	decay := 1 / (1 + dissipation*dt)

	p.dispatch(dst.H, func(j0, j1 int) {
		var s [4]float32
		for j := j0; j < j1; j++ {
			for i := 0; i < w; i++ {
				o := dst.Index(i, j)
				if obs.Solid(i, j) {
					clear(dst.Data[o : o+dst.C])
					continue
				}
				vi := vel.Index(i, j)
				u := (float32(i)+0.5)*tx - dt*vel.Data[vi]*tx
				v := (float32(j)+0.5)*ty - dt*vel.Data[vi+1]*ty
				src.sampleInto(u, v, s[:src.C])
				for c := 0; c < dst.C; c++ {
					dst.Data[o+c] = s[c] * decay
				}
			}
		}
	})
}

// divergence writes the central-difference divergence of vel into dst.
// Neighbours beyond the border clamp to the edge cell.
func divergence(p *rowPool, dst, vel *Grid) {
	w, h := dst.W, dst.H

	p.dispatch(h, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			jb, jt := max(j-1, 0), min(j+1, h-1)
			for i := 0; i < w; i++ {
				il, ir := max(i-1, 0), min(i+1, w-1)
				uL := vel.Data[vel.Index(il, j)]
				uR := vel.Data[vel.Index(ir, j)]
				vB := vel.Data[vel.Index(i, jb)+1]
				vT := vel.Data[vel.Index(i, jt)+1]
				dst.Data[j*w+i] = 0.5 * ((uR - uL) + (vT - vB))
			}
		}
	})
}

// neighbourPressure returns the pressure at (i, j) or, when that cell is
// solid, the centre pressure pc. This gives the Neumann-like wall boundary
// shared by pressureRelax and projectGradient.
func neighbourPressure(pr, obs *Grid, i, j int, pc float32) float32 {
	if obs.Solid(i, j) {
		return pc
	}
	return pr.Data[j*pr.W+i]
}

// pressureRelax runs one Jacobi iteration of the pressure Poisson equation.
func pressureRelax(p *rowPool, dst, pr, div, obs *Grid) {
	w, h := dst.W, dst.H

	p.dispatch(h, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			jb, jt := max(j-1, 0), min(j+1, h-1)
			for i := 0; i < w; i++ {
				idx := j*w + i
				if obs.Solid(i, j) {
					dst.Data[idx] = 0
					continue
				}
				il, ir := max(i-1, 0), min(i+1, w-1)
				pc := pr.Data[idx]
				pL := neighbourPressure(pr, obs, il, j, pc)
				pR := neighbourPressure(pr, obs, ir, j, pc)
				pB := neighbourPressure(pr, obs, i, jb, pc)
				pT := neighbourPressure(pr, obs, i, jt, pc)
				dst.Data[idx] = (pL + pR + pB + pT - div.Data[idx]) * 0.25
			}
		}
	})
}

// projectGradient subtracts the pressure gradient from vel.
func projectGradient(p *rowPool, dst, pr, vel, obs *Grid) {
	w, h := dst.W, dst.H

	p.dispatch(h, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			jb, jt := max(j-1, 0), min(j+1, h-1)
			for i := 0; i < w; i++ {
				o := dst.Index(i, j)
				if obs.Solid(i, j) {
					dst.Data[o] = 0
					dst.Data[o+1] = 0
					continue
				}
				il, ir := max(i-1, 0), min(i+1, w-1)
				pc := pr.Data[j*w+i]
				pL := neighbourPressure(pr, obs, il, j, pc)
				pR := neighbourPressure(pr, obs, ir, j, pc)
				pB := neighbourPressure(pr, obs, i, jb, pc)
				pT := neighbourPressure(pr, obs, i, jt, pc)
				dst.Data[o] = vel.Data[o] - 0.5*(pR-pL)
				dst.Data[o+1] = vel.Data[o+1] - 0.5*(pT-pB)
			}
		}
	})
}

// gravity adds (0, -g*dt) to every cell, obstacles included; the next
// advection zeroes those again.
func gravity(p *rowPool, dst, vel *Grid, dt, g float32) {
	w := dst.W
	dv := g * dt

	p.dispatch(dst.H, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < w; i++ {
				o := dst.Index(i, j)
				dst.Data[o] = vel.Data[o]
				dst.Data[o+1] = vel.Data[o+1] - dv
			}
		}
	})
}

// DisplayMode selects what the display kernel visualizes.
type DisplayMode int

const (
	DisplayDensity DisplayMode = iota
	DisplayVelocity
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayDensity:
		return "density"
	case DisplayVelocity:
		return "velocity"
	default:
		return "unknown"
	}
}

// ObstacleHighlight is the sentinel colour written over obstacle cells when
// the overlay is on.
var ObstacleHighlight = [3]float32{1, 0, 1}

// display composites the requested view into img. Image rows run top-down,
// so grid row j lands on image row H-1-j.
func display(p *rowPool, img *image.RGBA, den, vel, obs *Grid, mode DisplayMode, showObstacles bool, velocityScale float32) {
	w, h := den.W, den.H

	p.dispatch(h, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := img.Pix[(h-1-j)*img.Stride:]
			for i := 0; i < w; i++ {
				var r, g, b float32
				switch {
				case showObstacles && obs.Solid(i, j):
					r, g, b = ObstacleHighlight[0], ObstacleHighlight[1], ObstacleHighlight[2]
				case mode == DisplayVelocity:
					o := vel.Index(i, j)
					r = vel.Data[o]*velocityScale*0.5 + 0.5
					g = vel.Data[o+1]*velocityScale*0.5 + 0.5
					b = 0.5
				default:
					o := den.Index(i, j)
					r, g, b = den.Data[o], den.Data[o+1], den.Data[o+2]
				}
				px := row[i*4 : i*4+4]
				px[0] = toByte(r)
				px[1] = toByte(g)
				px[2] = toByte(b)
				px[3] = 0xff
			}
		}
	})
}

func toByte(v float32) uint8 {
	if v != v { // NaN
		return 0
	}
	return uint8(clampf(v, 0, 1)*255 + 0.5)
}
