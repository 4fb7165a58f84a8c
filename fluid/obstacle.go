package fluid

import "github.com/chewxy/math32"

// Mask and emission kernels. The two mask kernels discard cells they do
// not cover, leaving whatever the destination already holds.

// rasterizeObstacle writes 1 (0 when erasing) into every cell of dst within
// radius of pt. dst must not be read by the same pass.
func rasterizeObstacle(p *rowPool, dst *Grid, pt Vec2, radius, aspect float32, erase bool) {
	w := dst.W
	tx, ty := 1/float32(dst.W), 1/float32(dst.H)
	var value float32 = 1
	if erase {
		value = 0
	}
	r2 := radius * radius

	// Only the rows the circle touches can change.
	jLo := max(int(math32.Floor((pt.Y-radius)*float32(dst.H))), 0)
	jHi := min(int(math32.Ceil((pt.Y+radius)*float32(dst.H)))+1, dst.H)
	if jLo >= jHi {
		return
	}

	p.dispatch(jHi-jLo, func(r0, r1 int) {
		for j := jLo + r0; j < jLo+r1; j++ {
			dy := (float32(j)+0.5)*ty - pt.Y
			for i := 0; i < w; i++ {
				dx := ((float32(i)+0.5)*tx - pt.X) * aspect
				if dx*dx+dy*dy <= r2 {
					dst.Data[j*w+i] = value
				}
			}
		}
	})
}

// compositeObstacleSource writes 1 into dst wherever the scalar src exceeds
// the obstacle threshold and discards every other cell.
func compositeObstacleSource(p *rowPool, dst, src *Grid) {
	w := dst.W

	p.dispatch(dst.H, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < w; i++ {
				idx := j*w + i
				if src.Data[idx*src.C] > obstacleThreshold {
					dst.Data[idx] = 1
				}
			}
		}
	})
}

// emitDensity adds mask.rgb * strength to the density, skipping obstacles.
func emitDensity(p *rowPool, dst, den, mask, obs *Grid, strength float32) {
	w := dst.W

	p.dispatch(dst.H, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < w; i++ {
				o := dst.Index(i, j)
				copy(dst.Data[o:o+dst.C], den.Data[o:o+dst.C])
				if obs.Solid(i, j) {
					continue
				}
				m := mask.Index(i, j)
				for c := 0; c < 3; c++ {
					dst.Data[o+c] += mask.Data[m+c] * strength
				}
			}
		}
	})
}

// emitVelocity adds vel * mask.r * strength to the velocity, skipping
// obstacles.
func emitVelocity(p *rowPool, dst, velocity, mask, obs *Grid, vel Vec2, strength float32) {
	w := dst.W

	p.dispatch(dst.H, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < w; i++ {
				o := dst.Index(i, j)
				dst.Data[o] = velocity.Data[o]
				dst.Data[o+1] = velocity.Data[o+1]
				if obs.Solid(i, j) {
					continue
				}
				k := mask.Data[mask.Index(i, j)] * strength
				dst.Data[o] += vel.X * k
				dst.Data[o+1] += vel.Y * k
			}
		}
	})
}
