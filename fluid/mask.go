package fluid

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// MergeObstacles rebuilds the active obstacle field: it is cleared, the
// painted mask is composited in, then src (when non-nil) is composited in
// as well. Compositing is additive; neither source can clear a cell the
// other marked. Every kernel run later in the same tick sees the result.
func (s *Solver) MergeObstacles(src image.Image) {
	s.phase(PhaseObstacles)

	s.obstacles.Clear()
	compositeObstacleSource(s.pool, s.obstacles.Write(), s.painted.Read())
	if src != nil && s.loadMask(src, s.external) {
		compositeObstacleSource(s.pool, s.obstacles.Write(), s.external)
	}
	s.obstacles.Swap()
}

// Emit injects density from the RGB channels of src, scaled by strength.
// When velocity is non-nil (screen convention, y down) momentum is added
// too, weighted by the red channel. Cells that are obstacles in the
// current field receive nothing.
func (s *Solver) Emit(src image.Image, velocity *Vec2, strength float32) {
	if src == nil || !s.loadMask(src, s.emission) {
		return
	}
	s.phase(PhaseEmission)

	obs := s.obstacles.Read()
	emitDensity(s.pool, s.density.Write(), s.density.Read(), s.emission, obs, strength)
	s.density.Swap()

	if velocity != nil {
		v := Vec2{X: velocity.X, Y: -velocity.Y}
		emitVelocity(s.pool, s.velocity.Write(), s.velocity.Read(), s.emission, obs, v, strength)
		s.velocity.Swap()
	}
}

// DrawObstacle paints (or erases) a disc into the persistent painted mask.
// x and y are grid pixel coordinates; radius is normalized. The disc joins
// the active obstacle field at the next MergeObstacles.
func (s *Solver) DrawObstacle(x, y, radius float32, erase bool) {
	rasterizeObstacle(s.pool, s.painted.Write(), s.pointFromPixel(x, y), radius, s.aspect, erase)
}

// loadMask resamples src to the grid resolution and stores its normalized
// channels in dst, flipping rows so image row 0 lands on the top grid row.
// It reports false for an empty image.
func (s *Solver) loadMask(src image.Image, dst *Grid) bool {
	if src.Bounds().Empty() {
		Logger().Warn("ignoring empty mask image", "bounds", src.Bounds())
		return false
	}

	img := s.maskImage
	xdraw.BiLinear.Scale(img, img.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	w, h := dst.W, dst.H
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		j := h - 1 - y
		for i := 0; i < w; i++ {
			px := row[i*4:]
			o := dst.Index(i, j)
			for c := 0; c < dst.C && c < 4; c++ {
				dst.Data[o+c] = float32(px[c]) / 255
			}
		}
	}
	return true
}
