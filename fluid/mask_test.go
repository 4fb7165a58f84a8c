package fluid

import (
	"image"
	"image/color"
	"testing"
)

func near(a, b float32) bool {
	d := a - b
	return d < 1e-3 && d > -1e-3
}

func solidImage(w, h int, red uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: red, G: red, B: red, A: 255})
		}
	}
	return img
}

// quadrantImage is white in the top-left quadrant and black elsewhere.
func quadrantImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{A: 255}
			if x < w/2 && y < h/2 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestMergeObstaclesIsAdditive(t *testing.T) {
	s := newTestSolver(t, 64, 64)

	// Painted disc in the bottom-right, external mask in the top-left.
	s.DrawObstacle(48, 48, 0.05, false)
	s.MergeObstacles(quadrantImage(64, 64))

	obs := s.Obstacles().Read()
	if !obs.Solid(48, 64-1-48) {
		t.Error("painted disc missing after merge")
	}
	if !obs.Solid(8, 56) {
		t.Error("external quadrant missing after merge (grid row 56 is near the top)")
	}
	if obs.Solid(8, 8) || obs.Solid(56, 56) {
		t.Error("unexpected obstacle outside both sources")
	}

	// Without the external mask only the painted disc remains.
	s.MergeObstacles(nil)
	obs = s.Obstacles().Read()
	if obs.Solid(8, 56) {
		t.Error("external mask persisted into a tick without it")
	}
	if !obs.Solid(48, 15) {
		t.Error("painted disc lost")
	}

	// An external mask cannot clear a painted cell.
	s.MergeObstacles(solidImage(64, 64, 0))
	if !s.Obstacles().Read().Solid(48, 15) {
		t.Error("black external mask cleared a painted cell")
	}
}

func TestDrawObstacleErase(t *testing.T) {
	s := newTestSolver(t, 64, 64)

	s.DrawObstacle(32, 32, 0.1, false)
	s.DrawObstacle(32, 32, 0.05, true)
	s.MergeObstacles(nil)

	obs := s.Obstacles().Read()
	if obs.Solid(32, 31) {
		t.Error("erased centre is still solid")
	}
	if !obs.Solid(32+5, 31) {
		t.Error("ring outside the erased disc should stay solid")
	}
	if obs.Solid(0, 0) {
		t.Error("corner should be open")
	}
}

func TestMergeObstaclesResamplesExternalMask(t *testing.T) {
	s := newTestSolver(t, 64, 64)

	s.MergeObstacles(quadrantImage(16, 16))
	obs := s.Obstacles().Read()
	if !obs.Solid(4, 60) {
		t.Error("upscaled mask missing in the top-left")
	}
	if obs.Solid(60, 4) {
		t.Error("upscaled mask leaked into the bottom-right")
	}
}

func TestMergeObstaclesIgnoresEmptyImage(t *testing.T) {
	s := newTestSolver(t, 16, 16)
	s.MergeObstacles(image.NewRGBA(image.Rectangle{}))
	if s.Stats().ObstacleCells != 0 {
		t.Error("empty image produced obstacles")
	}
}

func TestEmitRespectsObstacles(t *testing.T) {
	s := newTestSolver(t, 32, 32)
	s.DrawObstacle(16, 16, 0.1, false)
	s.MergeObstacles(nil)

	s.Emit(solidImage(32, 32, 255), &Vec2{X: 2, Y: -4}, 0.5)

	den := s.Density().Read()
	vel := s.Velocity().Read()
	if got := den.At(0, 0, 0); !near(got, 0.5) {
		t.Errorf("expected density 0.5 in open cell, got %g", got)
	}
	if den.At(16, 15, 0) != 0 {
		t.Error("emission inside obstacle")
	}
	// Screen-space (2, -4) is (2, +4) with y up.
	if vx, vy := vel.At(0, 0, 0), vel.At(0, 0, 1); !near(vx, 1) || !near(vy, 2) {
		t.Errorf("expected velocity (1, 2), got (%g, %g)", vx, vy)
	}

	s.Emit(solidImage(32, 32, 255), nil, 0.5)
	if vel := s.Velocity().Read(); !near(vel.At(0, 0, 1), 2) {
		t.Error("emission without a velocity changed velocity")
	}
}
