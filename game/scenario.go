package game

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/pthm-cable/eddy/telemetry"
)

// loadScenario places the configured emitters, force fields and obstacles.
func (g *Game) loadScenario() {
	sc := g.cfg.Scenario
	for _, e := range sc.Emitters {
		g.scene.AddEmitter(float32(e.X), float32(e.Y))
	}
	for _, ff := range sc.ForceFields {
		g.scene.AddForceField(ff.ForceField(0))
	}
	for _, o := range sc.Obstacles {
		g.solver.DrawObstacle(float32(o.X), float32(o.Y), float32(o.Radius), false)
	}
}

// loadSnapshot rebuilds the scene from a snapshot. Obstacles come from the
// scenario since snapshots do not store field contents.
func (g *Game) loadSnapshot(s *telemetry.Snapshot) {
	w, h := g.solver.Size()
	if s.GridWidth != w || s.GridHeight != h {
		slog.Warn("snapshot grid differs from config",
			"snapshot_w", s.GridWidth, "snapshot_h", s.GridHeight,
			"grid_w", w, "grid_h", h,
		)
	}

	fields, emitters := s.Scene()
	for _, ff := range fields {
		g.scene.AddForceField(ff)
	}
	for _, e := range emitters {
		g.scene.AddEmitter(e.X, e.Y)
	}
	for _, o := range g.cfg.Scenario.Obstacles {
		g.solver.DrawObstacle(float32(o.X), float32(o.Y), float32(o.Radius), false)
	}
}

// loadMasks decodes the scenario mask images. They are resampled to the
// grid by the solver, so any resolution works.
func (g *Game) loadMasks() error {
	var err error
	if g.obstacleMask, err = loadImage(g.cfg.Scenario.ObstacleMask); err != nil {
		return fmt.Errorf("loading obstacle mask: %w", err)
	}
	if g.emissionMask, err = loadImage(g.cfg.Scenario.EmissionMask); err != nil {
		return fmt.Errorf("loading emission mask: %w", err)
	}
	return nil
}

// loadImage decodes the image at path. An empty path yields nil.
func loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	slog.Info("mask loaded", "path", path, "bounds", img.Bounds())
	return img, nil
}
