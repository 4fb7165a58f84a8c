package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/eddy/fluid"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Derived.GridW != 320 || cfg.Derived.GridH != 180 {
		t.Errorf("expected 320x180 grid, got %dx%d", cfg.Derived.GridW, cfg.Derived.GridH)
	}
	if cfg.Solver.PressureIterations != 20 {
		t.Errorf("expected 20 pressure iterations, got %d", cfg.Solver.PressureIterations)
	}
	if cfg.Derived.DisplayMode != fluid.DisplayDensity {
		t.Errorf("expected density view, got %v", cfg.Derived.DisplayMode)
	}
	if len(cfg.Scenario.Emitters) == 0 || len(cfg.Scenario.ForceFields) == 0 {
		t.Error("expected a default scenario")
	}
}

func TestDefaultsMatchSolverHeuristics(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	got := cfg.Derived.Heuristics
	want := fluid.DefaultHeuristics()
	pairs := []struct {
		name      string
		got, want float32
	}{
		{"pulse rate", got.PulseRate, want.PulseRate},
		{"pulse depth", got.PulseDepth, want.PulseDepth},
		{"pulse threshold", got.PulseThreshold, want.PulseThreshold},
		{"effect threshold", got.EffectThreshold, want.EffectThreshold},
		{"density sink radius", got.DensitySinkRadius, want.DensitySinkRadius},
		{"density sink gain", got.DensitySinkGain, want.DensitySinkGain},
		{"density sink base", got.DensitySinkBase, want.DensitySinkBase},
		{"density sink max", got.DensitySinkMax, want.DensitySinkMax},
		{"velocity sink radius", got.VelocitySinkRadius, want.VelocitySinkRadius},
		{"velocity sink gain", got.VelocitySinkGain, want.VelocitySinkGain},
		{"velocity sink base", got.VelocitySinkBase, want.VelocitySinkBase},
		{"velocity sink max", got.VelocitySinkMax, want.VelocitySinkMax},
		{"emission speed", got.EmissionSpeed, want.EmissionSpeed},
		{"emitter radius", got.EmitterRadius, want.EmitterRadius},
	}
	for _, p := range pairs {
		if math.Abs(float64(p.got-p.want)) > 1e-6 {
			t.Errorf("%s: config %g, solver default %g", p.name, p.got, p.want)
		}
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	overlay := []byte(`
grid:
  width: 128
  height: 96
solver:
  viscosity: 0.05
display:
  mode: velocity
forces:
  density_sink:
    base: 0.25
scenario:
  obstacle_mask: walls.png
  emission_velocity: { x: 0, y: -2 }
`)
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if cfg.Derived.GridW != 128 || cfg.Derived.GridH != 96 {
		t.Errorf("expected 128x96 grid, got %dx%d", cfg.Derived.GridW, cfg.Derived.GridH)
	}
	if cfg.Solver.Viscosity != 0.05 {
		t.Errorf("expected viscosity 0.05, got %f", cfg.Solver.Viscosity)
	}
	// Untouched keys keep their defaults.
	if cfg.Solver.Fade != 0.5 {
		t.Errorf("expected default fade 0.5, got %f", cfg.Solver.Fade)
	}
	if cfg.Derived.DisplayMode != fluid.DisplayVelocity {
		t.Errorf("expected velocity view, got %v", cfg.Derived.DisplayMode)
	}
	if cfg.Derived.Heuristics.DensitySinkBase != 0.25 {
		t.Errorf("expected density sink base 0.25, got %f", cfg.Derived.Heuristics.DensitySinkBase)
	}
	if cfg.Scenario.ObstacleMask != "walls.png" || cfg.Scenario.EmissionMask != "" {
		t.Errorf("unexpected masks %q, %q", cfg.Scenario.ObstacleMask, cfg.Scenario.EmissionMask)
	}
	if v := cfg.Scenario.EmissionVelocity.Velocity(); v == nil || v.Y != -2 {
		t.Errorf("expected emission velocity (0, -2), got %+v", v)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("display:\n  mode: sideways\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown display mode")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Solver.Gravity = 3.5

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if back.Solver.Gravity != 3.5 {
		t.Errorf("expected gravity 3.5, got %f", back.Solver.Gravity)
	}
	if len(back.Scenario.ForceFields) != len(cfg.Scenario.ForceFields) {
		t.Error("scenario lost in roundtrip")
	}
}

func TestSolverOptions(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Solver.Workers = 0

	s, err := fluid.New(cfg.Derived.GridW, cfg.Derived.GridH, cfg.SolverOptions()...)
	if err != nil {
		t.Fatalf("building solver: %v", err)
	}
	defer s.Close()

	ff := cfg.Scenario.ForceFields[0].ForceField(3)
	if ff.ID != 3 || ff.Spin != 6 {
		t.Errorf("unexpected force field %+v", ff)
	}
}
