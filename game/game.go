package game

import (
	"fmt"
	"image"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eddy/camera"
	"github.com/pthm-cable/eddy/components"
	"github.com/pthm-cable/eddy/config"
	"github.com/pthm-cable/eddy/fluid"
	"github.com/pthm-cable/eddy/renderer"
	"github.com/pthm-cable/eddy/telemetry"
	"github.com/pthm-cable/eddy/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64   // Turbulence seed (0 = config)
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Stats window size in simulated seconds
	SnapshotDir    string  // Directory for bookmark snapshots
	OutputDir      string  // Directory for CSV logs and config
	Headless       bool    // Run without raylib
	StepsPerUpdate int     // Solver ticks per Update call
	SnapshotPath   string  // Scene snapshot to start from instead of the scenario
	ShaderPath     string  // Display shader override
}

// Game holds the sandbox: the solver, the editor scene and everything that
// presents them.
type Game struct {
	cfg    *config.Config
	solver *fluid.Solver
	scene  *components.Scene
	seed   int64

	// Scenario mask images (nil when unset)
	obstacleMask image.Image
	emissionMask image.Image

	// Live values edited by the solver panel
	settings ui.Settings

	// Dye hue in degrees, shared by the brush and the emitters
	hue float64
	dye [3]float32

	// Rendering (nil when headless)
	camera   *camera.Camera
	surface  *renderer.TextureSurface
	uniforms *renderer.UniformCache
	display  *renderer.DisplayShader
	readback *renderer.Readback

	// UI
	hud           *ui.HUD
	overlays      *ui.OverlayRegistry
	controlsPanel *ui.ControlsPanel
	solverPanel   *ui.SolverPanel
	statsPanel    *ui.StatsPanel
	perfPanel     *ui.PerfPanel

	// Editor
	tool      Tool
	lastMouse rl.Vector2
	dragging  bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	lastStats        fluid.Stats

	// State
	tick           int64
	simTime        float32
	paused         bool
	stepsPerUpdate int
	headless       bool
	logStats       bool
	snapshotDir    string

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a sandbox with the given options. In graphical
// mode the raylib window must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	g := &Game{
		cfg:            cfg,
		scene:          components.NewScene(),
		settings:       settingsFromConfig(cfg),
		overlays:       ui.NewOverlayRegistry(),
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	var snap *telemetry.Snapshot
	if opts.SnapshotPath != "" {
		s, err := telemetry.LoadSnapshot(opts.SnapshotPath)
		if err != nil {
			return nil, err
		}
		snap = s
	}

	g.seed = cfg.Solver.Seed
	switch {
	case opts.Seed != 0:
		g.seed = opts.Seed
	case snap != nil && snap.Seed != 0:
		g.seed = snap.Seed
	}

	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.collector = telemetry.NewCollector(opts.StatsWindowSec, cfg.Derived.DT32)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	solverOpts := append(cfg.SolverOptions(),
		fluid.WithSeed(g.seed),
		fluid.WithPhaseTimer(g.perfCollector),
	)
	if !opts.Headless {
		solverOpts = append(solverOpts, fluid.WithCapabilities(renderer.Platform{}))
	}
	if err := g.loadMasks(); err != nil {
		return nil, err
	}

	solver, err := fluid.New(cfg.Derived.GridW, cfg.Derived.GridH, solverOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating solver: %w", err)
	}
	g.solver = solver

	if snap != nil {
		g.loadSnapshot(snap)
	} else {
		g.loadScenario()
	}
	g.setDye(0)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		solver.Close()
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.overlays.SetEnabled(ui.OverlayObstacles, cfg.Display.ShowObstacles)
	g.overlays.SetEnabled(ui.OverlayVelocity, cfg.Derived.DisplayMode == fluid.DisplayVelocity)
	g.overlays.SetEnabled(ui.OverlayMarkers, true)
	g.overlays.SetEnabled(ui.OverlayPanel, true)

	if !opts.Headless {
		if err := g.initGraphics(opts.ShaderPath); err != nil {
			g.Unload()
			return nil, err
		}
	}

	g.logSceneState("scene ready")
	return g, nil
}

// initGraphics creates the GPU resources and UI.
func (g *Game) initGraphics(shaderPath string) error {
	w, h := g.solver.Size()

	g.uniforms = renderer.NewUniformCache()
	display, err := renderer.NewDisplayShader(shaderPath, g.uniforms)
	if err != nil {
		return err
	}
	display.Exposure = float32(g.cfg.Display.Exposure)
	display.Gamma = float32(g.cfg.Display.Gamma)
	g.display = display

	g.surface = renderer.NewTextureSurface(w, h)
	g.readback = renderer.NewReadback(w, h)
	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(w), float32(h))

	g.hud = ui.NewHUD()
	g.controlsPanel = ui.NewControlsPanel(10, 120, 200)
	g.solverPanel = ui.NewSolverPanel(int32(g.screenWidth)-250, 10, 240)
	g.statsPanel = ui.NewStatsPanel(int32(g.screenWidth)-250, 0, 240)
	g.perfPanel = ui.NewPerfPanel(220, 10)
	g.layoutPanels()
	return nil
}

// settingsFromConfig seeds the solver panel.
func settingsFromConfig(cfg *config.Config) ui.Settings {
	ff := cfg.Tools.ForceField
	return ui.Settings{
		Viscosity:  float32(cfg.Solver.Viscosity),
		Fade:       float32(cfg.Solver.Fade),
		Speed:      float32(cfg.Solver.Speed),
		Gravity:    float32(cfg.Solver.Gravity),
		Iterations: cfg.Solver.PressureIterations,
		Force:      float32(ff.Force),
		Spin:       float32(ff.Spin),
		WindForce:  float32(ff.WindForce),
		WindAngle:  float32(ff.WindAngle),
		Pulse:      float32(ff.Pulse),
		Turbulence: float32(ff.Turbulence),
		Radius:     float32(ff.Radius),
	}
}

// Update handles input, advances the solver and refreshes the view texture.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step()
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseRender)
	g.renderView()

	g.perfCollector.EndTick()
}

// UpdateHeadless advances the solver without input or rendering.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
	g.perfCollector.EndTick()
}

// step runs one solver tick and samples telemetry.
func (g *Game) step() {
	f := g.frame()
	g.solver.Tick(f)

	g.tick++
	g.simTime += f.DT * f.Speed
	g.advanceHue(float64(f.DT * f.Speed))

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.lastStats = g.solver.Stats()
	g.collector.Sample(g.lastStats)
	g.flushTelemetry()
}

// frame assembles the solver input for the next tick.
func (g *Game) frame() fluid.Frame {
	s := g.settings
	return fluid.Frame{
		Time:               g.simTime,
		DT:                 g.cfg.Derived.DT32,
		Speed:              s.Speed,
		Viscosity:          s.Viscosity,
		Fade:               s.Fade,
		Gravity:            s.Gravity,
		PressureIterations: s.Iterations,
		ForceFields:        g.scene.ForceFields(),
		Emitters:           g.scene.Emitters(),
		EmitterColor:       g.dye,
		ObstacleSource:     g.obstacleMask,
		EmissionSource:     g.emissionMask,
		EmissionVelocity:   g.cfg.Scenario.EmissionVelocity.Velocity(),
		EmissionStrength:   float32(g.cfg.Scenario.EmissionStrength),
	}
}

// reset clears the fields and keeps the scene.
func (g *Game) reset() {
	g.solver.Reset()
	g.collector.Record(telemetry.NewResetEvent(g.tick))
	g.logSceneState("reset")
}

// Unload releases resources.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
	if g.surface != nil {
		g.surface.Unload()
	}
	if g.readback != nil {
		g.readback.Unload()
	}
	if g.display != nil {
		g.display.Unload()
	}
	if g.solver != nil {
		g.solver.Close()
	}
}

// Tick returns the current tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// Stats returns the field statistics of the last tick.
func (g *Game) Stats() fluid.Stats {
	return g.lastStats
}
