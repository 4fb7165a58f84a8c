// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/eddy/fluid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all sandbox configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Solver    SolverConfig    `yaml:"solver"`
	Forces    ForcesConfig    `yaml:"forces"`
	Emitter   EmitterConfig   `yaml:"emitter"`
	Display   DisplayConfig   `yaml:"display"`
	Tools     ToolsConfig     `yaml:"tools"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Scenario  ScenarioConfig  `yaml:"scenario"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the simulation grid resolution.
// The grid can differ from the screen; the camera maps between them.
type GridConfig struct {
	Width      int `yaml:"width"`      // Grid width in cells (0 = screen width / downsample)
	Height     int `yaml:"height"`     // Grid height in cells (0 = screen height / downsample)
	Downsample int `yaml:"downsample"` // Screen pixels per cell when a dimension is 0
	MaxSize    int `yaml:"max_size"`   // Largest accepted grid edge
}

// SolverConfig holds the per-tick simulation coefficients.
type SolverConfig struct {
	DT                 float64 `yaml:"dt"`
	Speed              float64 `yaml:"speed"`     // Multiplies dt
	Viscosity          float64 `yaml:"viscosity"` // Velocity dissipation
	Fade               float64 `yaml:"fade"`      // Density dissipation
	Gravity            float64 `yaml:"gravity"`
	PressureIterations int     `yaml:"pressure_iterations"`
	Workers            int     `yaml:"workers"` // Kernel worker goroutines (0 = serial, -1 = GOMAXPROCS)
	Seed               int64   `yaml:"seed"`    // Turbulence noise seed
}

// ForcesConfig holds the force injection heuristics.
// They are tuned for stability rather than derived.
type ForcesConfig struct {
	PulseRate       float64 `yaml:"pulse_rate"` // Angular multiplier, in turns (1 = 2*pi)
	PulseDepth      float64 `yaml:"pulse_depth"`
	PulseThreshold  float64 `yaml:"pulse_threshold"`
	EffectThreshold float64 `yaml:"effect_threshold"` // Effects at or below this are not dispatched

	DensitySink  SinkConfig `yaml:"density_sink"`
	VelocitySink SinkConfig `yaml:"velocity_sink"`
}

// SinkConfig holds the drain applied at attractor cores.
// Strength = min(|force| * gain + base, max).
type SinkConfig struct {
	Radius float64 `yaml:"radius"` // Fraction of the force field radius
	Gain   float64 `yaml:"gain"`
	Base   float64 `yaml:"base"`
	Max    float64 `yaml:"max"`
}

// EmitterConfig holds emitter defaults.
type EmitterConfig struct {
	Speed   float64 `yaml:"speed"`    // Upward speed, cells per second
	Radius  float64 `yaml:"radius"`   // Point splat radius, normalized
	HueRate float64 `yaml:"hue_rate"` // Dye hue rotation, degrees per second
}

// DisplayConfig holds presentation parameters.
type DisplayConfig struct {
	Mode          string  `yaml:"mode"` // "density" or "velocity"
	ShowObstacles bool    `yaml:"show_obstacles"`
	VelocityScale float64 `yaml:"velocity_scale"`
	Exposure      float64 `yaml:"exposure"`
	Gamma         float64 `yaml:"gamma"`
}

// ToolsConfig holds editor tool defaults.
type ToolsConfig struct {
	SplatRadius    float64          `yaml:"splat_radius"`
	SplatForce     float64          `yaml:"splat_force"` // Mouse delta to velocity multiplier
	ObstacleRadius float64          `yaml:"obstacle_radius"`
	ForceField     ForceFieldConfig `yaml:"force_field"`
}

// ForceFieldConfig holds the parameters of a force field.
type ForceFieldConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Radius     float64 `yaml:"radius"`
	Force      float64 `yaml:"force"`
	Spin       float64 `yaml:"spin"`
	WindForce  float64 `yaml:"wind_force"`
	WindAngle  float64 `yaml:"wind_angle"`
	Pulse      float64 `yaml:"pulse"`
	Turbulence float64 `yaml:"turbulence"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ScenarioConfig describes the scripted scene used in headless mode.
type ScenarioConfig struct {
	Emitters    []PointConfig      `yaml:"emitters"`
	ForceFields []ForceFieldConfig `yaml:"force_fields"`
	Obstacles   []ObstacleConfig   `yaml:"obstacles"`

	// Optional mask images, resampled to the grid every tick.
	ObstacleMask     string       `yaml:"obstacle_mask"`     // Red channel above one half is solid
	EmissionMask     string       `yaml:"emission_mask"`     // RGB is injected as dye
	EmissionVelocity *PointConfig `yaml:"emission_velocity"` // Screen-space push under the mask (nil = dye only)
	EmissionStrength float64      `yaml:"emission_strength"`
}

// PointConfig is a position in grid pixels.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Velocity returns the point as a solver vector, or nil for a nil point.
func (p *PointConfig) Velocity() *fluid.Vec2 {
	if p == nil {
		return nil
	}
	return &fluid.Vec2{X: float32(p.X), Y: float32(p.Y)}
}

// ObstacleConfig is a painted disc.
type ObstacleConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32 // Solver.DT as float32
	ScreenW32   float32 // Screen.Width as float32
	ScreenH32   float32 // Screen.Height as float32
	GridW       int     // Effective grid width
	GridH       int     // Effective grid height
	DisplayMode fluid.DisplayMode
	Heuristics  fluid.Heuristics
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Solver.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Grid dimensions default to the downsampled screen size
	down := max(c.Grid.Downsample, 1)
	c.Derived.GridW = c.Grid.Width
	if c.Derived.GridW == 0 {
		c.Derived.GridW = c.Screen.Width / down
	}
	c.Derived.GridH = c.Grid.Height
	if c.Derived.GridH == 0 {
		c.Derived.GridH = c.Screen.Height / down
	}

	switch c.Display.Mode {
	case "", "density":
		c.Derived.DisplayMode = fluid.DisplayDensity
	case "velocity":
		c.Derived.DisplayMode = fluid.DisplayVelocity
	default:
		return fmt.Errorf("display.mode: unknown mode %q", c.Display.Mode)
	}

	f := c.Forces
	c.Derived.Heuristics = fluid.Heuristics{
		PulseRate:          float32(f.PulseRate * 2 * math.Pi),
		PulseDepth:         float32(f.PulseDepth),
		PulseThreshold:     float32(f.PulseThreshold),
		EffectThreshold:    float32(f.EffectThreshold),
		DensitySinkRadius:  float32(f.DensitySink.Radius),
		DensitySinkGain:    float32(f.DensitySink.Gain),
		DensitySinkBase:    float32(f.DensitySink.Base),
		DensitySinkMax:     float32(f.DensitySink.Max),
		VelocitySinkRadius: float32(f.VelocitySink.Radius),
		VelocitySinkGain:   float32(f.VelocitySink.Gain),
		VelocitySinkBase:   float32(f.VelocitySink.Base),
		VelocitySinkMax:    float32(f.VelocitySink.Max),
		EmissionSpeed:      float32(c.Emitter.Speed),
		EmitterRadius:      float32(c.Emitter.Radius),
	}
	return nil
}

// SolverOptions returns the construction options for a solver built from
// this configuration.
func (c *Config) SolverOptions() []fluid.Option {
	return []fluid.Option{
		fluid.WithMaxSize(c.Grid.MaxSize),
		fluid.WithWorkers(c.Solver.Workers),
		fluid.WithSeed(c.Solver.Seed),
		fluid.WithHeuristics(c.Derived.Heuristics),
		fluid.WithVelocityScale(float32(c.Display.VelocityScale)),
	}
}

// ForceField converts a force field config to the solver type.
func (f ForceFieldConfig) ForceField(id uint32) fluid.ForceField {
	return fluid.ForceField{
		ID:         id,
		X:          float32(f.X),
		Y:          float32(f.Y),
		Radius:     float32(f.Radius),
		Force:      float32(f.Force),
		Spin:       float32(f.Spin),
		WindForce:  float32(f.WindForce),
		WindAngle:  float32(f.WindAngle),
		Pulse:      float32(f.Pulse),
		Turbulence: float32(f.Turbulence),
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
