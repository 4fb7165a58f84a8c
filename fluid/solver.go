package fluid

import (
	"fmt"
	"image"
)

// Capabilities describes the presentation platform a solver's surfaces
// live on. renderer.Platform implements it for a raylib window.
type Capabilities interface {
	// MaxSurfaceSize is the largest surface edge the platform can allocate.
	// Zero or negative means no limit beyond the configured maximum.
	MaxSurfaceSize() int
	// SurfacesReady reports whether surfaces can be allocated at all.
	SurfacesReady() bool
}

type options struct {
	maxSize       int
	workers       int
	seed          int64
	heuristics    Heuristics
	caps          Capabilities
	timer         PhaseTimer
	velocityScale float32
}

// Option configures a Solver at construction.
type Option func(*options)

// WithMaxSize sets the largest accepted grid edge.
func WithMaxSize(n int) Option {
	return func(o *options) { o.maxSize = n }
}

// WithWorkers splits kernel passes over n worker goroutines. 0 or 1 runs
// serially; a negative n uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithSeed seeds the turbulence noise.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithHeuristics replaces the force injection constants.
func WithHeuristics(h Heuristics) Option {
	return func(o *options) { o.heuristics = h }
}

// WithCapabilities probes c at construction; New fails with
// ErrUnsupportedPlatform when it cannot host the solver's surfaces.
func WithCapabilities(c Capabilities) Option {
	return func(o *options) { o.caps = c }
}

// WithPhaseTimer reports the start of each pipeline phase to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(o *options) { o.timer = t }
}

// WithVelocityScale sets the gain of the velocity view.
func WithVelocityScale(scale float32) Option {
	return func(o *options) { o.velocityScale = scale }
}

// Frame is the input of one tick, supplied by the caller every animation
// frame. Positions are grid pixel coordinates with a top-left origin.
type Frame struct {
	Time               float32 // seconds, drives pulse and turbulence
	DT                 float32
	Speed              float32 // multiplies DT
	Viscosity          float32
	Fade               float32
	Gravity            float32
	PressureIterations int

	ForceFields  []ForceField
	Emitters     []Emitter
	EmitterColor [3]float32

	// ObstacleSource, when set, is composited into this tick's obstacles.
	ObstacleSource image.Image
	// EmissionSource, when set, injects density from its RGB channels.
	EmissionSource   image.Image
	EmissionVelocity *Vec2
	EmissionStrength float32
}

// Solver owns the fields of one simulation and the kernels that advance
// them. It is not safe for concurrent use.
type Solver struct {
	width, height int
	aspect        float32

	store      *Store
	velocity   *Field
	density    *Field
	pressure   *Field
	divergence *Field
	obstacles  *Field
	painted    *Field

	// Scratch grids, never part of the simulated state.
	external *Grid
	emission *Grid
	stats    *Grid

	maskImage *image.RGBA
	staging   *image.RGBA
	surface   *ImageSurface
	flow      *ImageSurface

	noise         *turbulence
	pool          *rowPool
	heuristics    Heuristics
	batches       forceBatches
	timer         PhaseTimer
	velocityScale float32

	tick uint64
}

// New creates a solver for a width x height grid. It returns a
// *ConfigError (matching ErrConfiguration) for an unusable resolution and
// ErrUnsupportedPlatform when the capability probe fails.
func New(width, height int, opts ...Option) (*Solver, error) {
	o := options{
		maxSize:       DefaultMaxSize,
		seed:          1,
		heuristics:    DefaultHeuristics(),
		velocityScale: 0.1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.caps != nil {
		if !o.caps.SurfacesReady() {
			return nil, fmt.Errorf("%w: no surface context", ErrUnsupportedPlatform)
		}
		if m := o.caps.MaxSurfaceSize(); m > 0 && (o.maxSize <= 0 || m < o.maxSize) {
			o.maxSize = m
		}
	}

	store, err := NewStore(width, height, o.maxSize)
	if err != nil {
		return nil, err
	}

	s := &Solver{
		width:         width,
		height:        height,
		aspect:        float32(width) / float32(height),
		store:         store,
		velocity:      store.NewField("velocity", LayoutVec2, true),
		density:       store.NewField("density", LayoutRGBA, true),
		pressure:      store.NewField("pressure", LayoutScalar, true),
		divergence:    store.NewField("divergence", LayoutScalar, false),
		obstacles:     store.NewField("obstacles", LayoutScalar, true),
		painted:       store.NewField("painted", LayoutScalar, false),
		external:      NewGrid(width, height, 4),
		emission:      NewGrid(width, height, 4),
		stats:         NewGrid(width, height, 1),
		maskImage:     image.NewRGBA(image.Rect(0, 0, width, height)),
		staging:       image.NewRGBA(image.Rect(0, 0, width, height)),
		surface:       NewImageSurface(width, height),
		flow:          NewImageSurface(width, height),
		noise:         newTurbulence(o.seed),
		pool:          newRowPool(o.workers),
		heuristics:    o.heuristics,
		timer:         o.timer,
		velocityScale: o.velocityScale,
	}
	s.pool.start()

	Logger().Debug("solver created",
		"width", width,
		"height", height,
		"fields", len(store.Fields()),
		"bytes", store.Bytes(),
		"workers", o.workers,
	)
	return s, nil
}

// Close releases the worker pool. The solver must not be used afterwards.
func (s *Solver) Close() {
	s.pool.stop()
}

// Size returns the grid resolution.
func (s *Solver) Size() (width, height int) {
	return s.width, s.height
}

// Ticks returns the number of completed ticks since construction or the
// last Reset.
func (s *Solver) Ticks() uint64 { return s.tick }

// Reset zero-fills every field, the painted obstacle mask included.
func (s *Solver) Reset() {
	for _, f := range s.store.Fields() {
		f.Clear()
	}
	s.tick = 0
	Logger().Debug("solver reset")
}

// Tick runs one full frame: obstacle merge, emission, force injection and
// the simulation step with DT scaled by Speed.
func (s *Solver) Tick(f Frame) {
	s.MergeObstacles(f.ObstacleSource)
	if f.EmissionSource != nil {
		s.Emit(f.EmissionSource, f.EmissionVelocity, f.EmissionStrength)
	}
	s.InjectForces(f.Time, f.ForceFields, f.Emitters, f.EmitterColor)
	s.Step(f.DT*f.Speed, f.Viscosity, f.Fade, f.PressureIterations, f.Gravity)
	s.tick++
}

// pointFromPixel converts top-left pixel coordinates to normalized y-up
// splat space.
func (s *Solver) pointFromPixel(x, y float32) Vec2 {
	return Vec2{X: x / float32(s.width), Y: 1 - y/float32(s.height)}
}

// Velocity returns the velocity field (cells per second).
func (s *Solver) Velocity() *Field { return s.velocity }

// Density returns the RGBA density field.
func (s *Solver) Density() *Field { return s.density }

// Pressure returns the pressure field.
func (s *Solver) Pressure() *Field { return s.pressure }

// Divergence returns the divergence computed by the last pressure solve.
func (s *Solver) Divergence() *Field { return s.divergence }

// Obstacles returns the active obstacle field.
func (s *Solver) Obstacles() *Field { return s.obstacles }

// Painted returns the persistent painted obstacle mask.
func (s *Solver) Painted() *Field { return s.painted }

// Store returns the field store.
func (s *Solver) Store() *Store { return s.store }
