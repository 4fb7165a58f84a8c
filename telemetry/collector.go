package telemetry

import (
	"math"

	"github.com/pthm-cable/eddy/fluid"
)

// Collector accumulates per-tick solver statistics and editor events
// within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	dt                  float32

	windowStartTick int64

	// Per-tick samples for the current window
	mass       []float64
	energy     []float64
	divergence []float64
	maxSpeed   float64
	nonFinite  int

	events [numEventTypes]int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record adds one editor event to the current window.
func (c *Collector) Record(e Event) {
	if e.Type < numEventTypes {
		c.events[e.Type]++
	}
}

// Sample adds one tick of solver statistics to the current window.
func (c *Collector) Sample(st fluid.Stats) {
	mass := float64(st.DensityMass)
	energy := float64(st.KineticEnergy)
	div := float64(st.Divergence)
	speed := float64(st.MaxSpeed)

	if !finite(mass) || !finite(energy) || !finite(div) || !finite(speed) {
		c.nonFinite++
	}
	c.mass = append(c.mass, mass)
	c.energy = append(c.energy, energy)
	c.divergence = append(c.divergence, div)
	if speed > c.maxSpeed {
		c.maxSpeed = speed
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Scene describes the editor state at window end.
type Scene struct {
	ForceFields   int
	Emitters      int
	ObstacleCells int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, scene Scene) WindowStats {
	massMean, _, _ := Summarize(c.mass)
	energyMean, energyP50, energyP90 := Summarize(c.energy)
	divMean, _, divP90 := Summarize(c.divergence)

	var massFinal float64
	if n := len(c.mass); n > 0 {
		massFinal = c.mass[n-1]
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		ForceFields:   scene.ForceFields,
		Emitters:      scene.Emitters,
		ObstacleCells: scene.ObstacleCells,

		Splats:          c.events[EventSplat],
		ObstacleStrokes: c.events[EventObstacle],
		FieldsAdded:     c.events[EventFieldAdded],
		FieldsRemoved:   c.events[EventFieldRemoved],
		EmittersAdded:   c.events[EventEmitterAdded],
		Resets:          c.events[EventReset],

		MassMean:  massMean,
		MassFinal: massFinal,

		EnergyMean: energyMean,
		EnergyP50:  energyP50,
		EnergyP90:  energyP90,
		MaxSpeed:   c.maxSpeed,

		DivergenceMean: divMean,
		DivergenceP90:  divP90,

		NonFiniteTicks: c.nonFinite,
	}

	c.windowStartTick = currentTick
	c.mass = c.mass[:0]
	c.energy = c.energy[:0]
	c.divergence = c.divergence[:0]
	c.maxSpeed = 0
	c.nonFinite = 0
	c.events = [numEventTypes]int{}

	return stats
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
