package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// WindowStats holds aggregated field statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scene at window end
	ForceFields   int `csv:"force_fields"`
	Emitters      int `csv:"emitters"`
	ObstacleCells int `csv:"obstacle_cells"`

	// Editor events during window
	Splats          int `csv:"splats"`
	ObstacleStrokes int `csv:"obstacle_strokes"`
	FieldsAdded     int `csv:"fields_added"`
	FieldsRemoved   int `csv:"fields_removed"`
	EmittersAdded   int `csv:"emitters_added"`
	Resets          int `csv:"resets"`

	// Density mass over the window
	MassMean  float64 `csv:"mass_mean"`
	MassFinal float64 `csv:"mass_final"`

	// Kinetic energy over the window
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
	MaxSpeed   float64 `csv:"max_speed"`

	// Post-projection divergence norm over the window
	DivergenceMean float64 `csv:"divergence_mean"`
	DivergenceP90  float64 `csv:"divergence_p90"`

	// Ticks whose fields held NaN or Inf
	NonFiniteTicks int `csv:"non_finite_ticks"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize returns the mean, median and 90th percentile of values.
// Non-finite values are skipped.
func Summarize(values []float64) (mean, p50, p90 float64) {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean = sum / float64(len(sorted))

	sort.Float64s(sorted)
	return mean, Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("force_fields", s.ForceFields),
		slog.Int("emitters", s.Emitters),
		slog.Int("obstacle_cells", s.ObstacleCells),
		slog.Int("splats", s.Splats),
		slog.Int("obstacle_strokes", s.ObstacleStrokes),
		slog.Int("fields_added", s.FieldsAdded),
		slog.Int("fields_removed", s.FieldsRemoved),
		slog.Int("emitters_added", s.EmittersAdded),
		slog.Int("resets", s.Resets),
		slog.Float64("mass_mean", s.MassMean),
		slog.Float64("mass_final", s.MassFinal),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("divergence_mean", s.DivergenceMean),
		slog.Float64("divergence_p90", s.DivergenceP90),
		slog.Int("non_finite_ticks", s.NonFiniteTicks),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
