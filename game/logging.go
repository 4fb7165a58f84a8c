package game

import (
	"log/slog"

	"github.com/pthm-cable/eddy/telemetry"
)

// logPerfStats logs tick timing for a stats window.
func logPerfStats(stats telemetry.PerfStats, windowEnd int64) {
	slog.Info("perf", "window_end", windowEnd, "perf", stats)
}

// logSceneState logs the editor scene and the last field stats.
func (g *Game) logSceneState(msg string) {
	w, h := g.solver.Size()
	fields, emitters := g.scene.Counts()
	slog.Info(msg,
		"tick", g.tick,
		"grid_w", w,
		"grid_h", h,
		"seed", g.seed,
		"force_fields", fields,
		"emitters", emitters,
		"stats", g.lastStats,
	)
}
