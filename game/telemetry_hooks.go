package game

import (
	"log/slog"

	"github.com/pthm-cable/eddy/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	fields, emitters := g.scene.Counts()
	stats := g.collector.Flush(g.tick, telemetry.Scene{
		ForceFields:   fields,
		Emitters:      emitters,
		ObstacleCells: g.lastStats.ObstacleCells,
	})
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		logPerfStats(perfStats, stats.WindowEndTick)
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		g.saveSnapshot(&bm)
	}
}

// saveSnapshot saves the scene and its density image. The snapshot
// directory wins over the output directory; with neither it is a no-op.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	if g.snapshotDir == "" && g.outputManager == nil {
		return
	}

	snapshot := g.createSnapshot(bookmark)
	img := g.densityImage()

	var (
		path string
		err  error
	)
	if g.snapshotDir != "" {
		path, err = telemetry.SaveSnapshotImage(snapshot, img, g.snapshotDir)
	} else {
		path, err = g.outputManager.WriteSnapshot(snapshot, img)
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current scene.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	w, h := g.solver.Size()
	s := telemetry.NewSnapshot(g.seed, w, h, g.tick, g.scene.ForceFields(), g.scene.Emitters())
	s.Bookmark = bookmark
	return s
}
