package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkInstability BookmarkType = "instability"
	BookmarkEnergySpike BookmarkType = "energy_spike"
	BookmarkSettled     BookmarkType = "settled"
	BookmarkMassDrain   BookmarkType = "mass_drain"
)

// Detection thresholds. Speeds are in cells per second; fractions compare
// a window against the recent peak or rolling average.
const (
	instabilitySpeed = 1e4
	spikeMultiplier  = 3.0
	spikeMinEnergy   = 1.0
	settledFraction  = 0.01
	settledMinPeak   = 10.0
	drainFraction    = 0.5
	drainMinPeak     = 1.0
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int64        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable moments in a run: numerical blow-ups,
// sudden energy injections, the flow coming to rest and dye draining away.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentEnergyPeak float64
	recentMassPeak   float64
	unstable         bool // an instability bookmark is already open
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkInstability(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkEnergySpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkMassDrain(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.recentEnergyPeak = max(bd.recentEnergyPeak, stats.EnergyMean)
	bd.recentMassPeak = max(bd.recentMassPeak, stats.MassFinal)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkInstability fires once when the fields go non-finite or the flow
// speed becomes absurd, and rearms after a healthy window.
func (bd *BookmarkDetector) checkInstability(stats WindowStats) *Bookmark {
	bad := stats.NonFiniteTicks > 0 || stats.MaxSpeed > instabilitySpeed
	if !bad {
		bd.unstable = false
		return nil
	}
	if bd.unstable {
		return nil
	}
	bd.unstable = true

	desc := fmt.Sprintf("Max speed %.0f cells/s", stats.MaxSpeed)
	if stats.NonFiniteTicks > 0 {
		desc = fmt.Sprintf("%d ticks with non-finite fields", stats.NonFiniteTicks)
	}
	return &Bookmark{
		Type:        BookmarkInstability,
		Tick:        stats.WindowEndTick,
		Description: desc,
	}
}

func (bd *BookmarkDetector) checkEnergySpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.EnergyMean
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.EnergyMean > avg*spikeMultiplier && stats.EnergyMean > spikeMinEnergy {
		return &Bookmark{
			Type:        BookmarkEnergySpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy %.1f is %.1fx average (%.1f)", stats.EnergyMean, stats.EnergyMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if bd.recentEnergyPeak < settledMinPeak {
		return nil
	}
	if stats.EnergyMean < bd.recentEnergyPeak*settledFraction {
		peak := bd.recentEnergyPeak
		bd.recentEnergyPeak = stats.EnergyMean
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Flow settled: energy %.3f from peak %.1f", stats.EnergyMean, peak),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkMassDrain(stats WindowStats) *Bookmark {
	if bd.recentMassPeak < drainMinPeak {
		return nil
	}
	lost := 1 - stats.MassFinal/bd.recentMassPeak
	if lost > drainFraction {
		peak := bd.recentMassPeak
		bd.recentMassPeak = stats.MassFinal
		return &Bookmark{
			Type:        BookmarkMassDrain,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Dye mass fell %.0f%% from peak %.1f to %.1f", lost*100, peak, stats.MassFinal),
		}
	}
	return nil
}
