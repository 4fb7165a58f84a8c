package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eddy/fluid"
	"github.com/pthm-cable/eddy/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Tick        uint64
	FPS         int32
	Paused      bool
	View        string
	Tool        string
	ForceFields int
	Emitters    int
	DyeColor    rl.Color
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | View: %s", data.Tick, data.FPS, data.View),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tool: %s | Fields: %d | Emitters: %d", data.Tool, data.ForceFields, data.Emitters),
		10, 55, 16, rl.LightGray,
	)
	h.renderer.DrawColorSwatch(10, 78, "Dye", data.DyeColor, 100)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 96, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// StatsPanel renders field diagnostics.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the panel.
func (s *StatsPanel) Draw(st fluid.Stats) {
	r := s.renderer
	pad := r.Theme.Padding
	w := s.width - pad*2

	r.DrawPanel(s.x, s.y, s.width, r.Theme.LineHeight*7+pad*2)

	x, y := s.x+pad, s.y+pad
	y = r.DrawSectionHeader(x, y, "Fields")
	y = r.DrawLabelValue(x, y, "Mass", fmt.Sprintf("%.1f", st.DensityMass), w)
	y = r.DrawLabelValue(x, y, "Energy", fmt.Sprintf("%.1f", st.KineticEnergy), w)
	y = r.DrawLabelValue(x, y, "Max speed", fmt.Sprintf("%.1f", st.MaxSpeed), w)
	y = r.DrawLevelBar(x, y, "Divergence", st.Divergence, 10, w)
	r.DrawLabelValue(x, y, "Obstacles", fmt.Sprintf("%d", st.ObstacleCells), w)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel for the given phases, in order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s (%.0f ticks/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg, ok := stats.PhaseAvg[name]
		if !ok {
			continue
		}
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
