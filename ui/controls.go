package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggle legend.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := overlays.Len() + len(categories)
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "view":
		return "View"
	case "editor":
		return "Editor"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// Settings are the live values the solver panel edits. The force field
// group applies to newly placed fields, or to all fields on request.
type Settings struct {
	Viscosity  float32
	Fade       float32
	Speed      float32
	Gravity    float32
	Iterations int

	Force      float32
	Spin       float32
	WindForce  float32
	WindAngle  float32
	Pulse      float32
	Turbulence float32
	Radius     float32
}

// PanelActions reports the buttons pressed this frame.
type PanelActions struct {
	ApplyToFields bool
	Reset         bool
}

// SolverPanel draws raygui sliders bound to Settings.
type SolverPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewSolverPanel creates a solver panel anchored at (x, y).
func NewSolverPanel(x, y, width int32) *SolverPanel {
	return &SolverPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition moves the panel.
func (p *SolverPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Contains reports whether a screen point is over the panel, so tools can
// ignore clicks meant for the sliders.
func (p *SolverPanel) Contains(x, y float32) bool {
	return x >= float32(p.x) && x < float32(p.x+p.width) &&
		y >= float32(p.y) && y < float32(p.y+p.height)
}

// Draw renders the sliders, writing edits back into s.
func (p *SolverPanel) Draw(s *Settings) PanelActions {
	r := p.renderer
	pad := r.Theme.Padding
	x := p.x + pad
	w := p.width - pad*2

	if p.height > 0 {
		r.DrawPanel(p.x, p.y, p.width, p.height)
	}

	y := p.y + pad
	y = r.DrawSectionHeader(x, y, "Solver")
	s.Viscosity, y = r.DrawSlider(x, y, "Viscosity", "%.2f", s.Viscosity, 0, 5, w)
	s.Fade, y = r.DrawSlider(x, y, "Fade", "%.2f", s.Fade, 0, 5, w)
	s.Speed, y = r.DrawSlider(x, y, "Speed", "%.2f", s.Speed, 0, 4, w)
	s.Gravity, y = r.DrawSlider(x, y, "Gravity", "%.1f", s.Gravity, -50, 50, w)
	var iters float32
	iters, y = r.DrawSlider(x, y, "Iterations", "%.0f", float32(s.Iterations), 0, 80, w)
	s.Iterations = int(iters + 0.5)

	y += 4
	y = r.DrawSectionHeader(x, y, "Force Field")
	s.Radius, y = r.DrawSlider(x, y, "Radius", "%.3f", s.Radius, 0.01, 0.5, w)
	s.Force, y = r.DrawSlider(x, y, "Force", "%.1f", s.Force, -50, 50, w)
	s.Spin, y = r.DrawSlider(x, y, "Spin", "%.1f", s.Spin, -50, 50, w)
	s.WindForce, y = r.DrawSlider(x, y, "Wind", "%.1f", s.WindForce, 0, 50, w)
	s.WindAngle, y = r.DrawSlider(x, y, "Wind Angle", "%.0f", s.WindAngle, 0, 360, w)
	s.Pulse, y = r.DrawSlider(x, y, "Pulse", "%.2f", s.Pulse, 0, 5, w)
	s.Turbulence, y = r.DrawSlider(x, y, "Turbulence", "%.1f", s.Turbulence, 0, 20, w)

	var actions PanelActions
	half := float32(w-pad) / 2
	actions.ApplyToFields = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 22}, "Apply to fields")
	actions.Reset = gui.Button(rl.Rectangle{X: float32(x) + half + float32(pad), Y: float32(y), Width: half, Height: 22}, "Reset")
	y += 22 + pad

	// Height is known after the first layout pass
	p.height = y - p.y
	return actions
}
