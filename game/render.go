package game

import (
	"image"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eddy/fluid"
	"github.com/pthm-cable/eddy/telemetry"
	"github.com/pthm-cable/eddy/ui"
)

const controlsText = "[Space] pause  [R] reset  [1-5] tool  [Del] remove field  [</>] speed  [F5] reload shader  [F12] snapshot"

// renderView runs the display kernel into the view texture.
func (g *Game) renderView() {
	var err error
	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		err = g.solver.RenderFlow(g.surface)
	} else {
		err = g.solver.Render(g.surface, g.overlays.IsEnabled(ui.OverlayObstacles))
	}
	if err != nil {
		slog.Error("render failed", "error", err)
	}
}

// viewMode names the displayed field.
func (g *Game) viewMode() fluid.DisplayMode {
	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		return fluid.DisplayVelocity
	}
	return fluid.DisplayDensity
}

// Draw renders the frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	minX, minY, maxX, maxY := g.camera.VisibleGridBounds()
	src := rl.Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	dst := rl.Rectangle{Width: g.screenWidth, Height: g.screenHeight}
	g.display.Draw(g.surface, src, dst)

	if g.overlays.IsEnabled(ui.OverlayMarkers) {
		g.drawMarkers()
	}

	fields, emitters := g.scene.Counts()
	g.hud.Draw(ui.HUDData{
		Title:       "Eddy",
		Tick:        g.solver.Ticks(),
		FPS:         rl.GetFPS(),
		Paused:      g.paused,
		View:        g.viewMode().String(),
		Tool:        g.tool.String(),
		ForceFields: fields,
		Emitters:    emitters,
		DyeColor:    g.dyeSwatch(),
	})
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsText)

	if g.overlays.IsEnabled(ui.OverlayPanel) {
		g.controlsPanel.Draw(g.overlays)
		actions := g.solverPanel.Draw(&g.settings)
		if actions.ApplyToFields {
			g.applySettingsToFields()
		}
		if actions.Reset {
			g.reset()
		}
	}
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.statsPanel.Draw(g.lastStats)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats(), telemetry.Phases())
	}

	rl.EndDrawing()
}

// drawMarkers outlines force fields and emitters.
func (g *Game) drawMarkers() {
	_, h := g.solver.Size()
	for _, ff := range g.scene.ForceFields() {
		sx, sy := g.camera.GridToScreen(ff.X, ff.Y)
		_, ey := g.camera.GridToScreen(ff.X, ff.Y+ff.Radius*float32(h))
		color := rl.RayWhite
		switch {
		case ff.Force > 0:
			color = rl.Red
		case ff.Force < 0:
			color = rl.SkyBlue
		}
		rl.DrawCircleLines(int32(sx), int32(sy), ey-sy, rl.Fade(color, 0.6))
		rl.DrawCircle(int32(sx), int32(sy), 3, color)
	}
	for _, e := range g.scene.Emitters() {
		sx, sy := g.camera.GridToScreen(e.X, e.Y)
		rl.DrawCircleLines(int32(sx), int32(sy), 6, rl.Yellow)
	}
}

// layoutPanels anchors the right-hand panels to the screen edge.
func (g *Game) layoutPanels() {
	if g.solverPanel == nil {
		return
	}
	right := int32(g.screenWidth) - 250
	g.solverPanel.SetPosition(right, 10)
	g.statsPanel.SetPosition(right, int32(g.screenHeight)-170)
}

// densityImage captures the density view for export. With a window it goes
// through the display shader; headless it is the raw kernel output.
func (g *Game) densityImage() image.Image {
	w, h := g.solver.Size()
	if g.headless || g.readback == nil {
		return &image.RGBA{
			Pix:    g.solver.DensityPixels(),
			Stride: 4 * w,
			Rect:   image.Rect(0, 0, w, h),
		}
	}

	if err := g.solver.Render(g.surface, false); err != nil {
		slog.Error("render failed", "error", err)
		return nil
	}
	img := g.readback.Capture(func(dst rl.Rectangle) {
		g.display.Draw(g.surface, rl.Rectangle{Width: float32(w), Height: float32(h)}, dst)
	})
	// Restore the on-screen view
	g.renderView()
	return img
}

// WriteDensityPNG exports the current density view.
func (g *Game) WriteDensityPNG(path string) error {
	img := g.densityImage()
	if img == nil {
		return nil
	}
	return telemetry.WritePNG(path, img)
}
