package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eddy/components"
	"github.com/pthm-cable/eddy/telemetry"
	"github.com/pthm-cable/eddy/ui"
)

// Tool is the active mouse tool.
type Tool int

const (
	ToolDye Tool = iota
	ToolEmitter
	ToolForceField
	ToolObstacle
	ToolErase

	numTools
)

func (t Tool) String() string {
	switch t {
	case ToolDye:
		return "Dye"
	case ToolEmitter:
		return "Emitter"
	case ToolForceField:
		return "Force Field"
	case ToolObstacle:
		return "Obstacle"
	case ToolErase:
		return "Erase"
	default:
		return "Unknown"
	}
}

// toolKeys binds the number row to tools.
var toolKeys = [numTools]int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive}

// handleTools applies the active tool at the mouse position.
func (g *Game) handleTools() {
	mouse := rl.GetMousePosition()
	defer func() { g.lastMouse = mouse }()

	if g.overlays.IsEnabled(ui.OverlayPanel) && g.solverPanel.Contains(mouse.X, mouse.Y) {
		g.dragging = false
		return
	}

	gx, gy := g.camera.ScreenToGrid(mouse.X, mouse.Y)
	if !g.camera.InGrid(gx, gy) {
		g.dragging = false
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && g.tool == ToolForceField {
		g.removeNearestField(gx, gy)
		return
	}

	left := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	right := rl.IsMouseButtonDown(rl.MouseButtonRight)
	pressed := rl.IsMouseButtonPressed(rl.MouseButtonLeft)

	switch g.tool {
	case ToolDye:
		if !left {
			g.dragging = false
			return
		}
		if g.dragging {
			lx, ly := g.camera.ScreenToGrid(g.lastMouse.X, g.lastMouse.Y)
			force := float32(g.cfg.Tools.SplatForce)
			g.solver.Splat(gx, gy, (gx-lx)*force, (gy-ly)*force, g.dye, float32(g.cfg.Tools.SplatRadius))
			g.collector.Record(telemetry.NewSplatEvent(g.tick, gx, gy))
		}
		g.dragging = true

	case ToolEmitter:
		if pressed {
			g.scene.AddEmitter(gx, gy)
			g.collector.Record(telemetry.Event{Type: telemetry.EventEmitterAdded, Tick: g.tick, X: gx, Y: gy})
		}

	case ToolForceField:
		if pressed {
			ff := g.newForceField()
			id := g.scene.AddForceField(ff.Solver(&components.Position{X: gx, Y: gy}))
			g.collector.Record(telemetry.NewFieldEvent(g.tick, id, true))
		}

	case ToolObstacle, ToolErase:
		if !left && !right {
			return
		}
		erase := g.tool == ToolErase || right
		g.solver.DrawObstacle(gx, gy, float32(g.cfg.Tools.ObstacleRadius), erase)
		g.collector.Record(telemetry.NewObstacleEvent(g.tick, gx, gy))
	}
}

// newForceField builds a force field from the panel settings.
func (g *Game) newForceField() components.ForceField {
	s := g.settings
	return components.ForceField{
		Radius:     s.Radius,
		Force:      s.Force,
		Spin:       s.Spin,
		WindForce:  s.WindForce,
		WindAngle:  s.WindAngle,
		Pulse:      s.Pulse,
		Turbulence: s.Turbulence,
	}
}

// applySettingsToFields copies the panel's force field group onto every
// placed field, keeping positions and IDs.
func (g *Game) applySettingsToFields() {
	tmpl := g.newForceField()
	g.scene.UpdateForceFields(func(_ *components.Position, ff *components.ForceField) {
		id := ff.ID
		*ff = tmpl
		ff.ID = id
	})
}

// removeNearestField deletes the force field closest to a grid point,
// within the current field radius.
func (g *Game) removeNearestField(gx, gy float32) {
	_, h := g.solver.Size()
	maxDist := max(g.settings.Radius*float32(h), 8)
	if id, ok := g.scene.RemoveNearestForceField(gx, gy, maxDist); ok {
		g.collector.Record(telemetry.NewFieldEvent(g.tick, id, false))
	}
}
