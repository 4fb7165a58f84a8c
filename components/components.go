// Package components defines ECS components for editor entities.
package components

import "github.com/pthm-cable/eddy/fluid"

// Position is an entity's location in grid pixels, top-left origin.
type Position struct {
	X, Y float32
}

// ForceField holds the coefficients of a placed force field.
// Radius is normalized to the grid; WindAngle is in degrees.
type ForceField struct {
	ID         uint32
	Radius     float32
	Force      float32 // > 0 repels, < 0 attracts
	Spin       float32 // > 0 counter-clockwise
	WindForce  float32
	WindAngle  float32
	Pulse      float32
	Turbulence float32
}

// Emitter marks a continuous dye and upward-velocity source.
type Emitter struct {
	ID uint32
}

// Solver converts a force field entity to the solver's input type.
func (f *ForceField) Solver(pos *Position) fluid.ForceField {
	return fluid.ForceField{
		ID:         f.ID,
		X:          pos.X,
		Y:          pos.Y,
		Radius:     f.Radius,
		Force:      f.Force,
		Spin:       f.Spin,
		WindForce:  f.WindForce,
		WindAngle:  f.WindAngle,
		Pulse:      f.Pulse,
		Turbulence: f.Turbulence,
	}
}

// FromSolver splits a solver force field into its components.
func FromSolver(ff fluid.ForceField) (Position, ForceField) {
	return Position{X: ff.X, Y: ff.Y}, ForceField{
		ID:         ff.ID,
		Radius:     ff.Radius,
		Force:      ff.Force,
		Spin:       ff.Spin,
		WindForce:  ff.WindForce,
		WindAngle:  ff.WindAngle,
		Pulse:      ff.Pulse,
		Turbulence: ff.Turbulence,
	}
}
