// Package renderer presents solver output with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eddy/fluid"
)

// Platform reports what the raylib window can host.
// It implements fluid.Capabilities.
type Platform struct {
	// MaxTexture caps surface edges; 0 leaves the solver's own limit.
	MaxTexture int
}

var _ fluid.Capabilities = Platform{}

// MaxSurfaceSize returns the largest texture edge.
func (p Platform) MaxSurfaceSize() int {
	return p.MaxTexture
}

// SurfacesReady reports whether a GL context exists.
func (p Platform) SurfacesReady() bool {
	return rl.IsWindowReady()
}
