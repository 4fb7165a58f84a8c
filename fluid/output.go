package fluid

import (
	"fmt"
	"image"
)

// Render composites the density view into target, with obstacles
// highlighted when showObstacles is set. A nil target renders into the
// solver's own density surface.
func (s *Solver) Render(target Surface, showObstacles bool) error {
	if target == nil {
		target = s.surface
	}
	return s.renderInto(target, DisplayDensity, showObstacles)
}

// RenderFlow composites the velocity view into target, or into the
// solver's flow surface when target is nil.
func (s *Solver) RenderFlow(target Surface) error {
	if target == nil {
		target = s.flow
	}
	return s.renderInto(target, DisplayVelocity, false)
}

func (s *Solver) renderInto(target Surface, mode DisplayMode, showObstacles bool) error {
	display(s.pool, s.staging, s.density.Read(), s.velocity.Read(), s.obstacles.Read(), mode, showObstacles, s.velocityScale)
	if err := target.Upload(s.staging); err != nil {
		return fmt.Errorf("uploading %s view: %w", mode, err)
	}
	return nil
}

// ReadPixels renders the requested view into a fresh RGBA8 buffer (rows
// top-down, width*height*4 bytes) with the obstacle overlay off. Field
// buffers keep their roles.
func (s *Solver) ReadPixels(mode DisplayMode) []uint8 {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	display(s.pool, img, s.density.Read(), s.velocity.Read(), s.obstacles.Read(), mode, false, s.velocityScale)
	return img.Pix
}

// DensityPixels returns the density view as raw RGBA8.
func (s *Solver) DensityPixels() []uint8 {
	return s.ReadPixels(DisplayDensity)
}

// VelocityPixels returns the velocity view as raw RGBA8.
func (s *Solver) VelocityPixels() []uint8 {
	return s.ReadPixels(DisplayVelocity)
}

// Surface returns the surface Render(nil, ...) draws into.
func (s *Solver) Surface() *ImageSurface { return s.surface }

// FlowSurface returns the surface RenderFlow(nil) draws into.
func (s *Solver) FlowSurface() *ImageSurface { return s.flow }
