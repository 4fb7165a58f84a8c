// Package camera provides a 2D camera for viewing the simulation grid.
package camera

// Camera controls the viewport into the simulation grid.
// Grid coordinates are grid pixels with a top-left origin, like screen
// coordinates. At zoom 1 the whole grid fills the viewport; the view is
// clamped so it never leaves the grid.
type Camera struct {
	// Position is the camera center in grid coordinates
	X, Y float32

	// Zoom level (1.0 = whole grid visible, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions
	GridW, GridH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole grid.
func New(viewportW, viewportH, gridW, gridH float32) *Camera {
	return &Camera{
		X:         gridW / 2,
		Y:         gridH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		GridW:     gridW,
		GridH:     gridH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// scale returns screen pixels per grid pixel on each axis.
func (c *Camera) scale() (sx, sy float32) {
	return c.ViewportW / c.GridW * c.Zoom, c.ViewportH / c.GridH * c.Zoom
}

// GridToScreen converts grid coordinates to screen coordinates.
func (c *Camera) GridToScreen(gx, gy float32) (sx, sy float32) {
	kx, ky := c.scale()
	sx = c.ViewportW/2 + (gx-c.X)*kx
	sy = c.ViewportH/2 + (gy-c.Y)*ky
	return sx, sy
}

// ScreenToGrid converts screen coordinates to grid coordinates.
func (c *Camera) ScreenToGrid(sx, sy float32) (gx, gy float32) {
	kx, ky := c.scale()
	gx = c.X + (sx-c.ViewportW/2)/kx
	gy = c.Y + (sy-c.ViewportH/2)/ky
	return gx, gy
}

// InGrid reports whether a grid coordinate lies on the grid.
func (c *Camera) InGrid(gx, gy float32) bool {
	return gx >= 0 && gy >= 0 && gx < c.GridW && gy < c.GridH
}

// PixelsToGrid converts a screen-space length to grid pixels along x.
func (c *Camera) PixelsToGrid(d float32) float32 {
	kx, _ := c.scale()
	return d / kx
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	kx, ky := c.scale()
	c.X += dx / kx
	c.Y += dy / ky
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the grid point under (sx, sy) fixed,
// unless clamping at the grid edge moves it.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	gx, gy := c.ScreenToGrid(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	kx, ky := c.scale()
	c.X = gx - (sx-c.ViewportW/2)/kx
	c.Y = gy - (sy-c.ViewportH/2)/ky
	c.clampCenter()
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.GridW / 2
	c.Y = c.GridH / 2
	c.Zoom = 1.0
}

// VisibleGridBounds returns the grid-coordinate bounds of the visible area.
func (c *Camera) VisibleGridBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.GridW / (2 * c.Zoom)
	halfH := c.GridH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the visible area inside the grid.
func (c *Camera) clampCenter() {
	halfW := c.GridW / (2 * c.Zoom)
	halfH := c.GridH / (2 * c.Zoom)
	c.X = clamp(c.X, halfW, c.GridW-halfW)
	c.Y = clamp(c.Y, halfH, c.GridH-halfH)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
