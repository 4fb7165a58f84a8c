package renderer

import (
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Readback renders into an offscreen target and copies the result to CPU
// memory, for PNG export of what the display shader produces.
type Readback struct {
	target rl.RenderTexture2D
	width  int
	height int
}

// NewReadback allocates a render target of the given size.
func NewReadback(width, height int) *Readback {
	return &Readback{
		target: rl.LoadRenderTexture(int32(width), int32(height)),
		width:  width,
		height: height,
	}
}

// Bounds returns the full target rect, for use as a draw destination.
func (r *Readback) Bounds() rl.Rectangle {
	return rl.NewRectangle(0, 0, float32(r.width), float32(r.height))
}

// Capture clears the target, runs draw into it and returns the pixels
// top-down.
func (r *Readback) Capture(draw func(dst rl.Rectangle)) *image.RGBA {
	rl.BeginTextureMode(r.target)
	rl.ClearBackground(rl.Black)
	draw(r.Bounds())
	rl.EndTextureMode()

	img := rl.LoadImageFromTexture(r.target.Texture)
	defer rl.UnloadImage(img)
	// Render textures are stored bottom-up (OpenGL convention)
	rl.ImageFlipVertical(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	out := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for i, c := range colors[:r.width*r.height] {
		out.Pix[i*4+0] = c.R
		out.Pix[i*4+1] = c.G
		out.Pix[i*4+2] = c.B
		out.Pix[i*4+3] = c.A
	}
	return out
}

// Unload releases the render target.
func (r *Readback) Unload() {
	rl.UnloadRenderTexture(r.target)
}
