package renderer

import (
	"fmt"
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/eddy/fluid"
)

// TextureSurface is a raylib texture that solver views upload into.
// It implements fluid.Surface. Must be created after the window.
type TextureSurface struct {
	tex    rl.Texture2D
	pixels []color.RGBA
	width  int
	height int
}

var _ fluid.Surface = (*TextureSurface)(nil)

// NewTextureSurface allocates a bilinear-filtered texture of the given size.
func NewTextureSurface(width, height int) *TextureSurface {
	img := rl.GenImageColor(width, height, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)

	return &TextureSurface{
		tex:    tex,
		pixels: make([]color.RGBA, width*height),
		width:  width,
		height: height,
	}
}

// Size returns the texture dimensions.
func (t *TextureSurface) Size() (int, int) {
	return t.width, t.height
}

// Upload copies img into the texture. The image must match the texture size.
func (t *TextureSurface) Upload(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != t.width || b.Dy() != t.height {
		return fmt.Errorf("renderer: %dx%d image into %dx%d texture", b.Dx(), b.Dy(), t.width, t.height)
	}
	for j := 0; j < t.height; j++ {
		row := img.Pix[j*img.Stride:]
		dst := t.pixels[j*t.width : (j+1)*t.width]
		for i := range dst {
			p := row[i*4 : i*4+4]
			dst[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	rl.UpdateTexture(t.tex, t.pixels)
	return nil
}

// Draw draws the src rect of the texture (texture pixels) scaled into dst.
func (t *TextureSurface) Draw(src, dst rl.Rectangle) {
	rl.DrawTexturePro(t.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Texture returns the underlying texture.
func (t *TextureSurface) Texture() rl.Texture2D {
	return t.tex
}

// Unload releases the texture.
func (t *TextureSurface) Unload() {
	rl.UnloadTexture(t.tex)
}
