package fluid

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Surface receives rendered frames. Implementations hand the pixels to a
// consumer that samples them as a texture.
type Surface interface {
	Size() (width, height int)
	Upload(img *image.RGBA) error
}

// ImageSurface is an in-memory Surface backed by an *image.RGBA.
type ImageSurface struct {
	img *image.RGBA
}

// NewImageSurface allocates a surface of the given size.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the surface dimensions.
func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Upload copies img into the surface, rescaling when the sizes differ.
func (s *ImageSurface) Upload(img *image.RGBA) error {
	if img.Bounds().Size() == s.img.Bounds().Size() && img.Stride == s.img.Stride {
		copy(s.img.Pix, img.Pix)
		return nil
	}
	xdraw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return nil
}

// Image returns the backing image. It is overwritten by the next Upload.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}
