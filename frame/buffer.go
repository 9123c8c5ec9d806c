package frame

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Buffer is a reduced frame, one RGBA pixel per output character cell.
type Buffer struct {
	// Pix holds the pixels in row-major order, top to bottom. The pixel at
	// (x, y) starts at Pix[(y*Width+x)*4].
	Pix    []uint8
	Width  int
	Height int
}

func (b *Buffer) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0
}

// Check reports whether Pix matches the declared dimensions.
func (b *Buffer) Check() error {
	if b == nil {
		return fmt.Errorf("nil pixel buffer")
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("negative pixel buffer size %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("pixel buffer holds %d bytes, %dx%d needs %d", len(b.Pix), b.Width, b.Height, want)
	}
	return nil
}

// RGB returns the color channels of the pixel at (x, y).
func (b *Buffer) RGB(x, y int) (r, g, bl uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// FromImage copies img into a Buffer at its native resolution.
func FromImage(img image.Image) *Buffer {
	sr := img.Bounds()
	if sr.Empty() {
		return &Buffer{}
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != sr.Dx()*4 || sr.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
		draw.Draw(rgba, rgba.Rect, img, sr.Min, draw.Src)
	}

	return &Buffer{Pix: rgba.Pix, Width: sr.Dx(), Height: sr.Dy()}
}

// Image returns an *image.RGBA view sharing Pix.
func (b *Buffer) Image() *image.RGBA {
	return &image.RGBA{Pix: b.Pix, Stride: b.Width * 4, Rect: image.Rect(0, 0, b.Width, b.Height)}
}
