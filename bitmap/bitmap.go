/*
Package bitmap implements the 24-bit pixel raster stored in splash images.

Pixels are kept in row-major order with the origin at the top-left. There is
no alpha channel; converting from a picture with transparency discards it.
*/
package bitmap

import (
	"image"
	"image/color"
)

// BGR is a 24-bit color. Field order matches the byte order used in the
// container.
type BGR struct {
	B, G, R uint8
}

// RGBA implements the color.Color interface
func (c BGR) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}

func bgrModel(c color.Color) color.Color {
	if _, ok := c.(BGR); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return BGR{B: uint8(b >> 8), G: uint8(g >> 8), R: uint8(r >> 8)}
}

// Model converts any color to BGR
var Model = color.ModelFunc(bgrModel)

// Bitmap is a width by height grid of BGR pixels. It implements the
// draw.Image interface.
type Bitmap struct {
	Width  int
	Height int
	Pix    []BGR
}

// New returns a black bitmap of the given dimensions
func New(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]BGR, width*height),
	}
}

// FromImage copies m into a new bitmap. The bitmap origin is the top-left
// corner of m regardless of where its bounds start.
func FromImage(m image.Image) *Bitmap {
	if bm, ok := m.(*Bitmap); ok {
		dup := New(bm.Width, bm.Height)
		copy(dup.Pix, bm.Pix)
		return dup
	}

	b := m.Bounds()
	bm := New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			bm.Pix[(y-b.Min.Y)*bm.Width+x-b.Min.X] = bgrModel(m.At(x, y)).(BGR)
		}
	}
	return bm
}

// Row returns the pixels of row y
func (m *Bitmap) Row(y int) []BGR {
	return m.Pix[y*m.Width : (y+1)*m.Width]
}

// ColorModel implements image.Image
func (m *Bitmap) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image
func (m *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements image.Image
func (m *Bitmap) At(x, y int) color.Color {
	return m.BGRAt(x, y)
}

// BGRAt returns the pixel at (x, y) or black if outside the bounds
func (m *Bitmap) BGRAt(x, y int) BGR {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return BGR{}
	}
	return m.Pix[y*m.Width+x]
}

// Set implements draw.Image
func (m *Bitmap) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return
	}
	m.Pix[y*m.Width+x] = bgrModel(c).(BGR)
}
