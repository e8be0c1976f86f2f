/*
Package raw implements the uncompressed splash bitmap encoding.

Each pixel is written as three bytes in blue, green, red order, row by row
starting at the top-left corner. The encoded size is always width * height *
3 bytes; any trailing bytes in a payload are ignored.
*/
package raw

import (
	"errors"

	"github.com/bodgit/splash/bitmap"
)

const bytesPerPixel = 3

// ErrNotEnough is returned by Decode when b is shorter than the bitmap
var ErrNotEnough = errors.New("raw: not enough bitmap data")

// Size returns the encoded size of a width by height bitmap
func Size(width, height int) int {
	return width * height * bytesPerPixel
}

// Encode returns the uncompressed encoding of m
func Encode(m *bitmap.Bitmap) []byte {
	b := make([]byte, 0, Size(m.Width, m.Height))
	for _, p := range m.Pix {
		b = append(b, p.B, p.G, p.R)
	}
	return b
}

// fits reports whether n bytes hold a width by height bitmap without
// overflowing the multiplication
func fits(width, height, n int) bool {
	if width < 0 || height < 0 {
		return false
	}
	return uint64(width)*uint64(height) <= uint64(n)/bytesPerPixel
}

// Decode reads a width by height bitmap from b
func Decode(b []byte, width, height int) (*bitmap.Bitmap, error) {
	if !fits(width, height, len(b)) {
		return nil, ErrNotEnough
	}

	m := bitmap.New(width, height)
	for i := range m.Pix {
		p := b[i*bytesPerPixel:]
		m.Pix[i] = bitmap.BGR{B: p[0], G: p[1], R: p[2]}
	}
	return m, nil
}
