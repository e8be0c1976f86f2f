package bitmap

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

var _ draw.Image = new(Bitmap)

func TestBGR(t *testing.T) {
	r, g, b, a := BGR{B: 0x30, G: 0x20, R: 0x10}.RGBA()
	assert.Equal(t, uint32(0x1010), r)
	assert.Equal(t, uint32(0x2020), g)
	assert.Equal(t, uint32(0x3030), b)
	assert.Equal(t, uint32(0xffff), a)

	assert.Equal(t, BGR{B: 30, G: 20, R: 10}, Model.Convert(color.RGBA{10, 20, 30, 0xff}))
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.Set(5, 5, color.RGBA{1, 2, 3, 0xff})
	src.Set(7, 6, color.RGBA{4, 5, 6, 0xff})

	m := FromImage(src)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, BGR{B: 3, G: 2, R: 1}, m.BGRAt(0, 0))
	assert.Equal(t, BGR{B: 6, G: 5, R: 4}, m.BGRAt(2, 1))
	assert.Equal(t, image.Rect(0, 0, 3, 2), m.Bounds())
}

func TestFromBitmapCopies(t *testing.T) {
	m := New(2, 1)
	dup := FromImage(m)
	dup.Set(0, 0, color.White)
	assert.Equal(t, BGR{}, m.BGRAt(0, 0))
	assert.Equal(t, BGR{0xff, 0xff, 0xff}, dup.BGRAt(0, 0))
}

func TestSetOutOfBounds(t *testing.T) {
	m := New(2, 2)
	m.Set(2, 0, color.White)
	m.Set(-1, 0, color.White)
	assert.Equal(t, make([]BGR, 4), m.Pix)
	assert.Equal(t, BGR{}, m.BGRAt(5, 5))
}

func TestRow(t *testing.T) {
	m := New(3, 2)
	m.Set(1, 1, color.White)
	assert.Equal(t, []BGR{{}, {0xff, 0xff, 0xff}, {}}, m.Row(1))
}
