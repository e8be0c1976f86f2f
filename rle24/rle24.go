/*
Package rle24 implements the run-length splash bitmap encoding.

Each row of the bitmap is encoded independently as a sequence of tokens. A
token starts with a control byte; if the top bit is set the token is a run of
(control & 0x7f) + 1 pixels sharing the single BGR triplet that follows,
otherwise it is a literal of control + 1 pixels, each followed by its own BGR
triplet. No token covers more than 128 pixels or crosses the end of a row.
*/
package rle24

import (
	"errors"

	"github.com/bodgit/splash/bitmap"
)

const (
	// MaxCount is the most pixels a single token can cover
	MaxCount = 0x80

	runFlag   = 0x80
	countMask = 0x7f

	bytesPerPixel = 3
)

var (
	// ErrTruncated is returned when a control byte needs more color bytes
	// than remain in the input
	ErrTruncated = errors.New("rle24: truncated bitmap data")
	// ErrRowOverrun is returned when a token covers more pixels than
	// remain in the current row
	ErrRowOverrun = errors.New("rle24: token crosses row boundary")
)

// Kind distinguishes run tokens from literal tokens
type Kind int

const (
	// Literal tokens list each pixel color explicitly
	Literal Kind = iota
	// Run tokens repeat one color
	Run
)

// Token is one encoding unit. A Run uses Colors[0] for every pixel, a
// Literal carries one color per pixel.
type Token struct {
	Kind   Kind
	Count  int
	Colors []bitmap.BGR
}

func (t Token) control() byte {
	c := byte(t.Count-1) & countMask
	if t.Kind == Run {
		c |= runFlag
	}
	return c
}

// AppendTo appends the encoded token to b
func (t Token) AppendTo(b []byte) []byte {
	b = append(b, t.control())
	for _, c := range t.Colors {
		b = append(b, c.B, c.G, c.R)
	}
	return b
}
