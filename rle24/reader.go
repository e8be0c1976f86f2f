package rle24

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bodgit/splash/bitmap"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = ErrTruncated
	}
	return err
}

type decoder struct {
	r io.Reader

	// Enough to hold the colors of the longest literal
	tmp [MaxCount * bytesPerPixel]byte
}

func (d *decoder) readToken() (Token, error) {
	if err := readFull(d.r, d.tmp[:1]); err != nil {
		return Token{}, err
	}

	t := Token{Count: int(d.tmp[0]&countMask) + 1}
	colors := t.Count
	if d.tmp[0]&runFlag != 0 {
		t.Kind = Run
		colors = 1
	}

	if err := readFull(d.r, d.tmp[:colors*bytesPerPixel]); err != nil {
		return Token{}, err
	}

	t.Colors = make([]bitmap.BGR, colors)
	for i := range t.Colors {
		p := d.tmp[i*bytesPerPixel:]
		t.Colors[i] = bitmap.BGR{B: p[0], G: p[1], R: p[2]}
	}

	return t, nil
}

func (d *decoder) decodeRow(row []bitmap.BGR) error {
	for x := 0; x < len(row); {
		t, err := d.readToken()
		if err != nil {
			return err
		}

		if x+t.Count > len(row) {
			return ErrRowOverrun
		}

		for i := 0; i < t.Count; i++ {
			if t.Kind == Run {
				row[x] = t.Colors[0]
			} else {
				row[x] = t.Colors[i]
			}
			x++
		}
	}
	return nil
}

// Decode reads a width by height run-length encoded bitmap from b. Any bytes
// following the last row are ignored.
func Decode(b []byte, width, height int) (*bitmap.Bitmap, error) {
	if width < 0 || height < 0 {
		return nil, ErrTruncated
	}
	if width == 0 || height == 0 {
		return bitmap.New(width, height), nil
	}

	// Each row needs at least one run token per MaxCount pixels
	tokens := (uint64(width) + MaxCount - 1) / MaxCount
	if uint64(height)*tokens*(1+bytesPerPixel) > uint64(len(b)) {
		return nil, ErrTruncated
	}

	d := decoder{r: bytes.NewReader(b)}

	m := bitmap.New(width, height)
	for y := 0; y < height; y++ {
		if err := d.decodeRow(m.Row(y)); err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
	}
	return m, nil
}
