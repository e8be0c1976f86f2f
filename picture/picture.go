/*
Package picture loads and saves the standard picture formats used for
extracted and substitute splash pictures.
*/
package picture

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/bmp"
)

// Format is an output picture format
type Format string

// Supported formats. Each is also the file extension used.
const (
	BMP  Format = "bmp"
	PNG  Format = "png"
	GIF  Format = "gif"
	JPEG Format = "jpeg"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("picture: unknown format")

// ParseFormat returns the Format named by s
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case BMP, PNG, GIF, JPEG:
		return f, nil
	case "jpg":
		return JPEG, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Ext returns the file extension including the leading dot
func (f Format) Ext() string {
	return "." + string(f)
}

// Decode reads a BMP, GIF, JPEG or PNG picture from r
func Decode(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	return m, err
}

// Load reads the picture stored in file
func Load(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

const maxColors = 256

// Returns nil if m uses more than maxColors colors
func exactPalette(m image.Image) color.Palette {
	b := m.Bounds()
	seen := make(map[color.RGBA]struct{})
	p := make(color.Palette, 0, maxColors)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(m.At(x, y)).(color.RGBA)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == maxColors {
				return nil
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}
	return p
}

// Paletted reduces m to at most 256 colors using median cut quantization.
// Pictures already within the limit keep their exact colors.
func Paletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	p := exactPalette(m)
	if p == nil {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, maxColors), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Encode writes m to w in format f
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case BMP:
		return bmp.Encode(w, m)
	case PNG:
		return png.Encode(w, m)
	case GIF:
		return gif.Encode(w, Paletted(m), nil)
	case JPEG:
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 100})
	default:
		return ErrUnknownFormat
	}
}

// Save writes m to file in format f
func Save(file string, m image.Image, f Format) error {
	out, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := Encode(out, m, f); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
