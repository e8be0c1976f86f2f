package splash

import (
	"github.com/bodgit/splash/bitmap"
	"github.com/bodgit/splash/header"
	"github.com/bodgit/splash/raw"
	"github.com/bodgit/splash/rle24"
)

// Decode decodes a payload according to the header mode
func Decode(h header.Header, payload []byte) (*bitmap.Bitmap, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if h.Mode == header.RunLength {
		return rle24.Decode(payload, int(h.Width), int(h.Height))
	}
	return raw.Decode(payload, int(h.Width), int(h.Height))
}

// Encode returns the run-length encoding of m unless it would be larger than
// the uncompressed encoding, in which case that is used instead. If keepRaw
// is set and the block is currently uncompressed it stays uncompressed.
func Encode(m *bitmap.Bitmap, current header.Mode, keepRaw bool) ([]byte, header.Mode) {
	if keepRaw && current == header.Raw {
		return raw.Encode(m), header.Raw
	}
	if b := rle24.Encode(m); len(b) <= raw.Size(m.Width, m.Height) {
		return b, header.RunLength
	}
	return raw.Encode(m), header.Raw
}
