/*
Package header implements the block header found at the start of each splash
image block.

A block header occupies the first 24 bytes of a 512 byte page. The first 8
bytes hold the ASCII signature "SPLASH!!" followed by four little-endian
32-bit integers: width, height, mode and the number of pages reserved for the
bitmap payload. The remainder of the page is zero.
*/
package header

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// PageSize is the alignment unit of a splash image
	PageSize = 512
	// Size is the number of meaningful bytes at the start of a header page
	Size = 24
)

// Signature marks the start of a block header page
var Signature = [8]byte{'S', 'P', 'L', 'A', 'S', 'H', '!', '!'}

var (
	// ErrInvalidMode is returned when the mode field is neither Raw nor
	// RunLength
	ErrInvalidMode = errors.New("header: invalid bitmap mode")
	// ErrBadSignature is returned when a page does not start with the
	// signature
	ErrBadSignature = errors.New("header: bad signature")
	errNotEnough    = errors.New("header: not enough header data")
)

// Mode is the payload encoding of a block
type Mode uint32

const (
	// Raw payloads are uncompressed BGR triplets in row-major order
	Raw Mode = iota
	// RunLength payloads are RLE24 compressed rows
	RunLength
)

func (m Mode) String() string {
	switch m {
	case Raw:
		return "Uncompressed"
	case RunLength:
		return "RLE24 Compression"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

// Header is the decoded block header. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	Width  uint32
	Height uint32
	Mode   Mode
	Pages  uint32
}

type wireHeader struct {
	Signature [8]byte
	Width     uint32
	Height    uint32
	Mode      uint32
	Pages     uint32
}

// Validate checks the mode field
func (h *Header) Validate() error {
	if h.Mode != Raw && h.Mode != RunLength {
		return ErrInvalidMode
	}
	return nil
}

// Capacity returns the number of bytes reserved for the payload
func (h *Header) Capacity() int64 {
	return int64(h.Pages) * PageSize
}

// PagesFor returns the number of whole pages needed to hold n bytes
func PagesFor(n int) uint32 {
	return uint32((n + PageSize - 1) / PageSize)
}

// MarshalBinary returns a full header page
func (h *Header) MarshalBinary() ([]byte, error) {
	b := bytes.NewBuffer(make([]byte, 0, PageSize))

	w := wireHeader{
		Signature: Signature,
		Width:     h.Width,
		Height:    h.Height,
		Mode:      uint32(h.Mode),
		Pages:     h.Pages,
	}
	if err := binary.Write(b, binary.LittleEndian, &w); err != nil {
		return nil, err
	}

	// Pad to a full page with zeroes
	b.Write(make([]byte, PageSize-Size))

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the header fields from the start of a page. Only
// the signature is checked, the mode is left for Validate.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < Size {
		return errNotEnough
	}

	var w wireHeader
	if err := binary.Read(bytes.NewReader(b[:Size]), binary.LittleEndian, &w); err != nil {
		return err
	}

	if w.Signature != Signature {
		return ErrBadSignature
	}

	*h = Header{
		Width:  w.Width,
		Height: w.Height,
		Mode:   Mode(w.Mode),
		Pages:  w.Pages,
	}

	return nil
}

// IsSignature reports whether b starts with the block signature
func IsSignature(b []byte) bool {
	return len(b) >= len(Signature) && bytes.Equal(b[:len(Signature)], Signature[:])
}
