package splash

import (
	"bytes"
	"io"

	"github.com/bodgit/splash/header"
)

var zeroPage [header.PageSize]byte

// ReadPayload reads pages whole pages starting at origin
func ReadPayload(r io.ReaderAt, origin int64, pages uint32) ([]byte, error) {
	length := int64(pages) * header.PageSize

	// Grow with the data actually present rather than trusting the header
	b := new(bytes.Buffer)
	n, err := io.Copy(b, io.NewSectionReader(r, origin, length))
	if err != nil {
		return nil, err
	}
	if n < length {
		return nil, ErrTruncated
	}

	return b.Bytes(), nil
}

// WritePayload replaces the payload region at origin, currently oldPages
// pages long, with payload. A payload longer than the old region may only
// claim bytes that are all zero and within the container, otherwise
// ErrCapacity is returned and nothing is written. A shorter payload has the
// remainder of the old region zeroed.
func WritePayload(c Container, payload []byte, origin int64, oldPages uint32) error {
	oldLength := int64(oldPages) * header.PageSize
	length := int64(len(payload))

	if length > oldLength {
		extension := make([]byte, length-oldLength)
		n, err := c.ReadAt(extension, origin+oldLength)
		if n < len(extension) {
			if err != nil && err != io.EOF {
				return err
			}
			return ErrCapacity
		}
		for _, b := range extension {
			if b != 0 {
				return ErrCapacity
			}
		}
	} else {
		for off := length; off < oldLength; {
			n := oldLength - off
			if n > header.PageSize {
				n = header.PageSize
			}
			if _, err := c.WriteAt(zeroPage[:n], origin+off); err != nil {
				return err
			}
			off += n
		}
	}

	_, err := c.WriteAt(payload, origin)
	return err
}
