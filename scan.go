package splash

import (
	"errors"
	"io"

	"github.com/bodgit/splash/header"
)

// Resume selects where the scanner probes next after finding a block
type Resume int

const (
	// ResumeAfterPayload skips the payload region of a valid block so
	// payload bytes are never mistaken for a signature
	ResumeAfterPayload Resume = iota
	// ResumeAfterHeader probes the page after the header, including
	// payload pages. This matches how existing tools enumerate blocks.
	ResumeAfterHeader
)

func (r Resume) String() string {
	switch r {
	case ResumeAfterPayload:
		return "payload"
	case ResumeAfterHeader:
		return "header"
	default:
		return "unknown"
	}
}

// FindSignature returns the offset of the first page at or after start,
// stepping one page at a time, whose first bytes are the block signature. Only
// start + k * header.PageSize is ever probed. ErrNotFound is returned when a
// probe runs off the end of r.
func FindSignature(r io.ReaderAt, start int64) (int64, error) {
	var s [len(header.Signature)]byte
	for pos := start; ; pos += header.PageSize {
		n, err := r.ReadAt(s[:], pos)
		if n < len(s) {
			if err == nil || err == io.EOF {
				return -1, ErrNotFound
			}
			return -1, err
		}
		if header.IsSignature(s[:]) {
			return pos, nil
		}
	}
}

// Block is a header page found in a container
type Block struct {
	Position int64
	Index    int
	Header   header.Header
}

// Payload returns the offset of the payload region
func (b *Block) Payload() int64 {
	return b.Position + header.PageSize
}

// Scanner enumerates the blocks of a container in a single pass
type Scanner struct {
	r      io.ReaderAt
	resume Resume
	next   int64
	index  int
}

// NewScanner returns a Scanner starting at the beginning of r
func NewScanner(r io.ReaderAt, resume Resume) *Scanner {
	return &Scanner{
		r:      r,
		resume: resume,
	}
}

// Next returns the next block. Every signature found consumes an index, so a
// block with an unreadable or invalid header is returned together with a
// *BlockError and the scan can carry on. io.EOF is returned once no more
// signatures exist.
func (s *Scanner) Next() (*Block, error) {
	pos, err := FindSignature(s.r, s.next)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, io.EOF
		}
		return nil, err
	}

	b := &Block{
		Position: pos,
		Index:    s.index,
	}
	s.index++
	s.next = pos + header.PageSize

	page := make([]byte, header.PageSize)
	if n, err := s.r.ReadAt(page, pos); n < len(page) {
		if err == nil || err == io.EOF {
			err = ErrTruncated
		}
		return b, &BlockError{b.Index, pos, err}
	}

	if err := b.Header.UnmarshalBinary(page); err != nil {
		return b, &BlockError{b.Index, pos, err}
	}

	if err := b.Header.Validate(); err != nil {
		return b, &BlockError{b.Index, pos, err}
	}

	s.Advance(b)

	return b, nil
}

// Advance moves the scanner past b according to the resume policy. It is
// called again after a block header has been rewritten.
func (s *Scanner) Advance(b *Block) {
	s.next = b.Position + header.PageSize
	if s.resume == ResumeAfterPayload {
		s.next = b.Payload() + b.Header.Capacity()
	}
}
