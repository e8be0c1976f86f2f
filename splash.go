/*
Package splash is a library for extracting and replacing the pictures
embedded in firmware splash images.

A splash image is divided into 512 byte pages. Each picture is stored as a
block consisting of a header page starting with the signature "SPLASH!!"
followed by a number of payload pages holding the bitmap, either
uncompressed or run-length encoded.
*/
package splash

import (
	"errors"
	"fmt"
	"io"
	"log"
)

var (
	// ErrNotFound is returned by FindSignature when no further block
	// signature exists
	ErrNotFound = errors.New("splash: signature not found")
	// ErrTruncated is returned when the container ends before a header
	// page or payload region
	ErrTruncated = errors.New("splash: truncated read")
	// ErrDimensionMismatch is returned when a substitute picture differs
	// in size from the block it replaces
	ErrDimensionMismatch = errors.New("splash: substitute picture has different dimensions")
	// ErrCapacity is returned when a grown payload would overwrite
	// non-zero bytes or run past the end of the container
	ErrCapacity = errors.New("splash: substitute picture does not fit in the image")
	// ErrIndexNotFound is returned when the substitution target was never
	// located
	ErrIndexNotFound = errors.New("splash: substitute index does not exist in the image")
	// ErrSubstitution is returned when a substitution pass encountered
	// any per-block error
	ErrSubstitution = errors.New("splash: substitution encountered invalid blocks")
)

// BlockError records a failure scoped to a single block
type BlockError struct {
	Index    int
	Position int64
	Err      error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d at %#x: %v", e.Index, e.Position, e.Err)
}

// Unwrap returns the underlying error
func (e *BlockError) Unwrap() error {
	return e.Err
}

// Container is a splash image that can be patched in place. *os.File
// satisfies it.
type Container interface {
	io.ReaderAt
	io.WriterAt
}

// Splash scans and patches splash images, reporting progress to a logger
type Splash struct {
	logger  *log.Logger
	resume  Resume
	keepRaw bool
}

// Option configures a Splash
type Option func(*Splash)

// WithResume sets where scanning resumes after each block
func WithResume(r Resume) Option {
	return func(s *Splash) {
		s.resume = r
	}
}

// WithKeepRaw prevents uncompressed blocks being rewritten as run-length
// encoded
func WithKeepRaw(keep bool) Option {
	return func(s *Splash) {
		s.keepRaw = keep
	}
}

// New returns a Splash logging to logger
func New(logger *log.Logger, options ...Option) *Splash {
	s := &Splash{
		logger: logger,
		resume: ResumeAfterPayload,
	}
	for _, o := range options {
		o(s)
	}
	return s
}
