package splash

import (
	"errors"
	"io"

	"github.com/bodgit/splash/bitmap"
)

// ExtractFunc receives each successfully decoded block
type ExtractFunc func(*Block, *bitmap.Bitmap) error

func (s *Splash) logBlock(b *Block) {
	s.logger.Printf("Splash index: %d\n", b.Index)
	s.logger.Printf("Dimensions: %dx%d\n", b.Header.Width, b.Header.Height)
	s.logger.Println(b.Header.Mode)
	s.logger.Printf("Bitmap size: %d\n", b.Header.Capacity())
}

// Extract decodes every block in r and passes it to fn. Failures scoped to a
// block, including those returned by fn, are logged and the scan continues.
// The number of blocks found is returned.
func (s *Splash) Extract(r io.ReaderAt, fn ExtractFunc) (int, error) {
	sc := NewScanner(r, s.resume)

	var found int
	for {
		b, err := sc.Next()
		if err == io.EOF {
			break
		}
		if b == nil {
			return found, err
		}
		found++

		if err != nil {
			s.logger.Println(err)
			continue
		}
		s.logBlock(b)

		payload, err := ReadPayload(r, b.Payload(), b.Header.Pages)
		if err != nil {
			s.logger.Println(&BlockError{b.Index, b.Position, err})
			continue
		}

		m, err := Decode(b.Header, payload)
		if err != nil {
			s.logger.Println(&BlockError{b.Index, b.Position, err})
			continue
		}

		if err := fn(b, m); err != nil {
			var be *BlockError
			if !errors.As(err, &be) {
				err = &BlockError{b.Index, b.Position, err}
			}
			s.logger.Println(err)
			continue
		}
	}

	if found == 0 {
		s.logger.Println("Image contains no splash pictures")
	}

	return found, nil
}
