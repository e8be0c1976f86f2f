package splash

import (
	"image"
	"io"

	"github.com/bodgit/splash/bitmap"
	"github.com/bodgit/splash/header"
)

func (s *Splash) substitute(c Container, b *Block, m *bitmap.Bitmap) error {
	if uint32(m.Width) != b.Header.Width || uint32(m.Height) != b.Header.Height {
		return ErrDimensionMismatch
	}

	// The old region must exist before it can be shrunk or grown
	if _, err := ReadPayload(c, b.Payload(), b.Header.Pages); err != nil {
		return err
	}

	payload, mode := Encode(m, b.Header.Mode, s.keepRaw)

	if err := WritePayload(c, payload, b.Payload(), b.Header.Pages); err != nil {
		return err
	}

	h := header.Header{
		Width:  b.Header.Width,
		Height: b.Header.Height,
		Mode:   mode,
		Pages:  header.PagesFor(len(payload)),
	}
	page, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := c.WriteAt(page, b.Position); err != nil {
		return err
	}
	b.Header = h

	return nil
}

// Substitute replaces the picture of the block numbered index with m. The
// remaining blocks are still scanned; if any block fails, or index is never
// found, an error is returned and the container should be discarded. Blocks
// rewritten before a failure are not restored.
func (s *Splash) Substitute(c Container, m image.Image, index int) error {
	bm := bitmap.FromImage(m)
	sc := NewScanner(c, s.resume)

	var found, failed int
	for {
		b, err := sc.Next()
		if err == io.EOF {
			break
		}
		if b == nil {
			return err
		}
		found++

		if err != nil {
			s.logger.Println(err)
			failed++
			continue
		}
		s.logBlock(b)

		if b.Index != index {
			continue
		}

		if err := s.substitute(c, b, bm); err != nil {
			s.logger.Println(&BlockError{b.Index, b.Position, err})
			failed++
			continue
		}
		sc.Advance(b)

		s.logger.Printf("Substituted - New bitmap size: %d\n", b.Header.Capacity())
	}

	switch {
	case found == 0:
		s.logger.Println("Image contains no splash pictures")
		return ErrIndexNotFound
	case found <= index || index < 0:
		s.logger.Println("Substitute index does not exist in the image")
		return ErrIndexNotFound
	case failed > 0:
		return ErrSubstitution
	}

	return nil
}
