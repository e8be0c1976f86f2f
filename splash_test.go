package splash

import (
	"bytes"
	"io"
	"io/ioutil"
	"log"
	"testing"

	"github.com/bodgit/splash/bitmap"
	"github.com/bodgit/splash/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memory is an in-memory Container
type memory struct {
	b      []byte
	writes int
}

func (m *memory) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.b)) {
		return 0, io.EOF
	}
	n := copy(p, m.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memory) WriteAt(p []byte, off int64) (int, error) {
	if end := off + int64(len(p)); end > int64(len(m.b)) {
		m.b = append(m.b, make([]byte, end-int64(len(m.b)))...)
	}
	m.writes++
	return copy(m.b[off:], p), nil
}

func (m *memory) bytes() []byte {
	return append([]byte(nil), m.b...)
}

type testBlock struct {
	page    int
	header  header.Header
	payload []byte
}

// newContainer lays out pages of zeroes, then writes each block header and
// payload at the given page
func newContainer(t *testing.T, pages int, blocks ...testBlock) *memory {
	m := &memory{b: make([]byte, pages*header.PageSize)}
	for _, tb := range blocks {
		page, err := tb.header.MarshalBinary()
		require.NoError(t, err)
		copy(m.b[tb.page*header.PageSize:], page)
		copy(m.b[(tb.page+1)*header.PageSize:], tb.payload)
	}
	m.writes = 0
	return m
}

func newTestSplash(options ...Option) (*Splash, *bytes.Buffer) {
	b := new(bytes.Buffer)
	return New(log.New(b, "", 0), options...), b
}

func solid(w, h int, c bitmap.BGR) *bitmap.Bitmap {
	m := bitmap.New(w, h)
	for i := range m.Pix {
		m.Pix[i] = c
	}
	return m
}

var rawBlock = testBlock{
	page:    0,
	header:  header.Header{Width: 2, Height: 2, Mode: header.Raw, Pages: 1},
	payload: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
}

func TestExtract(t *testing.T) {
	c := newContainer(t, 2, rawBlock)
	s, logs := newTestSplash()

	var got []*bitmap.Bitmap
	n, err := s.Extract(c, func(b *Block, m *bitmap.Bitmap) error {
		assert.Equal(t, 0, b.Index)
		got = append(got, m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, got, 1)

	want := &bitmap.Bitmap{
		Width:  2,
		Height: 2,
		Pix: []bitmap.BGR{
			{B: 1, G: 2, R: 3},
			{B: 4, G: 5, R: 6},
			{B: 7, G: 8, R: 9},
			{B: 10, G: 11, R: 12},
		},
	}
	assert.Equal(t, want, got[0])
	assert.Contains(t, logs.String(), "Dimensions: 2x2\nUncompressed\nBitmap size: 512\n")
}

func TestExtractContinuesAfterBlockErrors(t *testing.T) {
	huge := header.Header{Width: 1 << 31, Height: 1 << 31, Pages: 1}
	hugeRLE := huge
	hugeRLE.Mode = header.RunLength

	c := newContainer(t, 12,
		testBlock{page: 0, header: header.Header{Width: 1, Height: 1, Mode: 7, Pages: 1}},
		testBlock{page: 2, header: header.Header{Width: 2, Height: 1, Mode: header.RunLength, Pages: 1}, payload: []byte{0x82, 1, 2, 3}},
		testBlock{page: 4, header: huge},
		testBlock{page: 6, header: hugeRLE},
		testBlock{page: 8, header: header.Header{Width: 2, Height: 1, Mode: header.RunLength, Pages: 1}, payload: []byte{0x81, 1, 2, 3}},
		testBlock{page: 10, header: header.Header{Width: 1, Height: 1, Mode: header.Raw, Pages: 4}},
	)
	s, logs := newTestSplash()

	var indices []int
	n, err := s.Extract(c, func(b *Block, m *bitmap.Bitmap) error {
		indices = append(indices, b.Index)
		assert.Equal(t, solid(2, 1, bitmap.BGR{B: 1, G: 2, R: 3}), m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []int{4}, indices)

	out := logs.String()
	assert.Contains(t, out, "block 0 at 0x0: header: invalid bitmap mode")
	assert.Contains(t, out, "block 1 at 0x400: row 0: rle24: token crosses row boundary")
	assert.Contains(t, out, "block 2 at 0x800: raw: not enough bitmap data")
	assert.Contains(t, out, "block 3 at 0xc00: rle24: truncated bitmap data")
	assert.Contains(t, out, "block 5 at 0x1400: splash: truncated read")
}

func TestExtractNoBlocks(t *testing.T) {
	s, logs := newTestSplash()
	n, err := s.Extract(newContainer(t, 4), func(*Block, *bitmap.Bitmap) error {
		t.Fatal("unexpected block")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, logs.String(), "Image contains no splash pictures")
}

func TestSubstitute(t *testing.T) {
	c := newContainer(t, 3, rawBlock)
	s, logs := newTestSplash()

	sub := solid(2, 2, bitmap.BGR{B: 30, G: 20, R: 10})
	require.NoError(t, s.Substitute(c, sub, 0))
	assert.Contains(t, logs.String(), "Substituted - New bitmap size: 512")

	var h header.Header
	require.NoError(t, h.UnmarshalBinary(c.b[:header.PageSize]))
	assert.Equal(t, header.Header{Width: 2, Height: 2, Mode: header.RunLength, Pages: 1}, h)

	// Two rows, each a single run of two pixels
	payload := append([]byte{0x81, 30, 20, 10, 0x81, 30, 20, 10}, make([]byte, header.PageSize-8)...)
	assert.Equal(t, payload, c.b[header.PageSize:2*header.PageSize])

	_, err := s.Extract(c, func(b *Block, m *bitmap.Bitmap) error {
		assert.Equal(t, sub, m)
		return nil
	})
	require.NoError(t, err)
}

func TestSubstituteKeepRaw(t *testing.T) {
	c := newContainer(t, 3, rawBlock)
	s, _ := newTestSplash(WithKeepRaw(true))

	require.NoError(t, s.Substitute(c, solid(2, 2, bitmap.BGR{B: 30, G: 20, R: 10}), 0))

	var h header.Header
	require.NoError(t, h.UnmarshalBinary(c.b[:header.PageSize]))
	assert.Equal(t, header.Raw, h.Mode)
	assert.Equal(t, []byte{30, 20, 10, 30, 20, 10, 30, 20, 10, 30, 20, 10, 0}, c.b[header.PageSize:header.PageSize+13])
}

func TestSubstituteGrows(t *testing.T) {
	// 200x1 noise needs 600 bytes even uncompressed, more than the one page
	// reserved
	noise := bitmap.New(200, 1)
	for i := range noise.Pix {
		noise.Pix[i] = bitmap.BGR{B: uint8(i), R: 1}
	}
	tb := testBlock{page: 0, header: header.Header{Width: 200, Height: 1, Mode: header.RunLength, Pages: 1}}

	t.Run("free", func(t *testing.T) {
		c := newContainer(t, 3, tb)
		s, _ := newTestSplash()
		require.NoError(t, s.Substitute(c, noise, 0))

		var h header.Header
		require.NoError(t, h.UnmarshalBinary(c.b[:header.PageSize]))
		// Two literals cost two bytes more than raw
		assert.Equal(t, header.Header{Width: 200, Height: 1, Mode: header.Raw, Pages: 2}, h)
	})

	t.Run("occupied", func(t *testing.T) {
		c := newContainer(t, 3, tb)
		c.b[2*header.PageSize+50] = 0xff
		before := c.bytes()

		s, logs := newTestSplash()
		assert.Equal(t, ErrSubstitution, s.Substitute(c, noise, 0))
		assert.Equal(t, before, c.b)
		assert.Equal(t, 0, c.writes)
		assert.Contains(t, logs.String(), ErrCapacity.Error())
	})
}

func TestSubstituteErrors(t *testing.T) {
	sub := solid(2, 2, bitmap.BGR{})

	t.Run("dimensions", func(t *testing.T) {
		c := newContainer(t, 2, rawBlock)
		before := c.bytes()
		s, logs := newTestSplash()
		assert.Equal(t, ErrSubstitution, s.Substitute(c, solid(3, 2, bitmap.BGR{}), 0))
		assert.Equal(t, before, c.b)
		assert.Contains(t, logs.String(), ErrDimensionMismatch.Error())
	})

	t.Run("missing index", func(t *testing.T) {
		s, logs := newTestSplash()
		assert.Equal(t, ErrIndexNotFound, s.Substitute(newContainer(t, 2, rawBlock), sub, 1))
		assert.Contains(t, logs.String(), "Substitute index does not exist in the image")
	})

	t.Run("no blocks", func(t *testing.T) {
		s, _ := newTestSplash()
		assert.Equal(t, ErrIndexNotFound, s.Substitute(newContainer(t, 2), sub, 0))
	})

	t.Run("other block invalid", func(t *testing.T) {
		c := newContainer(t, 4, rawBlock, testBlock{page: 2, header: header.Header{Mode: 9}})
		s, _ := newTestSplash()
		assert.Equal(t, ErrSubstitution, s.Substitute(c, sub, 0))
	})

	t.Run("truncated payload", func(t *testing.T) {
		c := newContainer(t, 2, testBlock{page: 0, header: header.Header{Width: 2, Height: 2, Pages: 3}})
		before := c.bytes()
		s, _ := newTestSplash()
		assert.Equal(t, ErrSubstitution, s.Substitute(c, sub, 0))
		assert.Equal(t, before, c.b)
	})
}

func TestSubstituteSecondBlock(t *testing.T) {
	second := rawBlock
	second.page = 2
	c := newContainer(t, 4, rawBlock, second)
	first := append([]byte(nil), c.b[:2*header.PageSize]...)

	s, _ := newTestSplash()
	require.NoError(t, s.Substitute(c, solid(2, 2, bitmap.BGR{B: 1}), 1))
	assert.Equal(t, first, c.b[:2*header.PageSize])
	assert.Equal(t, []byte{0x81, 1, 0, 0}, c.b[3*header.PageSize:3*header.PageSize+4])
}

func TestNewDefaults(t *testing.T) {
	s := New(log.New(ioutil.Discard, "", 0))
	assert.Equal(t, ResumeAfterPayload, s.resume)
	assert.False(t, s.keepRaw)

	s = New(log.New(ioutil.Discard, "", 0), WithResume(ResumeAfterHeader), WithKeepRaw(true))
	assert.Equal(t, ResumeAfterHeader, s.resume)
	assert.True(t, s.keepRaw)
}

func TestBlockError(t *testing.T) {
	err := &BlockError{Index: 2, Position: 0x600, Err: ErrCapacity}
	assert.Equal(t, "block 2 at 0x600: splash: substitute picture does not fit in the image", err.Error())
	assert.Equal(t, ErrCapacity, err.Unwrap())
}
