package splash

import (
	"fmt"
	"hash/crc32"

	"github.com/bodgit/splash/bitmap"
	"github.com/bodgit/splash/raw"
)

// CRC returns the CRC-32 of the uncompressed encoding of m, so the same
// picture has the same checksum whichever mode it is stored with
func CRC(m *bitmap.Bitmap) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(raw.Encode(m)))
}
