package rle24

import (
	"github.com/bodgit/splash/bitmap"
)

// Tokenize reduces a row of pixels to tokens. A run is only started when at
// least two consecutive pixels are equal; any other pixels are gathered into
// literals. Both kinds are split at MaxCount pixels.
func Tokenize(row []bitmap.BGR) []Token {
	var tokens []Token

	for i := 0; i < len(row); {
		j := i + 1
		for j < len(row) && j-i < MaxCount && row[j] == row[i] {
			j++
		}

		if j-i > 1 {
			tokens = append(tokens, Token{
				Kind:   Run,
				Count:  j - i,
				Colors: []bitmap.BGR{row[i]},
			})
			i = j
			continue
		}

		start := i
		for i < len(row) && i-start < MaxCount {
			// Stop before a pair that can start a run
			if i+1 < len(row) && row[i] == row[i+1] {
				break
			}
			i++
		}

		tokens = append(tokens, Token{
			Kind:   Literal,
			Count:  i - start,
			Colors: append([]bitmap.BGR(nil), row[start:i]...),
		})
	}

	return tokens
}

// EncodeRow appends the encoding of a single row to b
func EncodeRow(b []byte, row []bitmap.BGR) []byte {
	for _, t := range Tokenize(row) {
		b = t.AppendTo(b)
	}
	return b
}

// Encode returns the run-length encoding of m
func Encode(m *bitmap.Bitmap) []byte {
	var b []byte
	for y := 0; y < m.Height; y++ {
		b = EncodeRow(b, m.Row(y))
	}
	return b
}
