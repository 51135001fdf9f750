// Package textnorm reduces free text to the uppercase A-Z alphabet used by
// classical ciphers.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Pad is appended to fill the last block.
const Pad = 'X'

// Normalize strips accents, uppercases with full case mapping (so "ß"
// becomes "SS") and keeps only the letters A-Z. When block > 0 and the
// result is not a multiple of block, it is padded with X up to the next
// multiple.
func Normalize(text string, block int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		// The chain only fails on invalid UTF-8, which is dropped below anyway.
		stripped = text
	}
	upper := cases.Upper(language.Und).String(stripped)

	var b strings.Builder
	b.Grow(len(upper))
	for i := 0; i < len(upper); i++ {
		if c := upper[i]; c >= 'A' && c <= 'Z' {
			b.WriteByte(c)
		}
	}
	if block > 0 {
		if rem := b.Len() % block; rem != 0 {
			b.WriteString(strings.Repeat(string(Pad), block-rem))
		}
	}
	return b.String()
}
