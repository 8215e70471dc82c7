package termwindow

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// classify reports the display width (0, 1, or 2) of the already
// decoded codepoint r together with whether it is printable. Width is negative
// for codepoints this library refuses to draw (most C0/C1 controls);
// those also report printable=false so callers can note the failure
// without aborting the rest of the scan. Graphical runes and the plain
// space both count as printable.
func classify(r rune) (width int, printable bool) {
	switch {
	case r == ' ':
		return 1, true
	case r < 0x20 || r == 0x7f:
		return -1, false
	case unicode.IsControl(r):
		return -1, false
	}
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return -1, false
	}
	return w, true
}

// decodeRune decodes the first rune of s, reporting the number of bytes
// it consumed and, when decoding failed, which of the two distinct ways
// it failed: a malformed byte sequence (decErr == ErrIllSeq — advance
// past the single offending byte and keep scanning) or a valid encoding
// prefix truncated by the end of s (decErr == ErrIncomplete — nothing
// more can be decoded from this call). decErr is ErrSuccess on a normal
// decode.
func decodeRune(s string) (r rune, size int, decErr Error) {
	if len(s) == 0 {
		return utf8.RuneError, 0, ErrSuccess
	}
	r, size = utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		if !utf8.FullRuneInString(s) {
			return r, len(s), ErrIncomplete
		}
		return r, size, ErrIllSeq
	}
	return r, size, ErrSuccess
}

// strwidth computes the on-screen column width of an entire string using
// grapheme-cluster-aware segmentation, as opposed to classify's
// per-codepoint view used by the painter's hot path. This is the backing
// implementation for Terminal.Strwidth.
func strwidth(s string) int {
	return uniseg.StringWidth(s)
}
