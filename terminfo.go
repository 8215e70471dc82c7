package termwindow

import (
	"strings"

	"github.com/xo/terminfo"
)

// caps wraps the subset of a terminfo entry the terminal engine cares
// about. Capability lookup and tparm expansion themselves are explicitly
// out of scope for this package (per the design notes); everything here
// is a thin adapter onto github.com/xo/terminfo. The rest of the package
// imports it only for its capability index constants and does all
// lookup and expansion through caps.
type caps struct {
	ti *terminfo.Terminfo

	hasBCE      bool
	hasAutoWrap bool
	numColors   int

	acsChars string
}

func loadCaps() (*caps, error) {
	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		return nil, ErrTerminfoDBNotFound
	}
	c := &caps{ti: ti}
	c.hasBCE = ti.Bools[terminfo.BackColorErase]
	c.hasAutoWrap = ti.Bools[terminfo.AutoRightMargin]
	c.numColors = ti.Nums[terminfo.MaxColors]
	c.acsChars = string(ti.Strings[terminfo.AcsChars])
	return c, nil
}

// str returns the raw (unparametrized) string capability idx, or "" if
// the terminal lacks it.
func (c *caps) str(idx int) string {
	return string(c.ti.Strings[idx])
}

// has reports whether the terminal has string capability idx.
func (c *caps) has(idx int) bool {
	return len(c.ti.Strings[idx]) > 0
}

// parm expands a parametrized string capability, e.g. cursor addressing
// or a color-select sequence.
func (c *caps) parm(idx int, p ...int) string {
	if len(c.ti.Strings[idx]) == 0 {
		return ""
	}
	ps := make([]interface{}, len(p))
	for i, v := range p {
		ps[i] = v
	}
	return c.ti.Printf(idx, ps...)
}

// acsAvailable reports whether b has an entry in the terminal's acsc
// mapping; used to decide between emitting a real ACS glyph and falling
// back to the plain-ASCII substitute table in cell.go.
func (c *caps) acsAvailable(b byte) bool {
	return strings.IndexByte(c.acsChars, b) >= 0
}

// isHardcopy reports whether the terminal looks like a hardcopy device
// (no cursor addressing capability at all), matching term_init's check.
func (c *caps) isHardcopy() bool {
	return c.str(terminfo.CursorAddress) == ""
}

// hasRequiredCaps reports whether the terminal carries the two
// capabilities Init requires: clear and cup. A terminal missing either
// is too limited for this package to drive.
func (c *caps) hasRequiredCaps() bool {
	return c.has(terminfo.ClearScreen) && c.has(terminfo.CursorAddress)
}

// sizeFromTerminfo reads the lines/columns numeric capabilities, the
// last entry in the size-detection fallback chain (TIOCGWINSZ, then
// $LINES/$COLUMNS, then terminfo).
func (c *caps) sizeFromTerminfo() (width, height int, ok bool) {
	cols := c.ti.Nums[terminfo.Columns]
	lines := c.ti.Nums[terminfo.Lines]
	if cols <= 0 || lines <= 0 {
		return 0, 0, false
	}
	return cols, lines, true
}
