package termwindow

import (
	"strings"

	"github.com/xo/terminfo"
)

// emitter turns Attrs into terminal escape sequences. It tracks no
// state of its own beyond the capability table; the caller (Terminal)
// owns "what attributes are currently active" and passes both sides of
// the transition in.
type emitter struct {
	c *caps

	// ansi is the set of attributes the terminal switches with the
	// literal ANSI SGR codes, letting transitions covered by it compose
	// one combined "\x1b[1;4;7m" instead of concatenating each terminfo
	// string in turn. Empty unless the terminal's colors, and underline
	// or the alternate character set, are ANSI-driven too.
	ansi Flag

	// acsNeedsFullReset is true when exit_alt_charset_mode is itself a
	// generic SGR reset ("\x1b[m"): turning ACS off that way would also
	// clobber any other active attribute, so a transition that drops
	// FlagACS has to go through a full reset-and-reapply instead of a
	// targeted capability.
	acsNeedsFullReset bool
}

func newEmitter(c *caps) *emitter {
	return &emitter{
		c:                 c,
		ansi:              detectANSI(c),
		acsNeedsFullReset: c.str(terminfo.ExitAltCharsetMode) == "\x1b[m",
	}
}

// detectANSI reports which attributes the terminal switches with the
// literal ANSI SGR codes. Nothing qualifies unless the color-selection
// sequences are ANSI and underline or the alternate character set is
// too; past that gate, each basic attribute qualifies on its own when
// its enter-mode string is the ANSI code — or absent entirely, in which
// case the ANSI code is the only way to toggle it at all.
func detectANSI(c *caps) Flag {
	is := func(idx int, want string) bool { return c.str(idx) == want }
	isOrMissing := func(idx int, want string) bool {
		s := c.str(idx)
		return s == "" || s == want
	}

	colorsANSI := c.parm(terminfo.SetAForeground, 1) == "\x1b[31m" &&
		c.parm(terminfo.SetABackground, 1) == "\x1b[41m"
	underlineANSI := is(terminfo.EnterUnderlineMode, "\x1b[4m") &&
		isOrMissing(terminfo.ExitUnderlineMode, "\x1b[24m")
	acsANSI := is(terminfo.EnterAltCharsetMode, "\x1b[11m") &&
		isOrMissing(terminfo.ExitAltCharsetMode, "\x1b[10m")
	if !colorsANSI || !(underlineANSI || acsANSI) {
		return 0
	}

	var m Flag
	if underlineANSI {
		m |= FlagUnderline
	}
	if acsANSI {
		m |= FlagACS
	}
	if isOrMissing(terminfo.EnterBoldMode, "\x1b[1m") {
		m |= FlagBold
	}
	if isOrMissing(terminfo.EnterDimMode, "\x1b[2m") {
		m |= FlagDim
	}
	if isOrMissing(terminfo.EnterBlinkMode, "\x1b[5m") {
		m |= FlagBlink
	}
	if isOrMissing(terminfo.EnterReverseMode, "\x1b[7m") {
		m |= FlagReverse
	}
	return m
}

// attrSeq returns the escape sequence that transitions the terminal
// from prev to next. An all-zero prev (DefaultAttrs with no flags) can
// be passed after a full reset.
func (e *emitter) attrSeq(prev, next Attrs) string {
	if prev == next {
		return ""
	}

	var buf strings.Builder

	removedACS := prev.Flags.Has(FlagACS) && !next.Flags.Has(FlagACS)
	turnedOff := prev.Flags &^ next.Flags

	// Attributes outside the ANSI set have enter strings but no
	// individual exits; dropping any of them goes through a full reset,
	// after which whatever should survive is reapplied below. ACS and
	// the user-reserved bits are not rendition state and never force
	// one on their own.
	needsFullReset := turnedOff&^e.ansi&^(FlagACS|userMask) != 0
	if removedACS && e.acsNeedsFullReset {
		needsFullReset = true
	}

	if needsFullReset {
		buf.WriteString(e.c.str(terminfo.ExitAttributeMode))
		prev = DefaultAttrs()
	}

	e.writeANSISGR(&buf, prev, next)
	e.writeTerminfoAttrs(&buf, prev, next)
	e.writeColors(&buf, prev, next)
	return buf.String()
}

// writeANSISGR composes a single combined SGR sequence for the changed
// flags in the ANSI-compatible set; the rest are left for
// writeTerminfoAttrs.
func (e *emitter) writeANSISGR(buf *strings.Builder, prev, next Attrs) {
	var codes []string
	add := func(flag Flag, on, off string) {
		if !e.ansi.Has(flag) || next.Flags.Has(flag) == prev.Flags.Has(flag) {
			return
		}
		if next.Flags.Has(flag) {
			codes = append(codes, on)
		} else if off != "" {
			codes = append(codes, off)
		}
	}
	add(FlagBold, "1", "22")
	add(FlagDim, "2", "22")
	add(FlagUnderline, "4", "24")
	add(FlagBlink, "5", "25")
	add(FlagReverse, "7", "27")
	if len(codes) == 0 {
		return
	}
	buf.WriteString("\x1b[")
	buf.WriteString(strings.Join(codes, ";"))
	buf.WriteByte('m')
}

// writeTerminfoAttrs emits each newly-turned-on attribute outside the
// ANSI-compatible set through its own terminfo enter sequence (their
// turn-offs go through the full reset in attrSeq).
func (e *emitter) writeTerminfoAttrs(buf *strings.Builder, prev, next Attrs) {
	add := func(flag Flag, idx int) {
		if e.ansi.Has(flag) {
			return
		}
		if next.Flags.Has(flag) && !prev.Flags.Has(flag) {
			buf.WriteString(e.c.str(idx))
		}
	}
	add(FlagBold, terminfo.EnterBoldMode)
	add(FlagDim, terminfo.EnterDimMode)
	add(FlagUnderline, terminfo.EnterUnderlineMode)
	add(FlagBlink, terminfo.EnterBlinkMode)
	add(FlagReverse, terminfo.EnterReverseMode)
}

// writeColors emits the foreground/background color transition, using
// setaf/setab when present and falling back to the alternate attr-based
// color table (attrToAlt in color.go) on terminals that only expose
// setf/setb. A terminal whose max_colors says it has no colors at all
// gets no color sequences, whatever the attributes ask for.
func (e *emitter) writeColors(buf *strings.Builder, prev, next Attrs) {
	if e.c.numColors <= 0 {
		return
	}
	fg := resolvedColor(next.FG)
	bg := resolvedColor(next.BG)
	prevFG := resolvedColor(prev.FG)
	prevBG := resolvedColor(prev.BG)
	if fg == prevFG && bg == prevBG {
		return
	}

	// orig_pair resets both channels at once; there is no standard
	// terminfo capability for resetting just one, so dropping either
	// channel to default goes through it and the surviving channel (if
	// still explicitly colored) gets reapplied below.
	if (fg == ColorDefault && prevFG != ColorDefault) || (bg == ColorDefault && prevBG != ColorDefault) {
		buf.WriteString(e.c.str(terminfo.OrigPair))
		prevFG, prevBG = ColorDefault, ColorDefault
	}
	if fg != ColorDefault && fg != prevFG {
		buf.WriteString(e.colorSeq(fg, terminfo.SetAForeground, terminfo.SetForeground))
	}
	if bg != ColorDefault && bg != prevBG {
		buf.WriteString(e.colorSeq(bg, terminfo.SetABackground, terminfo.SetBackground))
	}
}

// colorSeq expands the parametrized sequence that selects col, using
// setaf/setab (ANSI color order) when present and falling back to
// setf/setb (the alternate order color.go's attrToAlt table encodes)
// on terminals that only expose those.
func (e *emitter) colorSeq(col Color, ansiIdx, altIdx int) string {
	if e.c.has(ansiIdx) {
		return e.c.parm(ansiIdx, attrToANSI[col])
	}
	return e.c.parm(altIdx, attrToAlt[col])
}

// acsOn and acsOff return the enter/exit alt-charset sequences, or ""
// for either the terminal lacks.
func (e *emitter) acsOn() string  { return e.c.str(terminfo.EnterAltCharsetMode) }
func (e *emitter) acsOff() string { return e.c.str(terminfo.ExitAltCharsetMode) }
