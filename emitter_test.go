package termwindow

import (
	"strings"
	"testing"

	"github.com/xo/terminfo"
)

// ansiCaps builds a caps table whose attribute-mode strings are the
// literal ANSI SGR sequences, so detect_ansi recognizes it as an
// ANSI-capable terminal (matching e.g. xterm's terminfo entry).
func ansiCaps() *caps {
	c := &caps{ti: &terminfo.Terminfo{
		Strings: map[int][]byte{
			terminfo.ExitAttributeMode:   []byte("\x1b[0m"),
			terminfo.EnterBoldMode:       []byte("\x1b[1m"),
			terminfo.EnterUnderlineMode:  []byte("\x1b[4m"),
			terminfo.EnterReverseMode:    []byte("\x1b[7m"),
			terminfo.ExitAltCharsetMode:  []byte("\x1b[10m"),
			terminfo.EnterAltCharsetMode: []byte("\x1b[11m"),
			terminfo.SetAForeground:      []byte("\x1b[3%p1%dm"),
			terminfo.SetABackground:      []byte("\x1b[4%p1%dm"),
			terminfo.OrigPair:            []byte("\x1b[39;49m"),
			terminfo.CursorAddress:       []byte("\x1b[%i%p1%d;%p2%dH"),
			terminfo.ClearScreen:         []byte("\x1b[2J"),
		},
	}}
	c.numColors = 8
	return c
}

func TestDetectANSIRecognizesPlainSGR(t *testing.T) {
	e := newEmitter(ansiCaps())
	if !e.ansi.Has(FlagBold | FlagUnderline | FlagReverse) {
		t.Fatalf("ansi mask = %v, want bold, underline and reverse ANSI-composable", e.ansi)
	}
	if e.acsNeedsFullReset {
		t.Fatal("exit_alt_charset_mode in this fixture is not a bare reset")
	}
}

func TestDetectANSIRequiresANSIColors(t *testing.T) {
	c := ansiCaps()
	c.ti.Strings[terminfo.SetAForeground] = []byte("@setaf@")
	e := newEmitter(c)
	if e.ansi != 0 {
		t.Fatalf("ansi mask = %v, want none without ANSI color selection", e.ansi)
	}
}

func TestDetectANSIRequiresUnderlineOrACS(t *testing.T) {
	c := ansiCaps()
	c.ti.Strings[terminfo.EnterUnderlineMode] = []byte("@smul@")
	c.ti.Strings[terminfo.EnterAltCharsetMode] = []byte("@smacs@")
	e := newEmitter(c)
	if e.ansi != 0 {
		t.Fatalf("ansi mask = %v, want none when neither underline nor ACS is ANSI", e.ansi)
	}
}

func TestNonANSIDimFallsBackToTerminfoString(t *testing.T) {
	c := ansiCaps()
	c.ti.Strings[terminfo.EnterDimMode] = []byte("@dim@")
	e := newEmitter(c)
	if e.ansi.Has(FlagDim) {
		t.Fatal("dim with a non-ANSI capability string must not be ANSI-composable")
	}
	if !e.ansi.Has(FlagBold) {
		t.Fatal("bold should stay ANSI-composable alongside a non-ANSI dim")
	}

	seq := e.attrSeq(DefaultAttrs(), Attrs{Flags: FlagBold | FlagDim})
	if !strings.Contains(seq, "@dim@") {
		t.Fatalf("seq = %q, want dim driven by its terminfo string", seq)
	}
	if !strings.Contains(seq, "\x1b[1m") {
		t.Fatalf("seq = %q, want bold still composed as ANSI", seq)
	}

	// Dim has no individual exit string, so dropping it again goes
	// through a full reset.
	seq = e.attrSeq(Attrs{Flags: FlagDim}, DefaultAttrs())
	if !strings.Contains(seq, e.c.str(terminfo.ExitAttributeMode)) {
		t.Fatalf("seq = %q, want a full reset to clear dim", seq)
	}
}

func TestAttrSeqComposesSingleANSITransition(t *testing.T) {
	e := newEmitter(ansiCaps())
	seq := e.attrSeq(DefaultAttrs(), Attrs{Flags: FlagBold | FlagUnderline})
	if !strings.Contains(seq, "1") || !strings.Contains(seq, "4") {
		t.Fatalf("seq = %q, want codes for bold and underline", seq)
	}
	if strings.Count(seq, "\x1b[") != 1 {
		t.Fatalf("seq = %q, want exactly one combined escape", seq)
	}
}

func TestAttrSeqNoOpWhenUnchanged(t *testing.T) {
	e := newEmitter(ansiCaps())
	attrs := Attrs{Flags: FlagBold}
	if seq := e.attrSeq(attrs, attrs); seq != "" {
		t.Fatalf("seq = %q, want empty for a no-op transition", seq)
	}
}

func TestAttrSeqACSResetNeedsFullResetWhenExitIsBareSGR(t *testing.T) {
	c := ansiCaps()
	c.ti.Strings[terminfo.ExitAltCharsetMode] = []byte("\x1b[m")
	e := newEmitter(c)
	if !e.acsNeedsFullReset {
		t.Fatal("expected acsNeedsFullReset when exit_alt_charset_mode is a bare SGR reset")
	}

	prev := Attrs{Flags: FlagACS | FlagBold}
	next := Attrs{Flags: FlagBold}
	seq := e.attrSeq(prev, next)
	if !strings.Contains(seq, e.c.str(terminfo.ExitAttributeMode)) {
		t.Fatalf("seq = %q, want a full reset before reapplying bold", seq)
	}
}

func TestWriteColorsUsesOrigPairWhenDroppingToDefault(t *testing.T) {
	e := newEmitter(ansiCaps())
	var b strings.Builder
	prev := Attrs{FG: ColorRed, BG: ColorBlue}
	next := Attrs{FG: ColorDefault, BG: ColorBlue}
	e.writeColors(&b, prev, next)
	if !strings.Contains(b.String(), "39;49") {
		t.Fatalf("seq = %q, want orig_pair when foreground drops to default", b.String())
	}
}

func TestWriteColorsSkipsWhenUnchanged(t *testing.T) {
	e := newEmitter(ansiCaps())
	var b strings.Builder
	attrs := Attrs{FG: ColorRed, BG: ColorBlue}
	e.writeColors(&b, attrs, attrs)
	if b.String() != "" {
		t.Fatalf("seq = %q, want empty for unchanged colors", b.String())
	}
}
