package termwindow

import "testing"

func TestClassifySpaceAndControl(t *testing.T) {
	if w, ok := classify(' '); w != 1 || !ok {
		t.Fatalf("space: width=%d printable=%v", w, ok)
	}
	if w, ok := classify('\x01'); ok || w >= 0 {
		t.Fatalf("control char should be non-printable, got width=%d printable=%v", w, ok)
	}
	if w, ok := classify('世'); w != 2 || !ok {
		t.Fatalf("wide char: width=%d printable=%v", w, ok)
	}
	if w, ok := classify('a'); w != 1 || !ok {
		t.Fatalf("ascii: width=%d printable=%v", w, ok)
	}
}

func TestCombineAttrsFillsUnsetColorsOnly(t *testing.T) {
	base := Attrs{FG: ColorRed, BG: ColorBlue, Flags: FlagBold}
	attr := Attrs{FG: ColorUnset, BG: ColorGreen, Flags: FlagUnderline}

	got := CombineAttrs(attr, base)
	want := Attrs{FG: ColorRed, BG: ColorGreen, Flags: FlagBold | FlagUnderline}
	if got != want {
		t.Fatalf("CombineAttrs = %+v, want %+v", got, want)
	}
}

func TestACSFallbackAppliesBuiltInTable(t *testing.T) {
	c := Cell{Text: "q", Width: 1, Attrs: Attrs{Flags: FlagACS}}
	got := applyACSFallback(c, func(byte) bool { return false })
	if got.Text != "-" {
		t.Fatalf("fallback text = %q, want -", got.Text)
	}
	if got.Attrs.Flags.Has(FlagACS) {
		t.Fatal("ACS flag should be cleared after fallback")
	}
}

func TestACSAvailablePassesThrough(t *testing.T) {
	c := Cell{Text: "q", Width: 1, Attrs: Attrs{Flags: FlagACS}}
	got := applyACSFallback(c, func(b byte) bool { return b == 'q' })
	if got.Text != "q" {
		t.Fatalf("text = %q, want unchanged q", got.Text)
	}
	if !got.Attrs.Flags.Has(FlagACS) {
		t.Fatal("ACS flag should survive when the terminal supports the glyph")
	}
}

func TestACSMultiByteClearsFlagUnconditionally(t *testing.T) {
	c := Cell{Text: "世", Width: 2, Attrs: Attrs{Flags: FlagACS}}
	got := applyACSFallback(c, func(byte) bool { return true })
	if got.Attrs.Flags.Has(FlagACS) {
		t.Fatal("multi-byte cells cannot carry ACS")
	}
}
