package termwindow

import "testing"

func TestCompositeRowFillsDefaultAttrsAroundContent(t *testing.T) {
	resetRoots(t)

	w, err := NewWindow(nil, 1, 6, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	w.Show()
	w.SetDefaultAttrs(Attrs{BG: ColorBlue})
	w.SetPaint(0, 2)
	w.AddStr("ab", DefaultAttrs())

	row := compositeRow(0, 6)
	for i, c := range row {
		if i >= 2 && i < 4 {
			continue
		}
		if c.Attrs.BG != ColorBlue {
			t.Fatalf("column %d attrs = %+v, want default-attr fill with BG blue", i, c.Attrs)
		}
		if c.Text != " " {
			t.Fatalf("column %d text = %q, want a space", i, c.Text)
		}
	}
	if row[2].Text != "a" || row[3].Text != "b" {
		t.Fatalf("content columns = %q %q, want a b", row[2].Text, row[3].Text)
	}
}

func TestCompositeRowLeavesGapUntouchedWithoutDefaultAttrs(t *testing.T) {
	resetRoots(t)

	back, err := NewWindow(nil, 1, 6, 0, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	back.Show()
	back.AddStr("XXXXXX", DefaultAttrs())

	front, err := NewWindow(nil, 1, 6, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	front.Show()
	front.SetPaint(0, 2)
	front.AddStr("ab", DefaultAttrs())

	row := compositeRow(0, 6)
	got := cellsToString(row)
	if got != "XXabXX" {
		t.Fatalf("composited row = %q, want %q (gap shows window beneath, not blanked)", got, "XXabXX")
	}
}

func TestCompositeRowClipKeepsWideCharacterFullyInside(t *testing.T) {
	resetRoots(t)

	parent, err := NewUnbackedWindow(nil, 1, 2, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	parent.Show()

	child, err := NewWindow(parent, 1, 4, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	child.Show()
	child.AddStr("世Z", DefaultAttrs())

	row := compositeRow(0, 2)
	if row[0].Text != "世" {
		t.Fatalf("col0 = %+v, want the wide glyph fully inside the clip", row[0])
	}
	if row[1].Text != "" {
		t.Fatalf("col1 = %+v, want the wide glyph's placeholder second column", row[1])
	}
}

func TestCompositeRowClipTrimsWideCharacterOnLeftBoundary(t *testing.T) {
	resetRoots(t)

	parent, err := NewUnbackedWindow(nil, 1, 3, 0, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	parent.Show()

	child, err := NewWindow(parent, 1, 4, 0, -1, 0)
	if err != nil {
		t.Fatal(err)
	}
	child.Show()
	child.AddStr("世Z", DefaultAttrs())

	row := compositeRow(0, 4)
	if row[1].Text != " " {
		t.Fatalf("col1 = %+v, want a blank space (left half of the wide glyph is clipped away)", row[1])
	}
	if row[2].Text != "Z" {
		t.Fatalf("col2 = %+v, want Z", row[2])
	}
}

func TestCompositeRowSkipsHiddenWindow(t *testing.T) {
	resetRoots(t)

	w, err := NewWindow(nil, 1, 5, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	w.AddStr("hello", DefaultAttrs())
	// never shown

	row := compositeRow(0, 5)
	got := cellsToString(row)
	if got != "     " {
		t.Fatalf("composited row = %q, want an all-blank row for a hidden window", got)
	}
}
