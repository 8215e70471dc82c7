package termwindow

// absRect returns w's absolute bounding rectangle as [x0,y0)-[x1,y1).
func (w *Window) absRect() (x0, y0, x1, y1 int) {
	x0, y0 = w.AbsX(), w.AbsY()
	return x0, y0, x0 + w.width, y0 + w.height
}

// clipRect returns the rectangle w is actually visible through: its own
// bounds intersected with every clipping ancestor's clipRect in turn. A
// window anchored to one window but clipped by another (or by none) is
// exactly why this walks w.parent rather than w.anchor.
func (w *Window) clipRect() (x0, y0, x1, y1 int) {
	x0, y0, x1, y1 = w.absRect()
	if w.parent == nil {
		return x0, y0, x1, y1
	}
	px0, py0, px1, py1 := w.parent.clipRect()
	if px0 > x0 {
		x0 = px0
	}
	if py0 > y0 {
		y0 = py0
	}
	if px1 < x1 {
		x1 = px1
	}
	if py1 < y1 {
		y1 = py1
	}
	return x0, y0, x1, y1
}

// compositeRow flattens every shown, backed window that covers terminal
// row onto a single scratch line of termWidth cells, later (topmost)
// windows painting over earlier ones. This is the equivalent of
// refreshing one terminal line from the window tree: it has no memory
// of what the terminal currently displays, and no opinion about how
// the result gets emitted — that diffing happens in the update engine.
func compositeRow(row, termWidth int) []Cell {
	out := make([]Cell, termWidth)
	blank := spaceCell(DefaultAttrs())
	for i := range out {
		out[i] = blank
	}

	for _, w := range drawOrder() {
		if !w.shown || !w.effectivelyVisible() || w.lines == nil {
			continue
		}
		cx0, cy0, cx1, cy1 := w.clipRect()
		if row < cy0 || row >= cy1 || cx0 >= cx1 {
			continue
		}

		winRow := row - w.AbsY()
		if winRow < 0 || winRow >= len(w.lines) {
			continue
		}
		line := &w.lines[winRow]
		absX := w.AbsX()

		put := func(col int, c Cell) {
			if col < cx0 || col >= cx1 || col < 0 || col >= termWidth {
				return
			}
			out[col] = c
		}

		hasDefault := w.defaultAttrs != DefaultAttrs()

		// Fill the leading gap before the line's first stored cell
		// with default-attr spaces, if the window has any.
		if hasDefault {
			for x := 0; x < line.start; x++ {
				put(absX+x, spaceCell(w.defaultAttrs))
			}
		}

		localCol := line.start
		for i := 0; i < len(line.cells); {
			c := line.cells[i]
			width := int(c.Width)
			if width == 0 {
				// A stray width-0 cell with nothing preceding it inside
				// this clip/scan window; nothing to attach it to here.
				i++
				continue
			}
			left := absX + localCol
			right := left + width

			visLeft, visRight := left, right
			if visLeft < cx0 {
				visLeft = cx0
			}
			if visRight > cx1 {
				visRight = cx1
			}

			switch {
			case visLeft >= visRight:
				// Entirely clipped away: emit nothing.
			case visLeft == left && visRight == right:
				// Fully visible: emit the glyph and its trailing
				// combining marks, then blank out any second column
				// of a double-width glyph so the diff engine doesn't
				// treat it as independent content.
				cell := c
				j := i + 1
				for j < len(line.cells) && line.cells[j].Width == 0 {
					cell.Text += line.cells[j].Text
					j++
				}
				put(left, cell)
				for k := 1; k < width; k++ {
					put(left+k, Cell{})
				}
				i = j
				localCol += width
				continue
			default:
				// The clip boundary trims a wide (or, in principle,
				// any) character. Exactly one visible column
				// remains; render it as a single space carrying the
				// trimmed character's attributes, and drop the
				// character (and its combining trailers) rather
				// than splitting the glyph.
				put(visLeft, spaceCell(c.Attrs))
			}

			i++
			for i < len(line.cells) && line.cells[i].Width == 0 {
				i++
			}
			localCol += width
		}

		// Pad from the end of the line's stored content out to the
		// window's own right edge with default-attr spaces.
		if hasDefault {
			for x := localCol; x < w.width; x++ {
				put(absX+x, spaceCell(w.defaultAttrs))
			}
		}
	}

	return out
}
