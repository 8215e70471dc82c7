package termwindow

// Line is the per-row storage for one line of a Window: a sparse run of
// Cells covering columns [start, start+width), where width counts only
// visible columns (so a combining-mark trailer contributes to Length but
// not to Width). An empty Line is start=0, width=0, len(cells)=0.
type Line struct {
	start int
	width int
	cells []Cell
}

// Start returns the column of the first stored cell.
func (l *Line) Start() int { return l.start }

// Width returns the number of columns the stored cells occupy.
func (l *Line) Width() int { return l.width }

// Length returns the number of stored cell slots, including combining
// trailers (so Length >= Width in general).
func (l *Line) Length() int { return len(l.cells) }

// Cell returns the slot at index i.
func (l *Line) Cell(i int) Cell { return l.cells[i] }

// reset empties the line.
func (l *Line) reset() {
	l.start, l.width = 0, 0
	l.cells = l.cells[:0]
}

// checkInvariants validates the line storage invariants; used by tests.
func (l *Line) checkInvariants(windowWidth int) bool {
	if l.start < 0 || l.width < 0 || len(l.cells) < 0 {
		return false
	}
	if l.start+l.width > windowWidth {
		return false
	}
	sum := 0
	for i, c := range l.cells {
		sum += int(c.Width)
		if i == 0 && c.Width == 0 {
			return false
		}
	}
	return sum == l.width
}

// insert is the central overlap-aware insertion algorithm: given a
// single already-classified character cell and the paint column it
// lands at, splice it into the line while preserving the invariants
// above. defaultAttrs supplies the attributes used for any gap- or
// spill-filling space cells.
func (l *Line) insert(paintX int, cell Cell, defaultAttrs Attrs) {
	width := int(cell.Width)

	if width == 0 {
		l.insertCombining(paintX, cell)
		return
	}

	switch {
	case len(l.cells) == 0:
		l.start = paintX
		l.cells = append(l.cells[:0], cell)
		l.width = width

	case l.start+l.width <= paintX:
		diff := paintX - (l.start + l.width)
		for d := 0; d < diff; d++ {
			l.cells = append(l.cells, spaceCell(defaultAttrs))
		}
		l.cells = append(l.cells, cell)
		l.width += width + diff

	case paintX+width <= l.start:
		diff := l.start - (paintX + width)
		replacement := make([]Cell, 0, 1+diff)
		replacement = append(replacement, cell)
		for d := 0; d < diff; d++ {
			replacement = append(replacement, spaceCell(defaultAttrs))
		}
		l.cells = append(replacement, l.cells...)
		l.width += width + diff
		l.start = paintX

	default:
		l.insertOverlap(paintX, width, cell)
	}
}

// insertCombining attaches a zero-width cell to the character that ends
// immediately before column paintX. The cell is dropped when no stored
// character ends there, including when paintX falls inside a
// double-width character.
func (l *Line) insertCombining(paintX int, cell Cell) {
	if len(l.cells) == 0 || paintX <= l.start || paintX > l.start+l.width {
		return
	}

	posWidth := l.start
	i := 0
	for ; i < len(l.cells); i++ {
		posWidth += int(l.cells[i].Width)
		if posWidth >= paintX {
			break
		}
	}

	// Asked to add a zero-width character in the middle of a wide character.
	if posWidth > paintX {
		return
	}

	if i < len(l.cells) {
		i++
		for i < len(l.cells) && l.cells[i].Width == 0 {
			i++
		}
	}

	l.cells = append(l.cells, Cell{})
	copy(l.cells[i+1:], l.cells[i:])
	l.cells[i] = cell
}

// insertOverlap handles painting a character that (partly) overwrites
// existing stored cells.
func (l *Line) insertOverlap(paintX, width int, cell Cell) {
	posWidth := l.start
	i := 0
	for i < len(l.cells) && posWidth+int(l.cells[i].Width) <= paintX {
		posWidth += int(l.cells[i].Width)
		i++
	}
	startReplace := i
	startSpaceAttrs := l.cells[startReplace].Attrs

	startSpaces := 0
	if paintX >= l.start {
		startSpaces = paintX - posWidth
	}

	posWidth += int(l.cells[startReplace].Width)
	i++

	var endSpaceAttrs Attrs
	if posWidth >= paintX+width {
		endSpaceAttrs = startSpaceAttrs
	} else {
		for i < len(l.cells) && posWidth < paintX+width {
			posWidth += int(l.cells[i].Width)
			i++
		}
		endSpaceAttrs = l.cells[i-1].Attrs
	}

	for i < len(l.cells) && l.cells[i].Width == 0 {
		i++
	}
	endReplace := i

	endSpaces := 0
	if posWidth > paintX+width {
		endSpaces = posWidth - paintX - width
	}

	replacement := make([]Cell, 0, startSpaces+1+endSpaces)
	for s := 0; s < startSpaces; s++ {
		replacement = append(replacement, Cell{Text: " ", Width: 1, Attrs: startSpaceAttrs})
	}
	replacement = append(replacement, cell)
	for s := 0; s < endSpaces; s++ {
		replacement = append(replacement, Cell{Text: " ", Width: 1, Attrs: endSpaceAttrs})
	}

	newCells := make([]Cell, 0, startReplace+len(replacement)+(len(l.cells)-endReplace))
	newCells = append(newCells, l.cells[:startReplace]...)
	newCells = append(newCells, replacement...)
	newCells = append(newCells, l.cells[endReplace:]...)
	l.cells = newCells

	if l.start+l.width < width+paintX {
		l.width = width + paintX - l.start
	}
	if l.start > paintX {
		l.width += l.start - paintX
		l.start = paintX
	}
}

// clrToEol truncates the line at paintX, padding with default-attribute
// spaces if paintX lands past the currently stored width.
func (l *Line) clrToEol(paintX int, defaultAttrs Attrs) {
	if paintX <= l.start {
		l.reset()
		return
	}
	if paintX >= l.start+l.width {
		for d := l.start + l.width; d < paintX; d++ {
			l.cells = append(l.cells, Cell{Text: " ", Width: 1, Attrs: defaultAttrs})
		}
		l.width = paintX - l.start
		return
	}

	sumWidth := l.start
	i := 0
	for i < len(l.cells) && sumWidth+int(l.cells[i].Width) <= paintX {
		sumWidth += int(l.cells[i].Width)
		i++
	}

	if sumWidth < paintX {
		spaces := paintX - sumWidth
		for ; spaces > 0; spaces-- {
			if i < len(l.cells) {
				l.cells[i] = Cell{Text: " ", Width: 1}
			} else {
				l.cells = append(l.cells, Cell{Text: " ", Width: 1})
			}
			i++
		}
	}

	l.cells = l.cells[:i]
	l.width = paintX - l.start
}
