package termwindow

// Corner identifies one of the four corners of a rectangle, used both to
// say which corner of an anchor a window's position is relative to, and
// which of the window's own corners is being positioned.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) right() bool  { return c == TopRight || c == BottomRight }
func (c Corner) bottom() bool { return c == BottomLeft || c == BottomRight }

// Relation pairs the anchor's corner with the window's own corner that is
// pinned to it.
type Relation struct {
	ParentCorner Corner
	ChildCorner  Corner
}

// Window is a rectangular, depth-ordered drawing surface. The zero value
// is not usable; construct one with NewWindow or NewUnbackedWindow.
type Window struct {
	x, y, width, height int
	paintX, paintY      int
	cursorX, cursorY    int
	defaultAttrs        Attrs
	depth               int
	shown               bool

	parent   *Window // clipping parent; also determines tree membership
	anchor   *Window // positioning reference; nil means absolute (0,0) origin
	relation Relation

	children []*Window // this window's clipped children, depth-ascending

	lines []Line // nil for an unbacked window
}

// roots holds the top-level (parentless) windows, depth-ascending. It is
// unexported package state rather than a window-graph object the caller
// can reach, matching the "don't expose process globals" rule for
// anything beyond a single handle-returning constructor.
var roots []*Window

// NewWindow creates a backed window: parent is used for both clipping
// and (absent an explicit SetAnchor) positioning; height and width must
// be positive.
func NewWindow(parent *Window, height, width, y, x, depth int) (*Window, error) {
	w, err := NewUnbackedWindow(parent, height, width, y, x, depth)
	if err != nil {
		return nil, err
	}
	w.lines = make([]Line, height)
	return w, nil
}

// NewUnbackedWindow creates a window with no backing store: it can only
// serve as a positioning anchor or clipping parent for other windows.
func NewUnbackedWindow(parent *Window, height, width, y, x, depth int) (*Window, error) {
	if height <= 0 || width <= 0 {
		return nil, ErrBadArg
	}
	w := &Window{
		x: x, y: y, width: width, height: height,
		parent: parent, anchor: parent,
		depth: depth,
	}
	insertWindow(w)
	return w, nil
}

// insertWindow adds w to its sibling list (roots, or parent.children),
// ordered ascending by depth; among equal depths, a newly inserted
// window is placed after existing siblings of that depth.
func insertWindow(w *Window) {
	list := &roots
	if w.parent != nil {
		list = &w.parent.children
	}
	i := 0
	for i < len(*list) && (*list)[i].depth <= w.depth {
		i++
	}
	*list = append(*list, nil)
	copy((*list)[i+1:], (*list)[i:])
	(*list)[i] = w
}

func removeWindow(w *Window) {
	list := &roots
	if w.parent != nil {
		list = &w.parent.children
	}
	for i, c := range *list {
		if c == w {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// Del destroys win. It does not destroy children; the application is
// responsible for those, matching the ownership rule that a window's
// lifetime is explicit.
func (w *Window) Del() {
	removeWindow(w)
}

// SetAnchor links win's position to anchor using relation. It refuses a
// relation that would introduce a cycle in the anchor graph.
func (w *Window) SetAnchor(anchor *Window, relation Relation) error {
	for a := anchor; a != nil; a = a.anchor {
		if a == w {
			return errAnchorCycle
		}
	}
	w.anchor = anchor
	w.relation = relation
	return nil
}

// SetDepth changes win's depth, re-sorting it within its sibling list.
func (w *Window) SetDepth(depth int) {
	removeWindow(w)
	w.depth = depth
	insertWindow(w)
}

// Move repositions win relative to its anchor (or the terminal origin).
func (w *Window) Move(y, x int) { w.y, w.x = y, x }

// Resize changes win's dimensions, preserving any line content that
// remains inside the new, possibly smaller, rectangle.
func (w *Window) Resize(height, width int) error {
	if height <= 0 || width <= 0 {
		return ErrBadArg
	}
	if w.lines != nil {
		newLines := make([]Line, height)
		n := height
		if len(w.lines) < n {
			n = len(w.lines)
		}
		copy(newLines, w.lines[:n])
		for i := range newLines {
			if newLines[i].start+newLines[i].width > width {
				newLines[i].clrToEol(width, w.defaultAttrs)
				if newLines[i].start >= width {
					newLines[i].reset()
				}
			}
		}
		w.lines = newLines
	}
	w.height, w.width = height, width
	return nil
}

// SetDefaultAttrs sets the attribute mask OR-ed into every paint on win.
func (w *Window) SetDefaultAttrs(attrs Attrs) { w.defaultAttrs = attrs }

// SetPaint sets the drawing cursor, clamped to be non-negative.
func (w *Window) SetPaint(y, x int) {
	if y < 0 {
		y = 0
	}
	if x < 0 {
		x = 0
	}
	w.paintY, w.paintX = y, x
}

// SetCursor records where win would like the terminal's real cursor
// parked while it has focus — independent of the paint cursor SetPaint
// moves. An application typically calls this once after drawing an
// editable field and then positions the real cursor with AbsCursor's
// result after the next Update.
func (w *Window) SetCursor(y, x int) {
	w.cursorY, w.cursorX = y, x
}

// AbsCursor resolves win's cursor position (as last set by SetCursor, or
// the origin if never set) to absolute terminal coordinates.
func (w *Window) AbsCursor() (row, col int) {
	return w.AbsY() + w.cursorY, w.AbsX() + w.cursorX
}

// Show marks win (and therefore its children) as eligible for
// compositing, subject to its own clipping ancestors also being shown.
func (w *Window) Show() { w.shown = true }

// Hide marks win as not drawn; its children are hidden along with it
// since visibility requires every clipping ancestor to be shown.
func (w *Window) Hide() { w.shown = false }

// effectivelyVisible reports whether win and every clipping ancestor are
// shown.
func (w *Window) effectivelyVisible() bool {
	for p := w; p != nil; p = p.parent {
		if !p.shown {
			return false
		}
	}
	return true
}

func (w *Window) Width() int  { return w.width }
func (w *Window) Height() int { return w.height }
func (w *Window) X() int      { return w.x }
func (w *Window) Y() int      { return w.y }
func (w *Window) Depth() int  { return w.depth }

// Relation returns the anchor window (nil if absolute) and the relation
// in effect.
func (w *Window) Relation() (*Window, Relation) { return w.anchor, w.relation }

// AbsX resolves win's absolute column by walking the anchor chain.
func (w *Window) AbsX() int {
	if w.anchor == nil {
		return w.x
	}
	base := w.anchor.AbsX()
	if w.relation.ParentCorner.right() {
		base += w.anchor.width
	}
	if w.relation.ChildCorner.right() {
		base -= w.width
	}
	return base + w.x
}

// AbsY resolves win's absolute row by walking the anchor chain.
func (w *Window) AbsY() int {
	if w.anchor == nil {
		return w.y
	}
	base := w.anchor.AbsY()
	if w.relation.ParentCorner.bottom() {
		base += w.anchor.height
	}
	if w.relation.ChildCorner.bottom() {
		base -= w.height
	}
	return base + w.y
}

// drawOrder returns every window reachable from the root list in
// bottom-to-top paint order: siblings are visited highest depth first,
// so a lower-depth window paints later and hides its higher-depth
// siblings, and a window is emitted before its own children so a child
// paints over its parent. The last entry in the slice is always the
// topmost thing painted. Visibility and backing-store filtering happen
// at the compositor, not here — traversal order does not depend on
// either.
func drawOrder() []*Window {
	var out []*Window
	var walk func([]*Window)
	walk = func(list []*Window) {
		for i := len(list) - 1; i >= 0; i-- {
			out = append(out, list[i])
			walk(list[i].children)
		}
	}
	walk(roots)
	return out
}
