package termwindow

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/xo/terminfo"
	"golang.org/x/sys/unix"
)

// Terminal is the single point of contact with the real terminal: it
// owns raw-mode state, the capability table, the output buffer, and
// the previous-frame content the update engine diffs against. Only one
// should exist per process, for the unsurprising reason that there is
// only one controlling terminal; callers get an explicit handle back
// from Init instead of reaching into package state.
type Terminal struct {
	mu sync.Mutex

	in, out *os.File
	fd      int
	c       *caps
	em      *emitter

	width, height        int
	curAttrs             Attrs
	cursorRow, cursorCol int // last position explicitly set via SetCursor

	origTermios *unix.Termios
	rawMode     bool

	screen [][]Cell // previous frame, one row of termWidth cells each

	hasUnget  bool
	ungetSlot rune
	userCB    func(Cell) // dispatched for any user-reserved flag bit present on a cell

	buf    *bufio.Writer
	encOut io.Writer // buf's destination, possibly locale-transcoding
}

// Init opens the controlling terminal and puts it into raw,
// alternate-screen mode. out and in default to os.Stdout/os.Stdin when
// nil.
func Init(out, in *os.File) (*Terminal, error) {
	if out == nil {
		out = os.Stdout
	}
	if in == nil {
		in = os.Stdin
	}
	if !isatty.IsTerminal(out.Fd()) {
		return nil, ErrNotATTY
	}

	c, err := loadCaps()
	if err != nil {
		return nil, err
	}
	if c.isHardcopy() {
		return nil, ErrHardcopyTerminal
	}
	if !c.hasRequiredCaps() {
		return nil, ErrTerminalTooLimited
	}

	t := &Terminal{
		in:  in,
		out: out,
		fd:  int(out.Fd()),
		c:   c,
		em:  newEmitter(c),
	}

	enc, _ := outputEncoder(out)
	t.encOut = enc
	t.buf = bufio.NewWriter(t.encOut)

	w, h, err := t.querySize()
	if err != nil {
		return nil, ErrNoSizeInfo
	}
	t.width, t.height = w, h
	t.resetScreen()

	if err := t.enterRawMode(); err != nil {
		return nil, err
	}

	t.writeCap(terminfo.EnterCaMode)
	t.writeCap(terminfo.ClearScreen)
	t.writeCap(terminfo.CursorInvisible)
	t.buf.Flush()

	return t, nil
}

// Restore takes the terminal out of raw/alternate-screen mode and
// restores the original termios settings. Safe to call more than once.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetScreen()
	if t.c.has(terminfo.ExitCaMode) {
		t.writeCap(terminfo.ExitCaMode)
	} else {
		t.writeCap(terminfo.ClearScreen)
		t.buf.WriteString(t.c.parm(terminfo.CursorAddress, t.height-1, 0))
	}
	t.writeCap(terminfo.CursorNormal)
	t.writeCap(terminfo.ExitAttributeMode)
	t.curAttrs = DefaultAttrs()
	t.buf.Flush()

	if !t.rawMode {
		return nil
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.origTermios); err != nil {
		return ErrErrno
	}
	t.rawMode = false
	return nil
}

func (t *Terminal) enterRawMode() error {
	termios, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return ErrErrno
	}
	t.origTermios = termios

	raw := *termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return ErrErrno
	}
	t.rawMode = true
	return nil
}

// querySize asks the kernel for the controlling terminal's dimensions,
// falling back to $LINES/$COLUMNS and then the terminfo lines/columns
// numeric capabilities when TIOCGWINSZ is unavailable. SIGWINCH
// delivery itself is the caller's concern: Resize just needs to be
// called again once a signal arrives.
func (t *Terminal) querySize() (width, height int, err error) {
	if ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ); err == nil && ws.Col > 0 && ws.Row > 0 {
		return int(ws.Col), int(ws.Row), nil
	}

	if cols, lines, ok := sizeFromEnv(); ok {
		return cols, lines, nil
	}

	if cols, lines, ok := t.c.sizeFromTerminfo(); ok {
		return cols, lines, nil
	}

	return 0, 0, ErrNoSizeInfo
}

// sizeFromEnv reads the $COLUMNS/$LINES environment variables, the
// second link in the size-detection fallback chain.
func sizeFromEnv() (width, height int, ok bool) {
	cols, err1 := strconv.Atoi(os.Getenv("COLUMNS"))
	lines, err2 := strconv.Atoi(os.Getenv("LINES"))
	if err1 != nil || err2 != nil || cols <= 0 || lines <= 0 {
		return 0, 0, false
	}
	return cols, lines, true
}

// GetSize returns the terminal's current dimensions as tracked by the
// most recent Init or Resize call.
func (t *Terminal) GetSize() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Resize re-queries the terminal size and resets the diff engine's
// notion of prior screen content, so the next Update performs a full
// redraw. Call this after observing a resize signal. When the screen
// grew wider or changed height the physical display is cleared too,
// since cells outside the old bounds hold whatever the terminal put
// there during the resize.
func (t *Terminal) Resize() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	oldW, oldH := t.width, t.height
	w, h, err := t.querySize()
	if err != nil {
		return ErrNoSizeInfo
	}
	t.width, t.height = w, h
	t.resetScreen()
	if w > oldW || h != oldH {
		t.writeCap(terminfo.ClearScreen)
		t.buf.Flush()
	}
	return nil
}

func (t *Terminal) resetScreen() {
	t.screen = make([][]Cell, t.height)
	for y := range t.screen {
		t.screen[y] = make([]Cell, t.width)
	}
}

// GetKeychar reads the next key, blocking up to timeout (zero or
// negative means forever). Exactly one previously unget'd key is
// replayed first. The wait is a select on the input descriptor rather
// than a read deadline, since the latter does not apply to a blocking
// tty fd; both the wait and the read retry across EINTR.
func (t *Terminal) GetKeychar(timeout time.Duration) (rune, error) {
	t.mu.Lock()
	if t.hasUnget {
		t.hasUnget = false
		r := t.ungetSlot
		t.mu.Unlock()
		return r, nil
	}
	t.mu.Unlock()

	fd := int(t.in.Fd())
	for {
		var tv *unix.Timeval
		if timeout > 0 {
			v := unix.NsecToTimeval(timeout.Nanoseconds())
			tv = &v
		}
		var fds unix.FdSet
		fds.Zero()
		fds.Set(fd)
		n, err := unix.Select(fd+1, &fds, nil, nil, tv)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, ErrErrno
		}
		if n == 0 {
			return 0, ErrTimeout
		}

		var b [1]byte
		m, err := unix.Read(fd, b[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, ErrErrno
		}
		if m == 0 {
			return 0, ErrEOF
		}
		return rune(b[0]), nil
	}
}

// UngetKeychar pushes r back so the next GetKeychar returns it. Only
// one character of pushback is held, matching this library's narrower
// single-slot contract rather than a general stack.
func (t *Terminal) UngetKeychar(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hasUnget = true
	t.ungetSlot = r
}

// SetCursor moves the terminal's real cursor, e.g. to park it at an
// application's insertion point between Update calls. The position is
// remembered so that, on a terminal without a "restore cursor"
// capability, the next Update can move the cursor back to it with an
// explicit cursor_address once it finishes redrawing.
func (t *Terminal) SetCursor(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorRow, t.cursorCol = row, col
	t.buf.WriteString(t.c.parm(terminfo.CursorAddress, row, col))
	t.buf.Flush()
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeCap(terminfo.CursorInvisible)
	t.buf.Flush()
}

func (t *Terminal) ShowCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeCap(terminfo.CursorNormal)
	t.buf.Flush()
}

// SetAttrs immediately switches the terminal's active rendition to attrs
// and flushes, independent of the window/diff pipeline. It exists for
// callers that write bytes directly to the terminal outside of Update
// (most notably a registered user callback, which is expected to emit its
// own bytes for the cell it was handed).
func (t *Terminal) SetAttrs(attrs Attrs) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.applyAttrs(attrs)
	t.buf.Flush()
}

// SetUserCallback registers the function the update engine calls, in
// place of drawing the cell directly, whenever it encounters a cell
// carrying a flag from the application-reserved FlagUser1/FlagUser2
// range (see userMask in color.go). The callback receives the cell with
// any trailing combining marks already folded into its Text and is
// expected to emit its own bytes for it.
func (t *Terminal) SetUserCallback(fn func(Cell)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userCB = fn
}

// AcsAvailable reports whether the terminal's acsc table maps b to a
// real alternate-charset glyph.
func (t *Terminal) AcsAvailable(b byte) bool {
	return t.c.acsAvailable(b)
}

// GetNcv returns the terminfo "no color video" bitmask: attributes the
// terminal cannot combine with color without falling back to a plain
// video attribute. This package does not itself enforce it; it is
// surfaced so callers (or a future emitter refinement) can avoid
// pairing color with an attribute the terminal would otherwise silently
// drop.
func (t *Terminal) GetNcv() int {
	return t.c.ti.Nums[terminfo.NoColorVideo]
}

// Strwidth reports the on-screen column width of s.
func (t *Terminal) Strwidth(s string) int {
	return strwidth(s)
}

// Putp writes a raw terminfo capability string, expanded with params if
// given, directly to the output buffer. Exposed for callers that need a
// capability this package does not otherwise surface.
func (t *Terminal) Putp(idx int, params ...int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.WriteString(t.c.parm(idx, params...))
}

func (t *Terminal) writeCap(idx int) {
	t.buf.WriteString(t.c.str(idx))
}

// Update composites every window and writes the minimal set of escape
// sequences needed to bring the real terminal's content in line with it.
// The real cursor is saved and hidden before the row loop runs
// (so repainting never flickers it across the screen) and restored,
// visible, once the loop finishes: attributes are reset to zero first,
// then the cursor position is put back via the terminal's own
// save/restore-cursor capability, falling back to an explicit cursor
// move to the last position SetCursor recorded when the terminal has no
// restore_cursor string.
func (t *Terminal) Update() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writeCap(terminfo.SaveCursor)
	t.writeCap(terminfo.CursorInvisible)

	for y := 0; y < t.height; y++ {
		row := compositeRow(y, t.width)
		t.diffRow(y, row)
	}

	t.applyAttrs(DefaultAttrs())
	if t.c.has(terminfo.RestoreCursor) {
		t.writeCap(terminfo.RestoreCursor)
	} else {
		t.buf.WriteString(t.c.parm(terminfo.CursorAddress, t.cursorRow, t.cursorCol))
	}
	t.writeCap(terminfo.CursorNormal)

	return t.buf.Flush()
}

// Redraw forces a full repaint: it discards the engine's notion of the
// terminal's current content (as if every row had changed) and clears
// the physical screen before compositing, which is the right thing to
// do after external output may have clobbered the display.
func (t *Terminal) Redraw() error {
	t.mu.Lock()
	t.resetScreen()
	t.writeCap(terminfo.ClearScreen)
	t.curAttrs = DefaultAttrs()
	t.mu.Unlock()
	return t.Update()
}

// diffRow writes the minimal escape sequences that turn row's
// previously-drawn content into newRow: a right-to-left scan finds the
// last differing column (extended past any double-width continuation
// so a wide glyph is never split), a left-to-right scan finds the
// first, and a trailing run of default-attribute blanks is collapsed
// to a single clr_eol when the terminal has one.
func (t *Terminal) diffRow(row int, newRow []Cell) {
	old := t.screen[row]

	// Writing the bottom-right cell of an auto-margin terminal wraps and
	// scrolls the whole screen; leave that one cell alone.
	if t.c.hasAutoWrap && row == t.height-1 && len(newRow) == t.width {
		newRow = newRow[:len(newRow)-1]
	}

	last := -1
	for x := len(newRow) - 1; x >= 0; x-- {
		if !newRow[x].Equal(old[x]) {
			last = x
			break
		}
	}
	if last == -1 {
		return
	}
	for last+1 < len(newRow) && newRow[last+1].Width == 0 && newRow[last+1].Text == "" {
		last++
	}

	blank := spaceCell(DefaultAttrs())
	clearFrom := -1
	if t.c.has(terminfo.ClrEol) {
		i := last
		for i >= 0 && newRow[i].Equal(blank) {
			i--
		}
		if i < last {
			clearFrom = i + 1
		}
	}
	end := last
	if clearFrom >= 0 {
		end = clearFrom - 1
	}

	first := -1
	for x := 0; x <= end; x++ {
		if !newRow[x].Equal(old[x]) {
			first = x
			break
		}
	}
	for first > 0 && newRow[first].Width == 0 {
		first--
	}

	if first >= 0 && first <= end {
		t.buf.WriteString(t.c.parm(terminfo.CursorAddress, row, first))
		for x := first; x <= end; x++ {
			c := newRow[x]
			if c.Width == 0 && c.Text == "" {
				continue
			}
			if c.Attrs.Flags&userMask != 0 && t.userCB != nil {
				// The callback is expected to emit its own bytes for
				// this cell (its trailing combining marks are already
				// folded into c.Text by the compositor), so the normal
				// write path below is skipped for it.
				t.applyAttrs(c.Attrs)
				t.userCB(c)
				continue
			}
			c = applyACSFallback(c, t.c.acsAvailable)
			t.applyAttrs(c.Attrs)
			t.buf.WriteString(c.Text)
		}
	}
	if clearFrom >= 0 {
		t.buf.WriteString(t.c.parm(terminfo.CursorAddress, row, clearFrom))
		// A bce terminal fills the cleared region with the active
		// background color, so attributes must be back at default
		// before el runs; the rest clear to the default regardless.
		if t.c.hasBCE {
			t.applyAttrs(DefaultAttrs())
		}
		t.buf.WriteString(t.c.str(terminfo.ClrEol))
		for x := clearFrom; x <= last; x++ {
			old[x] = blank
		}
	}
	if first >= 0 {
		copy(old[first:], newRow[first:last+1])
	} else if clearFrom >= 0 {
		copy(old[clearFrom:], newRow[clearFrom:last+1])
	}
}

// applyAttrs emits whatever sequence is needed to move the terminal's
// active rendition from t.curAttrs to next, including toggling the
// alternate character set, and updates t.curAttrs to match.
func (t *Terminal) applyAttrs(next Attrs) {
	if next == t.curAttrs {
		return
	}
	prevACS := t.curAttrs.Flags.Has(FlagACS)
	nextACS := next.Flags.Has(FlagACS)

	// Leaving the alternate character set happens before the rendition
	// switch: when rmacs is itself a bare SGR reset, attrSeq's
	// reset-and-reapply already covers it, and writing it afterward
	// would wipe the attributes attrSeq just restored.
	if !nextACS && prevACS && !t.em.acsNeedsFullReset {
		t.buf.WriteString(t.em.acsOff())
	}
	t.buf.WriteString(t.em.attrSeq(t.curAttrs, next))
	if nextACS && !prevACS {
		t.buf.WriteString(t.em.acsOn())
	}
	t.curAttrs = next
}
