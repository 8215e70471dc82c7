package termwindow

// Color is a terminal color slot, encoded the way terminfo-driven
// attribute switching expects: 0 means "not specified" (inherits from
// whatever it is combined with), 1-8 select ANSI colors 0-7, and 9 is
// an explicit request for the terminal's default color. Keeping
// "unset" and "explicit default" distinct lets CombineAttrs tell a
// window that never mentioned color apart from one that asked for the
// default on purpose.
type Color uint8

const (
	ColorUnset Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorDefault
)

// attrToANSI maps a Color to the index used by setaf/setab (ANSI order).
var attrToANSI = [10]int{9, 0, 1, 2, 3, 4, 5, 6, 7, 9}

// attrToAlt maps a Color to the index used by setf/setb (non-ANSI order).
var attrToAlt = [10]int{0, 0, 4, 2, 6, 1, 5, 3, 7, 0}

// Flag holds the boolean-ish text attributes a cell can carry, independent
// of foreground/background color.
type Flag uint16

const (
	FlagUnderline Flag = 1 << iota
	FlagBold
	FlagReverse
	FlagBlink
	FlagDim
	FlagACS // alternate character set
	FlagUser1
	FlagUser2
)

// userMask is the set of flag bits reserved for application-defined
// rendering, dispatched to a user callback by the diff engine instead of
// being drawn directly.
const userMask = FlagUser1 | FlagUser2

// Has reports whether all bits in mask are set.
func (f Flag) Has(mask Flag) bool { return f&mask == mask }

// Attrs is the attribute payload carried by a Cell: a foreground and
// background color slot plus a set of flags.
type Attrs struct {
	FG, BG Color
	Flags  Flag
}

// DefaultAttrs is the zero-valued, unstyled attribute set.
func DefaultAttrs() Attrs { return Attrs{} }

// CombineAttrs merges attr over base: any color attr leaves unset is taken
// from base, and flags from both are OR-ed together. attr is the priority
// argument, matching the combination rule applied when a window's
// default_attrs are folded into an explicitly requested style.
func CombineAttrs(attr, base Attrs) Attrs {
	out := attr
	if out.FG == ColorUnset {
		out.FG = base.FG
	}
	if out.BG == ColorUnset {
		out.BG = base.BG
	}
	out.Flags |= base.Flags
	return out
}

// resolvedColor normalizes ColorUnset to ColorDefault for emission purposes;
// by the time attributes reach the emitter there is no "inherit" left to do.
func resolvedColor(c Color) Color {
	if c == ColorUnset {
		return ColorDefault
	}
	return c
}
