package termwindow

import "errors"

// Error is a stable error code returned by this package, mirroring the
// small set of conditions the terminal and painting layers can report.
// Unlike a plain error value, callers that need to distinguish e.g.
// a timeout from a resource failure can compare against these directly.
type Error int

const (
	ErrSuccess Error = iota
	ErrErrno
	ErrEOF
	ErrNotATTY
	ErrTimeout
	ErrNoSizeInfo
	ErrHardcopyTerminal
	ErrTerminfoDBNotFound
	ErrTerminalTooLimited
	ErrNonPrint
	ErrBadArg
	ErrUnknown
	ErrNotPrintable
	ErrTruncated
	ErrIllSeq
	ErrIncomplete
)

func (e Error) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrErrno:
		return "os error"
	case ErrEOF:
		return "end of file"
	case ErrNotATTY:
		return "stdout is not a tty"
	case ErrTimeout:
		return "timed out"
	case ErrNoSizeInfo:
		return "unable to determine terminal size"
	case ErrHardcopyTerminal:
		return "terminal is a hardcopy terminal"
	case ErrTerminfoDBNotFound:
		return "terminfo database not found"
	case ErrTerminalTooLimited:
		return "terminal lacks required capabilities"
	case ErrNonPrint:
		return "non-printable character"
	case ErrBadArg:
		return "invalid argument"
	case ErrUnknown:
		return "unknown error"
	case ErrNotPrintable:
		return "codepoint is not printable"
	case ErrTruncated:
		return "input truncated"
	case ErrIllSeq:
		return "invalid byte sequence"
	case ErrIncomplete:
		return "incomplete byte sequence"
	default:
		return "unrecognized error"
	}
}

// errAnchorCycle is returned by (*Window).SetAnchor when the requested
// anchor would create a cycle in the anchor graph.
var errAnchorCycle = errors.New("termwindow: anchor relation would create a cycle")
