package termwindow

import (
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// localeCodeset reads the locale codeset the environment advertises,
// the same three-variable precedence glibc's setlocale(LC_CTYPE, "")
// uses (LC_ALL overrides LC_CTYPE overrides LANG). It returns the part
// after the first '.', or the whole value when there is none (so a "C"
// or "POSIX" locale comes back as "C" or "POSIX"), and "" when none of
// the three variables is set.
func localeCodeset() string {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			return v[i+1:]
		}
		return v
	}
	return ""
}

// outputEncoder wraps w so that UTF-8 text written through it is
// transcoded to the locale's codeset. It returns w unchanged (and ok
// false) when the codeset is empty, "UTF-8", or not recognized --
// recognizing and expanding codeset names is itself the external
// collaborator being wired here (golang.org/x/text/encoding/htmlindex),
// not something this package reimplements.
func outputEncoder(w io.Writer) (io.Writer, bool) {
	codeset := localeCodeset()
	if codeset == "" || strings.EqualFold(codeset, "UTF-8") || strings.EqualFold(codeset, "C") {
		return w, false
	}
	enc, err := htmlindex.Get(codeset)
	if err != nil {
		return w, false
	}
	if enc == encoding.Nop {
		return w, false
	}
	return transform.NewWriter(w, enc.NewEncoder()), true
}
