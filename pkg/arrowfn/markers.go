package arrowfn

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NotFound marks a punctuation marker that does not occur in the source text.
const NotFound = -1

// Markers holds the byte offsets of the punctuation the classifier looks at.
// Offsets are only compared with each other, so byte offsets order the same
// way as the UTF-16 offsets a JavaScript engine would report.
type Markers struct {
	FirstNonSpace int
	Quote         int
	Paren         int
	Brace         int
	Arrow         int
	Slash         int
}

// ScanMarkers locates every marker in src in a single call.
func ScanMarkers(src string) Markers {
	return Markers{
		FirstNonSpace: strings.IndexFunc(src, func(r rune) bool { return !isSpace(r) }),
		Quote:         strings.IndexAny(src, "'\"`"),
		Paren:         strings.IndexByte(src, '('),
		Brace:         strings.IndexByte(src, '{'),
		Arrow:         strings.Index(src, "=>"),
		Slash:         strings.IndexByte(src, '/'),
	}
}

func found(idx int) bool {
	return idx != NotFound
}

// isSpace reports whether r belongs to the JavaScript \s class. That is the
// Unicode White_Space set plus the byte order mark, without NEL.
func isSpace(r rune) bool {
	switch r {
	case '\ufeff':
		return true
	case '\u0085':
		return false
	}

	return unicode.IsSpace(r)
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// startsWithClass matches /^\s*class[\s/{]/.
func startsWithClass(src string) bool {
	rest := strings.TrimLeftFunc(src, isSpace)
	if !strings.HasPrefix(rest, "class") {
		return false
	}

	next, size := utf8.DecodeRuneInString(rest[len("class"):])
	if size == 0 {
		return false
	}

	return next == '/' || next == '{' || isSpace(next)
}
