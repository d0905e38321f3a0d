package text

import (
	"iter"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extract returns the text between begin and end, searching from pos.
// The second return value is the position right after end, or pos when
// either marker is missing.
func Extract(s, begin, end string, pos int) (string, int, bool) {
	if pos < 0 || pos > len(s) {
		return "", pos, false
	}
	i := strings.Index(s[pos:], begin)
	if i < 0 {
		return "", pos, false
	}
	first := pos + i + len(begin)
	j := strings.Index(s[first:], end)
	if j < 0 {
		return "", pos, false
	}
	last := first + j
	return s[first:last], last + len(end), true
}

// Extr returns the text between the first begin marker and the end marker
// following it, or "" when either is missing.
func Extr(s, begin, end string) string {
	v, _, _ := Extract(s, begin, end, 0)
	return v
}

// ExtractIter yields every non-overlapping substring enclosed by begin and end.
func ExtractIter(s, begin, end string) iter.Seq[string] {
	return func(yield func(string) bool) {
		pos := 0
		for {
			v, next, ok := Extract(s, begin, end, pos)
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
			pos = next
		}
	}
}

// ExtractFrom returns an extractor bound to s whose successive calls
// continue searching where the previous successful call stopped.
func ExtractFrom(s string) func(begin, end string) string {
	pos := 0
	return func(begin, end string) string {
		v, next, ok := Extract(s, begin, end, pos)
		if !ok {
			return ""
		}
		pos = next
		return v
	}
}

// URLJoin resolves ref against base. An empty ref resolves to base; a ref
// that fails to parse is returned unchanged.
func URLJoin(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// Unescape replaces HTML character references with the characters they stand for.
func Unescape(s string) string {
	return html.UnescapeString(s)
}

// Unquote decodes %XX escapes. A '%' not followed by two hex digits is
// copied through unchanged.
func Unquote(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// FilenameFromURL returns the unquoted last path segment of rawURL.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := u.Path
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	return Unquote(p)
}

// NameExtFromURL splits the last path segment of rawURL into a filename
// and a lower-case extension. Names without a plausible extension are
// returned whole with an empty extension.
func NameExtFromURL(rawURL string) (name, ext string) {
	filename := FilenameFromURL(rawURL)
	i := strings.LastIndexByte(filename, '.')
	if i > 0 && len(filename)-i-1 <= 16 {
		return filename[:i], strings.ToLower(filename[i+1:])
	}
	return filename, ""
}
