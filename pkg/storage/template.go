package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Template is a compiled format string such as
// "{category}_{gallery_id}_{num:>03}.{extension}".
//
// A field is {key} or {key:spec}. spec may start with an optional part
// "?before/after/" which wraps the value when it is non-empty and drops
// the field otherwise. The rest is [[fill]align][0][width] with align one
// of '<', '>' or '^'. Literal braces are written as "{{" and "}}".
type Template struct {
	src   string
	parts []part
}

type part struct {
	literal string
	field   *field
}

type field struct {
	key      string
	optional bool
	before   string
	after    string
	fill     rune
	align    byte
	width    int
}

// Compile parses a format string
func Compile(src string) (*Template, error) {
	t := &Template{src: src}
	var lit strings.Builder
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '{' && i+1 < len(src) && src[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(src) && src[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(src[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed field at offset %d in %q", i, src)
			}
			f, err := parseField(src[i+1 : i+end])
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", src, err)
			}
			if lit.Len() > 0 {
				t.parts = append(t.parts, part{literal: lit.String()})
				lit.Reset()
			}
			t.parts = append(t.parts, part{field: f})
			i += end
		case c == '}':
			return nil, fmt.Errorf("single '}' at offset %d in %q", i, src)
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		t.parts = append(t.parts, part{literal: lit.String()})
	}
	return t, nil
}

// SplitPattern splits a directory pattern into segments on the '/'
// characters that lie outside replacement fields. Slashes inside a field,
// such as the delimiters of "{title:?[/]/}", stay part of the segment.
func SplitPattern(src string) []string {
	var segments []string
	start, inField := 0, false
	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case inField:
			if c == '}' {
				inField = false
			}
		case (c == '{' || c == '}') && i+1 < len(src) && src[i+1] == c:
			i++
		case c == '{':
			inField = true
		case c == '/':
			segments = append(segments, src[start:i])
			start = i + 1
		}
	}
	return append(segments, src[start:])
}

// MustCompile is Compile that panics on error
func MustCompile(src string) *Template {
	t, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) String() string { return t.src }

func parseField(s string) (*field, error) {
	key, spec, _ := strings.Cut(s, ":")
	if key == "" {
		return nil, fmt.Errorf("empty field name in {%s}", s)
	}
	f := &field{key: key, fill: ' '}

	if strings.HasPrefix(spec, "?") {
		rest := spec[1:]
		before, rest, ok := strings.Cut(rest, "/")
		if !ok {
			return nil, fmt.Errorf("bad optional spec in {%s}", s)
		}
		after, rest, ok := strings.Cut(rest, "/")
		if !ok {
			return nil, fmt.Errorf("bad optional spec in {%s}", s)
		}
		f.optional, f.before, f.after = true, before, after
		spec = rest
	}
	if spec == "" {
		return f, nil
	}

	fillSet := false
	if r, size := utf8.DecodeRuneInString(spec); size < len(spec) && isAlign(spec[size]) {
		f.fill, f.align, fillSet = r, spec[size], true
		spec = spec[size+1:]
	} else if isAlign(spec[0]) {
		f.align = spec[0]
		spec = spec[1:]
	}
	if strings.HasPrefix(spec, "0") {
		if !fillSet {
			f.fill = '0'
		}
		if f.align == 0 {
			f.align = '>'
		}
		spec = spec[1:]
	}
	if spec != "" {
		w, err := strconv.Atoi(spec)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("bad width in {%s}", s)
		}
		f.width = w
	}
	return f, nil
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^'
}

// Render substitutes data into the template. Missing and nil values
// render as the empty string.
func (t *Template) Render(data map[string]any) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.field == nil {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(p.field.render(data[p.field.key]))
	}
	return b.String()
}

func (f *field) render(v any) string {
	s := formatValue(v)
	if f.optional {
		if s == "" {
			return ""
		}
		s = f.before + s + f.after
	}
	return f.pad(s)
}

func (f *field) pad(s string) string {
	n := f.width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	fill := string(f.fill)
	align := f.align
	if align == 0 {
		align = '<'
	}
	switch align {
	case '>':
		return strings.Repeat(fill, n) + s
	case '^':
		left := n / 2
		return strings.Repeat(fill, left) + s + strings.Repeat(fill, n-left)
	default:
		return s + strings.Repeat(fill, n)
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case int:
		return strconv.Itoa(x)
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	case time.Time:
		return x.Format(time.DateTime)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}
