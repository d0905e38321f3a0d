package text

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseInt converts a decoded JSON value or a string into an int.
// It returns nil for missing or malformed input.
func ParseInt(v any) *int {
	var n int
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return nil
		}
		n = int(x)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		n = i
	case interface{ String() string }:
		return ParseInt(x.String())
	default:
		return nil
	}
	return &n
}

// strftime directives understood by ParseDatetime
var strftimeLayout = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'z': "-0700",
	'Z': "MST",
	'f': "000000",
	'%': "%",
}

// Layout translates a strftime format into a Go time layout.
// Unknown directives are copied through verbatim.
func Layout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}
		i++
		if l, ok := strftimeLayout[format[i]]; ok {
			b.WriteString(l)
		} else {
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}
	return b.String()
}

// ParseDatetime parses value using a strftime format and returns nil on failure.
// Values without zone information are taken as UTC.
func ParseDatetime(value, format string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(Layout(format), value)
	if err != nil {
		return nil
	}
	return &t
}
