package accessor

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format renders the view as a bracketed list, perRow elements per line.
// A perRow of zero keeps everything on one line. Numbers go through verb
// (a fmt verb such as "%v" or "%.3f") and are localized for tag.
// Multi-component elements are wrapped in parentheses. Unsigned component
// types print their unsigned value.
func (v *View[T]) Format(tag language.Tag, verb string, perRow int) string {
	if verb == "" {
		verb = "%v"
	}
	p := message.NewPrinter(tag)

	var sb strings.Builder
	sb.WriteByte('[')
	for e := 0; e < v.count; e++ {
		if e > 0 {
			sb.WriteByte(',')
			if perRow > 0 && e%perRow == 0 {
				sb.WriteString("\n ")
			} else {
				sb.WriteByte(' ')
			}
		}
		if v.components > 1 {
			sb.WriteByte('(')
		}
		for c := 0; c < v.components; c++ {
			if c > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(p.Sprintf(verb, v.value(e, c)))
		}
		if v.components > 1 {
			sb.WriteByte(')')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (v *View[T]) value(e, c int) any {
	if v.ctype == Float {
		return v.at(e, c)
	}
	return v.intAt(e, c)
}
