// Package text holds small string conversion helpers.
package text

import (
	"fmt"
	"strings"
)

// Display returns the default string form of v.
func Display(v any) string {
	return fmt.Sprint(v)
}

// Debug returns the Go-syntax representation of v.
func Debug(v any) string {
	return fmt.Sprintf("%#v", v)
}

// Inject replaces each "{}" placeholder in template with the next argument.
// Placeholders without a matching argument are left as "{}", a "{" that does
// not open a placeholder is copied together with the character after it (so
// "{{}" stays literal), and any arguments left over after the last
// placeholder are appended in order.
//
// Unlike fmt, the template can come from anywhere (config, user input)
// without being a format string.
func Inject(template string, args ...any) string {
	var b strings.Builder
	b.Grow(len(template))

	next := 0
	inBrace := false
	for _, r := range template {
		if inBrace {
			inBrace = false
			if r == '}' {
				if next < len(args) {
					fmt.Fprint(&b, args[next])
					next++
				} else {
					b.WriteString("{}")
				}
				continue
			}
			b.WriteByte('{')
			b.WriteRune(r)
			continue
		}
		if r == '{' {
			inBrace = true
			continue
		}
		b.WriteRune(r)
	}
	if inBrace {
		b.WriteByte('{')
	}

	for _, arg := range args[next:] {
		fmt.Fprint(&b, arg)
	}
	return b.String()
}
