// Package fsutil provides path sanitizing and directory checks.
package fsutil

import "strings"

// IsSuspiciousChar reports whether r never belongs in a filesystem path:
// NUL, newline, carriage return, backslash and the other control characters
// (0x01-0x1f, 0x7f).
func IsSuspiciousChar(r rune) bool {
	return r == '\\' || r == 0x7f || (r >= 0 && r <= 0x1f)
}

// IsSuspiciousStrict reports whether r has a special meaning to common
// shells: wildcards, quotes, redirection, pipes, command separators,
// history/variable expansion, command substitution and brackets.
func IsSuspiciousStrict(r rune) bool {
	switch r {
	case '*', '?', '"', '\'',
		'<', '>', '|',
		';', '&', '!', '$', '`',
		'(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// NormalizePath removes suspicious characters from p and lexically resolves
// "." and ".." components. A ".." never climbs above the root of an absolute
// path or the start of a relative one, and components made only of dots are
// dropped. In strict mode the shell metacharacters of IsSuspiciousStrict are
// removed as well.
//
// The filesystem is not consulted, so p does not need to exist and symlinks
// are not resolved. Invalid UTF-8 is replaced with U+FFFD.
func NormalizePath(p string, strict bool) string {
	clean := strings.Map(func(r rune) rune {
		if IsSuspiciousChar(r) || (strict && IsSuspiciousStrict(r)) {
			return -1
		}
		return r
	}, p)

	var parts []string
	for _, c := range strings.Split(clean, "/") {
		switch {
		case c == "" || c == ".":
		case c == "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		case strings.Trim(c, ".") == "":
			// "...", "....", and so on
		default:
			parts = append(parts, c)
		}
	}

	out := strings.Join(parts, "/")
	if strings.HasPrefix(clean, "/") {
		return "/" + out
	}
	return out
}
