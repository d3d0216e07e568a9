package buffer

import "unicode/utf8"

// isLineBreak reports whether r ends a line. The set covers \n, \r, \v, \f,
// the file/group/record separators, NEL and the Unicode line and paragraph
// separators; "\r\n" is handled by the caller as a single break.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// SplitLines splits s into lines. A trailing line break does not produce a
// trailing empty line and the empty string has no lines. If keepends is true,
// each line retains its terminating break.
func SplitLines(s string, keepends bool) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		end := i + size
		if r == '\r' && end < len(s) && s[end] == '\n' {
			end++
		}
		if keepends {
			lines = append(lines, s[start:end])
		} else {
			lines = append(lines, s[start:i])
		}
		start = end
		i = end
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
