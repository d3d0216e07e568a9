package pattern

import (
	"regexp"
	"strings"
)

// neverMatch is an RE2 class that matches no character, used for "[]".
const neverMatch = `[^\x00-\x{10FFFF}]`

// TranslateGlob converts a shell wildcard pattern into the body of an RE2
// expression (without anchors). '*' matches any run of characters including
// line breaks, '?' matches one character, "[seq]" and "[!seq]" are character
// classes and an unterminated '[' is a literal bracket. There is no escape
// character.
func TranslateGlob(pat string) string {
	var b strings.Builder
	rs := []rune(pat)
	n := len(rs)
	for i := 0; i < n; {
		c := rs[i]
		i++
		switch c {
		case '*':
			for i < n && rs[i] == '*' {
				i++
			}
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '[':
			j := i
			if j < n && rs[j] == '!' {
				j++
			}
			if j < n && rs[j] == ']' {
				j++
			}
			for j < n && rs[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(globClass(rs[i:j]))
			i = j + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

// globClass translates the body of a "[...]" class. Ranges run left to
// right and a reversed range such as "z-a" is dropped, so a class left with
// nothing matches no character.
func globClass(stuff []rune) string {
	negate := len(stuff) > 0 && stuff[0] == '!'
	if negate {
		stuff = stuff[1:]
	}

	var body strings.Builder
	for i := 0; i < len(stuff); {
		lo := stuff[i]
		if i+2 < len(stuff) && stuff[i+1] == '-' {
			hi := stuff[i+2]
			i += 3
			if lo > hi {
				continue
			}
			writeClassRune(&body, lo)
			body.WriteByte('-')
			writeClassRune(&body, hi)
			continue
		}
		writeClassRune(&body, lo)
		i++
	}

	switch {
	case body.Len() == 0 && negate:
		return "."
	case body.Len() == 0:
		return neverMatch
	case negate:
		return "[^" + body.String() + "]"
	}
	return "[" + body.String() + "]"
}

func writeClassRune(b *strings.Builder, r rune) {
	switch r {
	case '\\', '[', ']', '^', '-':
		b.WriteByte('\\')
	}
	b.WriteRune(r)
}

// exactSource is a regular expression matching exactly s.
func exactSource(s string) string {
	return `^` + regexp.QuoteMeta(s) + `\z`
}

// globSource is a regular expression matching a whole line against a glob.
func globSource(s string) string {
	return `^(?s:` + TranslateGlob(s) + `)\z`
}

// regexSource anchors a raw expression at the start of the line.
func regexSource(s string) string {
	return `^(?:` + s + `)`
}
