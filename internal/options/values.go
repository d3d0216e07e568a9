package options

import (
	"strings"
	"unicode"

	"github.com/dl/linematch/internal/pattern"
)

type stripMode uint8

const (
	stripWhitespace stripMode = iota
	stripOff
	stripChars
)

// StripChars describes what the strip and stripline options remove from the
// ends of the text. The zero value strips whitespace.
type StripChars struct {
	mode  stripMode
	chars string
}

// StripWhitespace strips leading and trailing whitespace.
func StripWhitespace() StripChars { return StripChars{mode: stripWhitespace} }

// StripNothing disables stripping.
func StripNothing() StripChars { return StripChars{mode: stripOff} }

// StripSet strips any of the runes in chars. An empty set strips nothing.
func StripSet(chars string) StripChars { return StripChars{mode: stripChars, chars: chars} }

// StripBool maps true to StripWhitespace and false to StripNothing.
func StripBool(on bool) StripChars {
	if on {
		return StripWhitespace()
	}
	return StripNothing()
}

// Enabled reports whether Apply may change its input.
func (s StripChars) Enabled() bool {
	switch s.mode {
	case stripOff:
		return false
	case stripChars:
		return s.chars != ""
	}
	return true
}

// Apply strips s's character set from both ends of text.
func (s StripChars) Apply(text string) string {
	switch s.mode {
	case stripOff:
		return text
	case stripChars:
		if s.chars == "" {
			return text
		}
		return strings.Trim(text, s.chars)
	}
	return strings.TrimFunc(text, isSpace)
}

func (s StripChars) String() string {
	switch s.mode {
	case stripOff:
		return "false"
	case stripChars:
		return s.chars
	}
	return "true"
}

// isSpace also treats the file, group, record and unit separators as spaces.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Predicate selects lines. A nil Predicate selects nothing.
type Predicate func(line string) bool

// IgnoreMatching returns an ignore predicate that selects lines matched by
// any of the patterns. Literal patterns are interpreted by the resolved
// flavor, so the predicate is only built once the flavor is known.
type IgnoreMatching []pattern.Pattern

func (m IgnoreMatching) compile(flavor pattern.Flavor) (Predicate, error) {
	compiled, err := pattern.Compile(m, flavor)
	if err != nil {
		return nil, err
	}
	return func(line string) bool {
		for _, c := range compiled {
			if c.Match(line) {
				return true
			}
		}
		return false
	}, nil
}
