package pattern

import (
	"fmt"
	"regexp"

	"go.elara.ws/pcre"
)

// Kind identifies how a Pattern was constructed.
type Kind uint8

const (
	KindInvalid Kind = iota // zero value, rejected by the compiler
	KindLiteral             // plain string, interpreted according to a Flavor
	KindRE2                 // precompiled Go regular expression
	KindPCRE                // precompiled PCRE2 expression
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRE2:
		return "re2"
	case KindPCRE:
		return "pcre"
	default:
		return "invalid"
	}
}

// Pattern is either a literal string or a precompiled regular expression.
// Patterns are comparable values: two patterns are equal when they have the
// same kind, text and compiled object.
type Pattern struct {
	kind  Kind
	text  string
	re    *regexp.Regexp
	pc    *pcre.Regexp
	state *pcreState
	flags pcre.CompileOption
}

// Literal returns a pattern whose meaning depends on the active flavor.
func Literal(s string) Pattern {
	return Pattern{kind: KindLiteral, text: s}
}

// Literals converts each string into a literal pattern.
func Literals(ss ...string) []Pattern {
	out := make([]Pattern, len(ss))
	for i, s := range ss {
		out[i] = Literal(s)
	}
	return out
}

// Regexp wraps an already compiled RE2 expression. Compiled patterns are
// never translated by a flavor.
func Regexp(re *regexp.Regexp) Pattern {
	if re == nil {
		return Pattern{}
	}
	return Pattern{kind: KindRE2, text: re.String(), re: re}
}

// MustRegexp compiles src with regexp.MustCompile and wraps it.
func MustRegexp(src string) Pattern {
	return Regexp(regexp.MustCompile(src))
}

// Kind reports how the pattern was built.
func (p Pattern) Kind() Kind { return p.kind }

// Text returns the literal text or the regular expression source.
func (p Pattern) Text() string { return p.text }

// IsCompiled reports whether the pattern bypasses flavor translation.
func (p Pattern) IsCompiled() bool {
	return p.kind == KindRE2 || p.kind == KindPCRE
}

// Valid reports whether the pattern was built by one of the constructors.
func (p Pattern) Valid() bool {
	switch p.kind {
	case KindLiteral:
		return true
	case KindRE2:
		return p.re != nil
	case KindPCRE:
		return p.pcreOpen()
	}
	return false
}

func (p Pattern) String() string {
	if p.IsCompiled() {
		return fmt.Sprintf("%s(%q)", p.kind, p.text)
	}
	return fmt.Sprintf("%q", p.text)
}

// sortKey orders patterns by text, then flags, then capture group count.
// Literals sort before compiled patterns with the same text.
func (p Pattern) sortKey() (string, int, int) {
	switch p.kind {
	case KindRE2:
		return p.text, 0, p.re.NumSubexp()
	case KindPCRE:
		return p.text, int(p.flags), 0
	default:
		return p.text, -1, -1
	}
}

func compareKeys(a, b Pattern) int {
	at, af, ag := a.sortKey()
	bt, bf, bg := b.sortKey()
	switch {
	case at < bt:
		return -1
	case at > bt:
		return 1
	case af != bf:
		return af - bf
	default:
		return ag - bg
	}
}
