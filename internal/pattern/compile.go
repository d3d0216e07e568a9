package pattern

import (
	"fmt"
	"regexp"

	"go.elara.ws/pcre"
)

// Compiled is a pattern ready to be matched against lines.
type Compiled struct {
	source  string
	literal string
	exact   bool
	re      *regexp.Regexp
	pc      *pcre.Regexp
}

// Source returns the regular expression source (or PCRE source).
func (c *Compiled) Source() string { return c.source }

// Match reports whether the pattern matches at the start of line. Exact and
// glob translations are anchored at both ends, so for them this is a whole
// line match.
func (c *Compiled) Match(line string) bool {
	if c.exact {
		return line == c.literal
	}
	loc := c.index(line)
	return loc != nil && loc[0] == 0
}

func (c *Compiled) index(line string) []int {
	if c.pc != nil {
		return pcreIndex(c.pc, line)
	}
	return c.re.FindStringIndex(line)
}

// Compile turns patterns into matchers according to flavor. Literal patterns
// are translated (escaped and anchored for Exact, wildcard-translated for Glob,
// used verbatim for Regex); compiled patterns are used as is.
func Compile(patterns []Pattern, flavor Flavor) ([]*Compiled, error) {
	if err := flavor.Check(); err != nil {
		return nil, err
	}

	out := make([]*Compiled, 0, len(patterns))
	for _, p := range patterns {
		c, err := compileOne(p, flavor)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func compileOne(p Pattern, flavor Flavor) (*Compiled, error) {
	switch p.kind {
	case KindRE2:
		if p.re == nil {
			break
		}
		return &Compiled{source: p.text, re: p.re}, nil
	case KindPCRE:
		if !p.pcreOpen() {
			break
		}
		return &Compiled{source: p.text, pc: p.pc}, nil
	case KindLiteral:
		var src string
		switch flavor {
		case Exact:
			src = exactSource(p.text)
		case Glob:
			src = globSource(p.text)
		default:
			src = regexSource(p.text)
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %q (%s): %v", ErrInvalidPattern, p.text, flavor, err)
		}
		c := &Compiled{source: src, re: re}
		if flavor == Exact {
			c.exact, c.literal = true, p.text
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s pattern", ErrInvalidPattern, p.kind)
}

// Pruner removes a leading prefix or the first match of a pattern from lines.
type Pruner struct {
	re *regexp.Regexp
	pc *pcre.Regexp
}

// CompilePruners compiles delete patterns. A literal is a prefix interpreted
// by flavor: Exact removes the literal prefix, Glob a wildcard prefix and
// Regex a match anchored at the start of the line. A compiled pattern removes
// its first match anywhere in the line.
func CompilePruners(patterns []Pattern, flavor Flavor) ([]Pruner, error) {
	if err := flavor.Check(); err != nil {
		return nil, err
	}

	out := make([]Pruner, 0, len(patterns))
	for _, p := range patterns {
		switch p.kind {
		case KindRE2:
			if p.re != nil {
				out = append(out, Pruner{re: p.re})
				continue
			}
		case KindPCRE:
			if p.pcreOpen() {
				out = append(out, Pruner{pc: p.pc})
				continue
			}
		case KindLiteral:
			var src string
			switch flavor {
			case Exact:
				src = `^` + regexp.QuoteMeta(p.text)
			case Glob:
				src = `^(?s:` + TranslateGlob(p.text) + `)`
			default:
				src = regexSource(p.text)
			}
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("%w: delete %q (%s): %v", ErrInvalidPattern, p.text, flavor, err)
			}
			out = append(out, Pruner{re: re})
			continue
		}
		return nil, fmt.Errorf("%w: delete %s pattern", ErrInvalidPattern, p.kind)
	}
	return out, nil
}

// Prune removes the first match of the pruner from line.
func (p Pruner) Prune(line string) string {
	var loc []int
	if p.pc != nil {
		loc = pcreIndex(p.pc, line)
	} else {
		loc = p.re.FindStringIndex(line)
	}
	if loc == nil || loc[0] == loc[1] {
		return line
	}
	return line[:loc[0]] + line[loc[1]:]
}
