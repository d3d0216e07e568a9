// Package cleaner turns raw captured text into the normalized lines the
// matcher works on.
//
// Stages run in a fixed order, each one enabled by an option:
//
//  1. strip ANSI control sequences (unless ctrl) then colors (unless color)
//  2. strip the whole text (strip)
//  3. split into lines, keeping the breaks if keepends
//  4. strip every line (stripline)
//  5. drop empty lines (unless empty)
//  6. collapse consecutive duplicates (compress)
//  7. remove delete patterns from every line until it is stable (delete)
//  8. drop lines selected by the ignore predicate (ignore)
//  9. drop lines already seen (unique)
package cleaner

import (
	"github.com/dl/linematch/internal/ansi"
	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/pattern"
)

// Cleaner applies a resolved option set to texts. It is safe for concurrent
// use once built.
type Cleaner struct {
	opts    options.Resolved
	pruners []pattern.Pruner
}

// New compiles the delete patterns of opts.
func New(opts options.Resolved) (*Cleaner, error) {
	pruners, err := pattern.CompilePruners(opts.Delete, opts.Flavor)
	if err != nil {
		return nil, &options.ConfigError{Option: options.NameDelete, Err: err}
	}
	return &Cleaner{opts: opts, pruners: pruners}, nil
}

// Clean is a shorthand for New followed by Cleaner.Clean.
func Clean(text string, opts options.Resolved) ([]string, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.Clean(text), nil
}

// Clean returns the lines of text after every enabled stage.
func (c *Cleaner) Clean(text string) []string {
	o := c.opts

	text = ansi.Strip(text, o.Color, o.Ctrl)
	text = o.Strip.Apply(text)
	lines := buffer.SplitLines(text, o.KeepEnds)

	if o.StripLine.Enabled() {
		for i, line := range lines {
			lines[i] = o.StripLine.Apply(line)
		}
	}
	if !o.Empty {
		lines = DropEmpty(lines)
	}
	if o.Compress {
		lines = Compress(lines)
	}
	if len(c.pruners) > 0 {
		lines = Prune(lines, c.pruners)
	}
	if o.Ignore != nil {
		lines = Filter(lines, o.Ignore)
	}
	if o.Unique {
		lines = Unique(lines)
	}
	return lines
}

// DropEmpty removes empty lines in place.
func DropEmpty(lines []string) []string {
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Compress collapses runs of equal consecutive lines into one, in place.
func Compress(lines []string) []string {
	if len(lines) < 2 {
		return lines
	}
	out := lines[:1]
	for _, line := range lines[1:] {
		if line != out[len(out)-1] {
			out = append(out, line)
		}
	}
	return out
}

// Unique keeps the first occurrence of every line, in place.
func Unique(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := lines[:0]
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

// Filter removes the lines selected by pred, in place.
func Filter(lines []string, pred options.Predicate) []string {
	out := lines[:0]
	for _, line := range lines {
		if !pred(line) {
			out = append(out, line)
		}
	}
	return out
}

// Prune applies PruneLine to every line, in place.
func Prune(lines []string, pruners []pattern.Pruner) []string {
	for i, line := range lines {
		lines[i] = PruneLine(line, pruners)
	}
	return lines
}

// PruneLine cycles over pruners, removing one match per pruner per round,
// until a full round leaves the line unchanged.
func PruneLine(line string, pruners []pattern.Pruner) string {
	for {
		before := line
		for _, p := range pruners {
			line = p.Prune(line)
		}
		if line == before {
			return line
		}
	}
}
