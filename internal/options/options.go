// Package options holds the cleaning and matching options of a line matcher:
// their names and defaults, typed constructors, sparse option sets and their
// resolution into a total configuration.
package options

import (
	"maps"
	"slices"

	"github.com/dl/linematch/internal/pattern"
)

// Option names.
const (
	NameColor     = "color"
	NameCtrl      = "ctrl"
	NameStrip     = "strip"
	NameStripLine = "stripline"
	NameKeepEnds  = "keepends"
	NameEmpty     = "empty"
	NameCompress  = "compress"
	NameUnique    = "unique"
	NameDelete    = "delete"
	NameIgnore    = "ignore"
	NameFlavor    = "flavor"
)

// Names lists every recognized option in documentation order.
var Names = []string{
	NameColor, NameCtrl, NameStrip, NameStripLine, NameKeepEnds, NameEmpty,
	NameCompress, NameUnique, NameDelete, NameIgnore, NameFlavor,
}

var defaults = map[string]any{
	NameColor:     false,
	NameCtrl:      true,
	NameStrip:     StripWhitespace(),
	NameStripLine: StripNothing(),
	NameKeepEnds:  false,
	NameEmpty:     true,
	NameCompress:  false,
	NameUnique:    false,
	NameDelete:    []pattern.Pattern(nil),
	NameIgnore:    Predicate(nil),
	NameFlavor:    pattern.Exact,
}

// Known reports whether name is a recognized option.
func Known(name string) bool {
	_, ok := defaults[name]
	return ok
}

// Default returns the documented default of name.
func Default(name string) (any, error) {
	v, ok := defaults[name]
	if !ok {
		return nil, configErr(name, nil, ErrUnknownOption, "choose from %v", Names)
	}
	return v, nil
}

// Option is a single named option value, built by one of the constructors
// below or by Parse.
type Option struct {
	name  string
	value any
}

// Name returns the option's name.
func (o Option) Name() string { return o.name }

// Value returns the option's value.
func (o Option) Value() any { return o.value }

func Color(on bool) Option    { return Option{NameColor, on} }
func Ctrl(on bool) Option     { return Option{NameCtrl, on} }
func KeepEnds(on bool) Option { return Option{NameKeepEnds, on} }
func Empty(on bool) Option    { return Option{NameEmpty, on} }
func Compress(on bool) Option { return Option{NameCompress, on} }
func Unique(on bool) Option   { return Option{NameUnique, on} }

// Strip sets the characters stripped from the whole text before splitting.
func Strip(s StripChars) Option { return Option{NameStrip, s} }

// StripLine sets the characters stripped from each line after splitting.
func StripLine(s StripChars) Option { return Option{NameStripLine, s} }

// Delete sets the patterns removed from every line. Literal patterns are
// prefixes interpreted by the flavor; compiled patterns remove their first
// match anywhere in the line.
func Delete(ps ...pattern.Pattern) Option {
	return Option{NameDelete, slices.Clone(ps)}
}

// DeletePrefixes is Delete over literal patterns.
func DeletePrefixes(prefixes ...string) Option {
	return Option{NameDelete, pattern.Literals(prefixes...)}
}

// Ignore drops the lines selected by pred. A nil predicate keeps every line.
func Ignore(pred Predicate) Option { return Option{NameIgnore, pred} }

// IgnorePatterns drops the lines matched by any of ps under the active flavor.
func IgnorePatterns(ps ...pattern.Pattern) Option {
	return Option{NameIgnore, IgnoreMatching(slices.Clone(ps))}
}

// WithFlavor sets how literal patterns are interpreted.
func WithFlavor(f pattern.Flavor) Option { return Option{NameFlavor, f} }

// Set is an immutable, sparse mapping from option name to value. The zero
// value is the empty set.
type Set struct {
	values map[string]any
}

// New builds a set from opts; later options override earlier ones.
func New(opts ...Option) Set {
	return Set{}.With(opts...)
}

// With returns a copy of s extended by opts.
func (s Set) With(opts ...Option) Set {
	if len(opts) == 0 {
		return s
	}
	values := make(map[string]any, len(s.values)+len(opts))
	maps.Copy(values, s.values)
	for _, o := range opts {
		values[o.name] = o.value
	}
	return Set{values: values}
}

// Merge returns a copy of s where every option present in other overrides
// the one in s.
func (s Set) Merge(other Set) Set {
	if len(other.values) == 0 {
		return s
	}
	values := make(map[string]any, len(s.values)+len(other.values))
	maps.Copy(values, s.values)
	maps.Copy(values, other.values)
	return Set{values: values}
}

// Options returns the set as a list of options sorted by name.
func (s Set) Options() []Option {
	out := make([]Option, 0, len(s.values))
	for _, name := range slices.Sorted(maps.Keys(s.values)) {
		out = append(out, Option{name, s.values[name]})
	}
	return out
}

// Close releases the compiled PCRE patterns held by the delete and ignore
// options. The set must not be resolved afterwards; sets merged from it
// share its patterns.
func (s Set) Close() {
	for _, v := range s.values {
		var ps []pattern.Pattern
		switch v := v.(type) {
		case []pattern.Pattern:
			ps = v
		case IgnoreMatching:
			ps = v
		}
		for _, p := range ps {
			p.Close()
		}
	}
}

// Len returns the number of explicitly set options.
func (s Set) Len() int { return len(s.values) }

// Lookup returns the explicit value of name, if any.
func (s Set) Lookup(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Get returns the value of name in s, or its documented default. It fails
// with ErrUnknownOption if name is not recognized.
func Get(s Set, name string) (any, error) {
	if v, ok := s.values[name]; ok {
		return v, nil
	}
	return Default(name)
}

// GetOr returns the value of name in s, or def when s does not set it.
// Unlike Get it never fails, even for an unrecognized name.
func GetOr(s Set, name string, def any) any {
	if v, ok := s.values[name]; ok {
		return v
	}
	return def
}
