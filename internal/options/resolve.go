package options

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dl/linematch/internal/pattern"
)

// Resolved is a total, type-checked configuration: every option of a Set
// merged with the defaults.
type Resolved struct {
	Color     bool
	Ctrl      bool
	Strip     StripChars
	StripLine StripChars
	KeepEnds  bool
	Empty     bool
	Compress  bool
	Unique    bool
	Delete    []pattern.Pattern
	Ignore    Predicate
	Flavor    pattern.Flavor
}

// Resolve merges s with the defaults and checks every value. Unknown names,
// values of the wrong type, invalid delete patterns and unknown flavors are
// reported as *ConfigError.
func (s Set) Resolve() (Resolved, error) {
	for _, name := range slices.Sorted(maps.Keys(s.values)) {
		if !Known(name) {
			return Resolved{}, configErr(name, nil, ErrUnknownOption, "choose from %v", Names)
		}
	}

	var (
		r   Resolved
		err error
	)
	boolean := func(name string) bool {
		if err != nil {
			return false
		}
		v, _ := Get(s, name)
		b, ok := v.(bool)
		if !ok {
			err = configErr(name, v, ErrInvalidValue, "expected a boolean, got %T", v)
		}
		return b
	}
	strip := func(name string) StripChars {
		if err != nil {
			return StripChars{}
		}
		v, _ := Get(s, name)
		sc, ok := v.(StripChars)
		if !ok {
			err = configErr(name, v, ErrInvalidValue, "expected strip characters, got %T", v)
		}
		return sc
	}

	r.Color = boolean(NameColor)
	r.Ctrl = boolean(NameCtrl)
	r.KeepEnds = boolean(NameKeepEnds)
	r.Empty = boolean(NameEmpty)
	r.Compress = boolean(NameCompress)
	r.Unique = boolean(NameUnique)
	r.Strip = strip(NameStrip)
	r.StripLine = strip(NameStripLine)
	if err != nil {
		return Resolved{}, err
	}

	if r.Flavor, err = resolveFlavor(s); err != nil {
		return Resolved{}, err
	}
	if r.Delete, err = resolveDelete(s); err != nil {
		return Resolved{}, err
	}
	if r.Ignore, err = resolveIgnore(s, r.Flavor); err != nil {
		return Resolved{}, err
	}
	return r, nil
}

func resolveFlavor(s Set) (pattern.Flavor, error) {
	v, _ := Get(s, NameFlavor)
	f, ok := v.(pattern.Flavor)
	if !ok {
		return "", configErr(NameFlavor, v, ErrInvalidValue, "expected a flavor, got %T", v)
	}
	if err := f.Check(); err != nil {
		return "", &ConfigError{Option: NameFlavor, Err: err}
	}
	return f, nil
}

func resolveDelete(s Set) ([]pattern.Pattern, error) {
	v, _ := Get(s, NameDelete)
	ps, ok := v.([]pattern.Pattern)
	if !ok {
		return nil, configErr(NameDelete, v, ErrInvalidDelete, "expected patterns, got %T", v)
	}
	for i, p := range ps {
		if !p.Valid() {
			return nil, configErr(NameDelete, nil, ErrInvalidDelete, "entry %d is a %s pattern", i, p.Kind())
		}
	}
	return ps, nil
}

func resolveIgnore(s Set, flavor pattern.Flavor) (Predicate, error) {
	v, _ := Get(s, NameIgnore)
	switch ig := v.(type) {
	case nil:
		return nil, nil
	case Predicate:
		return ig, nil
	case IgnoreMatching:
		pred, err := ig.compile(flavor)
		if err != nil {
			return nil, &ConfigError{Option: NameIgnore, Err: err}
		}
		return pred, nil
	}
	return nil, configErr(NameIgnore, v, ErrInvalidValue, "expected a predicate, got %T", v)
}

// String renders r on one line, for logs.
func (r Resolved) String() string {
	return fmt.Sprintf("color=%t ctrl=%t strip=%s stripline=%s keepends=%t empty=%t compress=%t unique=%t delete=%d ignore=%t flavor=%s",
		r.Color, r.Ctrl, r.Strip, r.StripLine, r.KeepEnds, r.Empty, r.Compress, r.Unique, len(r.Delete), r.Ignore != nil, r.Flavor)
}
