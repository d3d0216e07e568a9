package options

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dl/linematch/internal/pattern"
)

// Parse builds a set from a generic mapping, as decoded from YAML or JSON.
// Accepted values per option:
//
//	color, ctrl, keepends, empty, compress, unique  bool
//	strip, stripline    bool, null (whitespace) or a string of characters
//	delete              a pattern or a list of patterns
//	ignore              null, a pattern, a list of patterns, {file: path}
//	                    or {rules: [gitignore rule, ...]}
//	flavor              exact, glob or regex
//
// A pattern is a string (interpreted by the flavor) or a mapping {re2: src}
// or {pcre: src, caseless: bool} for a compiled expression. Typed Go values
// (StripChars, Predicate, pattern.Pattern, pattern.Flavor) are accepted as is.
func Parse(raw map[string]any) (Set, error) {
	return parse(raw, "")
}

// LoadFile reads a YAML mapping of options from path. Relative ignore files
// are resolved against the directory of path.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read options: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Set{}, fmt.Errorf("parse options %s: %w", path, err)
	}
	s, err := parse(raw, filepath.Dir(path))
	if err != nil {
		return Set{}, fmt.Errorf("options %s: %w", path, err)
	}
	return s, nil
}

// ParseWithBase is Parse with relative file references resolved against dir.
func ParseWithBase(raw map[string]any, dir string) (Set, error) {
	return parse(raw, dir)
}

func parse(raw map[string]any, dir string) (Set, error) {
	opts := make([]Option, 0, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		o, err := parseOne(name, raw[name], dir)
		if err != nil {
			return Set{}, err
		}
		opts = append(opts, o)
	}
	return New(opts...), nil
}

func parseOne(name string, v any, dir string) (Option, error) {
	switch name {
	case NameColor, NameCtrl, NameKeepEnds, NameEmpty, NameCompress, NameUnique:
		b, ok := v.(bool)
		if !ok {
			return Option{}, configErr(name, v, ErrInvalidValue, "expected a boolean, got %T", v)
		}
		return Option{name, b}, nil

	case NameStrip, NameStripLine:
		sc, err := parseStrip(name, v)
		return Option{name, sc}, err

	case NameDelete:
		ps, err := parsePatterns(name, v, ErrInvalidDelete)
		return Option{name, ps}, err

	case NameIgnore:
		return parseIgnore(v, dir)

	case NameFlavor:
		switch f := v.(type) {
		case pattern.Flavor:
			return WithFlavor(f), nil
		case string:
			fl, err := pattern.ParseFlavor(f)
			if err != nil {
				return Option{}, &ConfigError{Option: name, Err: err}
			}
			return WithFlavor(fl), nil
		}
		return Option{}, configErr(name, v, ErrInvalidValue, "expected a flavor name, got %T", v)
	}
	return Option{}, configErr(name, nil, ErrUnknownOption, "choose from %v", Names)
}

func parseStrip(name string, v any) (StripChars, error) {
	switch s := v.(type) {
	case nil:
		return StripWhitespace(), nil
	case bool:
		return StripBool(s), nil
	case string:
		return StripSet(s), nil
	case StripChars:
		return s, nil
	}
	return StripChars{}, configErr(name, v, ErrInvalidValue, "expected a boolean, null or a string, got %T", v)
}

func parsePatterns(name string, v any, sentinel error) ([]pattern.Pattern, error) {
	switch ps := v.(type) {
	case nil:
		return nil, nil
	case []pattern.Pattern:
		return slices.Clone(ps), nil
	case []string:
		return pattern.Literals(ps...), nil
	case []any:
		out := make([]pattern.Pattern, 0, len(ps))
		for i, item := range ps {
			p, err := ParsePattern(item)
			if err != nil {
				return nil, configErr(name, item, sentinel, "entry %d: %v", i, err)
			}
			out = append(out, p)
		}
		return out, nil
	}
	p, err := ParsePattern(v)
	if err != nil {
		return nil, configErr(name, v, sentinel, "%v", err)
	}
	return []pattern.Pattern{p}, nil
}

// ParsePattern converts a decoded value into a pattern: a string is a
// literal, {re2: src} and {pcre: src, caseless: bool} are compiled.
func ParsePattern(v any) (pattern.Pattern, error) {
	switch p := v.(type) {
	case string:
		return pattern.Literal(p), nil
	case pattern.Pattern:
		if !p.Valid() {
			return pattern.Pattern{}, fmt.Errorf("%s pattern", p.Kind())
		}
		return p, nil
	case *regexp.Regexp:
		return pattern.Regexp(p), nil
	case map[string]any:
		if src, ok := p["re2"].(string); ok {
			re, err := regexp.Compile(src)
			if err != nil {
				return pattern.Pattern{}, fmt.Errorf("%w: %v", pattern.ErrInvalidPattern, err)
			}
			return pattern.Regexp(re), nil
		}
		if src, ok := p["pcre"].(string); ok {
			caseless, _ := p["caseless"].(bool)
			return pattern.PCRE(src, caseless)
		}
		return pattern.Pattern{}, fmt.Errorf("expected a re2 or pcre key, got %v", slices.Sorted(maps.Keys(p)))
	}
	return pattern.Pattern{}, fmt.Errorf("expected a string or a compiled pattern, got %T", v)
}

func parseIgnore(v any, dir string) (Option, error) {
	switch ig := v.(type) {
	case nil:
		return Ignore(nil), nil
	case Predicate:
		return Ignore(ig), nil
	case func(string) bool:
		return Ignore(ig), nil
	case map[string]any:
		if file, ok := ig["file"].(string); ok {
			if dir != "" && !filepath.IsAbs(file) {
				file = filepath.Join(dir, file)
			}
			return IgnoreFile(file)
		}
		if rules, ok := ig["rules"]; ok {
			lines, err := ruleLines(rules)
			if err != nil {
				return Option{}, configErr(NameIgnore, rules, ErrInvalidValue, "%v", err)
			}
			return IgnoreRules(lines...), nil
		}
	}
	ps, err := parsePatterns(NameIgnore, v, ErrInvalidValue)
	if err != nil {
		return Option{}, err
	}
	return IgnorePatterns(ps...), nil
}

func ruleLines(v any) ([]string, error) {
	switch rs := v.(type) {
	case string:
		return strings.Split(rs, "\n"), nil
	case []string:
		return rs, nil
	case []any:
		out := make([]string, len(rs))
		for i, r := range rs {
			line, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("rule %d: expected a string, got %T", i, r)
			}
			out[i] = line
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list of rules, got %T", v)
}
