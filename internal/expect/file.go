// Package expect runs declarative expectation files against captured build
// output. A file names its capture streams, base options and a list of line
// or block assertions:
//
//	options: {flavor: glob}
//	streams: {status: status.txt, warning: warning.txt}
//	expect:
//	  - stream: warning
//	    match: ["*undefined label*"]
//	    count: 1
//	  - stream: status
//	    no_block: "a\nb"
//	    options: {compress: true}
package expect

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/pattern"
)

var (
	// ErrNoAssertion is returned for an entry without any assertion key.
	ErrNoAssertion = errors.New("expectation has no assertion")
	// ErrManyAssertions is returned for an entry with more than one.
	ErrManyAssertions = errors.New("expectation has more than one assertion")
)

// File is a decoded expectation file.
type File struct {
	Options map[string]any    `yaml:"options"`
	Streams map[string]string `yaml:"streams"`
	Expect  []Expectation     `yaml:"expect"`
}

// Expectation is one assertion over one stream. Exactly one of Match,
// NoMatch, Block and NoBlock must be set.
type Expectation struct {
	Name    string         `yaml:"name"`
	Stream  string         `yaml:"stream"`
	Match   Patterns       `yaml:"match"`
	NoMatch Patterns       `yaml:"no_match"`
	Block   Patterns       `yaml:"block"`
	NoBlock Patterns       `yaml:"no_block"`
	Count   *int           `yaml:"count"`
	Context *int           `yaml:"context"`
	Flavor  string         `yaml:"flavor"`
	Options map[string]any `yaml:"options"`
}

// Kind names the assertion of an expectation.
type Kind string

const (
	KindMatch   Kind = "match"
	KindNoMatch Kind = "no_match"
	KindBlock   Kind = "block"
	KindNoBlock Kind = "no_block"
)

// Assertion returns the kind of assertion and its patterns.
func (e Expectation) Assertion() (Kind, Patterns, error) {
	var (
		kind  Kind
		found Patterns
		n     int
	)
	for _, c := range []struct {
		k Kind
		p Patterns
	}{
		{KindMatch, e.Match},
		{KindNoMatch, e.NoMatch},
		{KindBlock, e.Block},
		{KindNoBlock, e.NoBlock},
	} {
		if c.p.set {
			kind, found = c.k, c.p
			n++
		}
	}
	switch n {
	case 0:
		return "", Patterns{}, ErrNoAssertion
	case 1:
		return kind, found, nil
	}
	return "", Patterns{}, ErrManyAssertions
}

// Patterns is either a single string or a list of patterns.
type Patterns struct {
	set    bool
	scalar bool
	text   string
	items  []pattern.Pattern
}

// UnmarshalYAML accepts a scalar string or a sequence of patterns, each a
// string or a {re2: src} / {pcre: src} mapping.
func (p *Patterns) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*p = Patterns{set: true, scalar: true, text: s}
		return nil
	case yaml.SequenceNode:
		var raw []any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		items := make([]pattern.Pattern, 0, len(raw))
		for i, v := range raw {
			pat, err := options.ParsePattern(v)
			if err != nil {
				closePatterns(items)
				return fmt.Errorf("line %d: pattern %d: %w", node.Line, i, err)
			}
			items = append(items, pat)
		}
		*p = Patterns{set: true, items: items}
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of patterns", node.Line)
}

// Spec converts the patterns into a pattern spec. A scalar is one line
// pattern for line assertions and is split into lines for block assertions.
func (p Patterns) Spec() pattern.Spec {
	if p.scalar {
		return pattern.Text(p.text)
	}
	return pattern.Seq(p.items...)
}

// Display returns the patterns as written.
func (p Patterns) Display() []string {
	if p.scalar {
		return []string{p.text}
	}
	out := make([]string, len(p.items))
	for i, it := range p.items {
		out[i] = it.Text()
	}
	return out
}

func closePatterns(ps []pattern.Pattern) {
	for _, p := range ps {
		p.Close()
	}
}

// Close releases the compiled PCRE patterns of every expectation.
func (f *File) Close() {
	for _, e := range f.Expect {
		for _, p := range []Patterns{e.Match, e.NoMatch, e.Block, e.NoBlock} {
			closePatterns(p.items)
		}
	}
}

// Load decodes an expectation file. The caller closes the returned file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expectations: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		f.Close()
		return nil, fmt.Errorf("parse expectations %s: %w", path, err)
	}
	if len(f.Expect) == 0 {
		return nil, fmt.Errorf("expectations %s: no expect entries", path)
	}
	return &f, nil
}
